package apiv1

import (
	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/job"
	apimodels "hr-agent-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type jobApiController struct {
	controllers.BaseAPIController
}

func InitJobApiRouters(app *fiber.App) {
	controller := jobApiController{}
	app.Route("jobs", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("ids/list", controller.ids)
		router.Post("seed-basic", controller.seedBasic)
		router.Get(":id", controller.get)
	})
}

// @Summary List
// @Tags Jobs
// @Description Jobs filtered by department, position and status
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   department	query	string	false	"department"
// @Param   position	query	string	false	"position"
// @Param   status	query	string	false	"status"
// @Param   page	query	int	false	"page, 1-based"
// @Param   limit	query	int	false	"records per page"
// @Success 200 {object} apimodels.ScrollerResponse
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs [get]
func (c *jobApiController) list(ctx *fiber.Ctx) error {
	var filter job.ListFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, info, err := job.Instance.List(ctx.UserContext(), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list jobs")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(docstore.ToJSONList(list), info))
}

// @Summary Get
// @Tags Jobs
// @Description Job by JobID or ObjectId
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"JobID or ObjectId"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := job.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read job")
	}
	if rec == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("Job not found"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docstore.ToJSON(rec)))
}

// @Summary Job ids
// @Tags Jobs
// @Description Short list of every job for pickers
// @Param   Authorization		header		string	false	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]job.Summary}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/ids/list [get]
func (c *jobApiController) ids(ctx *fiber.Ctx) error {
	list, err := job.Instance.IDs(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list job ids")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Create
// @Tags Jobs
// @Description Creates a job, a JobID is generated when absent
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 job.Job	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs [post]
func (c *jobApiController) create(ctx *fiber.Ctx) error {
	var payload job.Job
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := job.Instance.Create(ctx.UserContext(), payload)
	if err != nil {
		return c.SendMappedError(ctx, err, controllers.ErrorCodes{job.ErrDuplicateJobID: fiber.StatusConflict}, "Failed to create job")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Job created successfully", docstore.ToJSON(rec)))
}

// @Summary Seed sample jobs
// @Tags Jobs
// @Description Inserts sample jobs when the collection is empty
// @Param   Authorization		header		string	false	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/seed-basic [post]
func (c *jobApiController) seedBasic(ctx *fiber.Ctx) error {
	seeded, count, err := job.Instance.SeedBasic(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to seed jobs")
	}
	msg := "Jobs collection already has data"
	if seeded {
		msg = "Sample jobs created"
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(msg, fiber.Map{"count": count}))
}
