package apiv1

import (
	"net/url"

	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/onboarding"
	"hr-agent-backend/lib/scheduler"
	apimodels "hr-agent-backend/models/api"
	onboardingapimodels "hr-agent-backend/models/api/onboarding"

	"github.com/gofiber/fiber/v2"
)

type onboardingApiController struct {
	controllers.BaseAPIController
}

var onboardingErrorCodes = controllers.ErrorCodes{
	onboarding.ErrNotFound:           fiber.StatusNotFound,
	onboarding.ErrBuddyNotFound:      fiber.StatusNotFound,
	onboarding.ErrTaskNotFound:       fiber.StatusNotFound,
	onboarding.ErrDocumentNotTracked: fiber.StatusNotFound,
	onboarding.ErrInvalidTaskStatus:  fiber.StatusBadRequest,
	onboarding.ErrInvalidDocStatus:   fiber.StatusBadRequest,
	onboarding.ErrPlanCompleted:      fiber.StatusConflict,
	onboarding.ErrDocumentsNotIssued: fiber.StatusConflict,
	onboarding.ErrConflict:           fiber.StatusConflict,
	scheduler.ErrNoSlots:             fiber.StatusConflict,
}

func InitOnboardingApiRouters(app *fiber.App) {
	controller := onboardingApiController{}
	app.Route("onboarding", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("tasks/:task_id", controller.updateTask)
			idRoute.Post("buddy", controller.assignBuddy)
			idRoute.Route("orientation", func(orientationRoute fiber.Router) {
				orientationRoute.Post("email", controller.orientationEmail)
				orientationRoute.Post("schedule", controller.scheduleOrientation)
			})
			idRoute.Route("documents", func(docRoute fiber.Router) {
				docRoute.Post("guidance", controller.documentGuidance)
				docRoute.Put(":name", controller.updateDocument)
			})
		})
	})
}

// @Summary Create
// @Tags Onboarding
// @Description Creates an onboarding plan and sends the welcome mail
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 onboardingapimodels.CreateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=onboarding.Created}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding [post]
func (c *onboardingApiController) create(ctx *fiber.Ctx) error {
	var payload onboardingapimodels.CreateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	created, err := onboarding.Instance.Create(ctx.UserContext(), payload.CreateRequest)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to create onboarding plan")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(created.Welcome.Summary(), created))
}

// @Summary List
// @Tags Onboarding
// @Description Onboarding plans, newest first
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   status	query	string	false	"active or completed"
// @Param   employee_id	query	string	false	"employee id"
// @Success 200 {object} apimodels.Response{data=[]onboarding.Plan}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding [get]
func (c *onboardingApiController) list(ctx *fiber.Ctx) error {
	var filter onboardingapimodels.ListFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := onboarding.Instance.List(ctx.UserContext(), filter.EmployeeID, filter.Status)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list onboarding plans")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Get
// @Tags Onboarding
// @Description Onboarding plan by id
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"plan id"
// @Success 200 {object} apimodels.Response{data=onboarding.Plan}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding/{id} [get]
func (c *onboardingApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	plan, err := onboarding.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to read onboarding plan")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(plan))
}

// @Summary Update task
// @Tags Onboarding
// @Description Sets a task to pending or completed and recomputes the completion
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"plan id"
// @Param   task_id	path	string	true	"task id or task text"
// @Param	body body	 onboardingapimodels.TaskUpdate	true	"request body"
// @Success 200 {object} apimodels.Response{data=onboarding.Plan}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding/{id}/tasks/{task_id} [put]
func (c *onboardingApiController) updateTask(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	taskRef, err := url.PathUnescape(ctx.Params("task_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("task id is not valid"))
	}
	var payload onboardingapimodels.TaskUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	plan, err := onboarding.Instance.UpdateTask(ctx.UserContext(), id, taskRef, payload.Status)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to update onboarding task")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(plan))
}

// @Summary Assign buddy
// @Tags Onboarding
// @Description Assigns a buddy and introduces them by mail
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"plan id"
// @Param	body body	 onboardingapimodels.BuddyRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=onboarding.Plan}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding/{id}/buddy [post]
func (c *onboardingApiController) assignBuddy(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload onboardingapimodels.BuddyRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	plan, report, err := onboarding.Instance.AssignBuddy(ctx.UserContext(), id, payload.BuddyID)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to assign buddy")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(report.Summary(), plan))
}

// @Summary Orientation email
// @Tags Onboarding
// @Description Mails three suggested orientation dates
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"plan id"
// @Success 200 {object} apimodels.Response{data=onboarding.Plan}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding/{id}/orientation/email [post]
func (c *onboardingApiController) orientationEmail(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	plan, report, err := onboarding.Instance.SendOrientationEmail(ctx.UserContext(), id)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to send orientation email")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(report.Summary(), plan))
}

// @Summary Schedule orientation
// @Tags Onboarding
// @Description Books a two hour orientation session
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"plan id"
// @Param	body body	 onboardingapimodels.OrientationRequest	false	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding/{id}/orientation/schedule [post]
func (c *onboardingApiController) scheduleOrientation(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload onboardingapimodels.OrientationRequest
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	plan, meeting, err := onboarding.Instance.ScheduleOrientation(ctx.UserContext(), id, payload.PreferredDate, payload.PreferredTime)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to schedule orientation")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{
		"plan":    plan,
		"meeting": meeting,
	}))
}

// @Summary Document guidance
// @Tags Onboarding
// @Description Mails the required documents checklist and starts tracking it
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"plan id"
// @Success 200 {object} apimodels.Response{data=onboarding.Plan}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding/{id}/documents/guidance [post]
func (c *onboardingApiController) documentGuidance(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	plan, report, err := onboarding.Instance.SendDocumentGuidance(ctx.UserContext(), id)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to send document guidance")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(report.Summary(), plan))
}

// @Summary Update document
// @Tags Onboarding
// @Description Sets a tracked document to pending, submitted or verified
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"plan id"
// @Param   name	path	string	true	"document name"
// @Param	body body	 onboardingapimodels.DocumentUpdate	true	"request body"
// @Success 200 {object} apimodels.Response{data=onboarding.Plan}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/onboarding/{id}/documents/{name} [put]
func (c *onboardingApiController) updateDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	name, err := url.PathUnescape(ctx.Params("name"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("document name is not valid"))
	}
	var payload onboardingapimodels.DocumentUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	plan, err := onboarding.Instance.UpdateDocument(ctx.UserContext(), id, name, payload.Status)
	if err != nil {
		return c.SendMappedError(ctx, err, onboardingErrorCodes, "Failed to update document status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(plan))
}
