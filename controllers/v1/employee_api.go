package apiv1

import (
	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/attrition"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/employee"
	apimodels "hr-agent-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type employeeApiController struct {
	controllers.BaseAPIController
}

func InitEmployeeApiRouters(app *fiber.App) {
	controller := employeeApiController{}
	app.Route("employees", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("attrition-risk", controller.attritionRisk)
		})
	})
}

// @Summary List
// @Tags Employees
// @Description Case-insensitive search over Name, Employee_ID and Department
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   search	query	string	false	"search text"
// @Param   department	query	string	false	"department"
// @Param   page	query	int	false	"page, 1-based"
// @Param   limit	query	int	false	"records per page"
// @Success 200 {object} apimodels.ScrollerResponse
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees [get]
func (c *employeeApiController) list(ctx *fiber.Ctx) error {
	var filter employee.ListFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, info, err := employee.Instance.List(ctx.UserContext(), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list employees")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(docstore.ToJSONList(list), info))
}

// @Summary Get
// @Tags Employees
// @Description Employee by Employee_ID
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"Employee_ID"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees/{id} [get]
func (c *employeeApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := employee.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read employee")
	}
	if rec == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("Employee not found"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docstore.ToJSON(rec)))
}

// @Summary Attrition risk
// @Tags Employees
// @Description Attrition probability of one employee
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"Employee_ID"
// @Success 200 {object} apimodels.Response{data=attrition.EmployeeRisk}
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employees/{id}/attrition-risk [get]
func (c *employeeApiController) attritionRisk(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	risk, err := attrition.Instance.PredictEmployee(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, attrition.ErrUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(apimodels.NewError("Attrition model is not available. Train the model and place its artifacts in MODEL_DIR."))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to predict attrition risk")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(risk))
}
