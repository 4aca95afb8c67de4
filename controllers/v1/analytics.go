package apiv1

import (
	"fmt"
	"time"

	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/analytics"
	"hr-agent-backend/lib/attrition"
	apimodels "hr-agent-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type analyticsApiController struct {
	controllers.BaseAPIController
}

func InitAnalyticsApiRouters(app *fiber.App) {
	controller := analyticsApiController{}
	app.Route("analytics", func(router fiber.Router) {
		router.Get("summary", controller.summary)
		router.Get("department-distribution", controller.departments)
		router.Get("attrition-risk", controller.riskDistribution)
		router.Get("performance-trend", controller.performanceTrend)
		router.Get("attrition/export", controller.attritionExport)
	})
}

// @Summary Summary
// @Tags Analytics
// @Description Employee count, average salary in thousands and high attrition risk count
// @Param   Authorization		header	string	false	"Authorization token"
// @Success 200 {object} apimodels.Response{data=analytics.Summary}
// @router /api/v1/analytics/summary [get]
func (c *analyticsApiController) summary(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(analytics.Instance.Summary(ctx.UserContext())))
}

// @Summary Department distribution
// @Tags Analytics
// @Description Employee count per department, largest first
// @Param   Authorization		header	string	false	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]analytics.DepartmentCount}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/analytics/department-distribution [get]
func (c *analyticsApiController) departments(ctx *fiber.Ctx) error {
	data, err := analytics.Instance.Departments(ctx.UserContext(), 0)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read department distribution")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Attrition risk distribution
// @Tags Analytics
// @Description Employees per stored attrition risk band
// @Param   Authorization		header	string	false	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]analytics.RiskCount}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/analytics/attrition-risk [get]
func (c *analyticsApiController) riskDistribution(ctx *fiber.Ctx) error {
	data, err := analytics.Instance.RiskDistribution(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read attrition risk distribution")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Performance trend
// @Tags Analytics
// @Description Forecast of the performance score, empty when no forecaster is loaded
// @Param   Authorization		header	string	false	"Authorization token"
// @Param   periods	query	int	false	"1..12, 6 by default"
// @Success 200 {object} apimodels.Response{data=[]analytics.TrendPoint}
// @router /api/v1/analytics/performance-trend [get]
func (c *analyticsApiController) performanceTrend(ctx *fiber.Ctx) error {
	periods := ctx.QueryInt("periods", 6)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(analytics.Instance.PerformanceTrend(periods)))
}

// @Summary Attrition export
// @Tags Analytics
// @Description Attrition ranking as an Excel workbook
// @Param   Authorization		header	string	false	"Authorization token"
// @Param   top_n	query	int	false	"rows, 20 by default"
// @Success 200 {file} file
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/analytics/attrition/export [get]
func (c *analyticsApiController) attritionExport(ctx *fiber.Ctx) error {
	data, err := analytics.Instance.AttritionExport(ctx.UserContext(), ctx.QueryInt("top_n", 20))
	if err != nil {
		return c.SendMappedError(ctx, err, controllers.ErrorCodes{
			attrition.ErrUnavailable: fiber.StatusServiceUnavailable,
			attrition.ErrNoData:      fiber.StatusNotFound,
		}, "Failed to export attrition ranking")
	}
	fileName := fmt.Sprintf("attrition-risk-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
