package apiv1

import (
	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/chatbot"
	apimodels "hr-agent-backend/models/api"
	agentapimodels "hr-agent-backend/models/api/agents"

	"github.com/gofiber/fiber/v2"
)

type askApiController struct {
	controllers.BaseAPIController
}

func InitAskApiRouters(app *fiber.App) {
	controller := askApiController{}
	app.Post("ask", controller.ask)
	app.Route("chatbot", func(router fiber.Router) {
		router.Get("logs", controller.logs)
	})
}

// @Summary Ask
// @Tags Chatbot
// @Description Classifies a natural-language request and answers it with the matching agent
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 agentapimodels.AskRequest	true	"request body"
// @Success 200 {object} agentapimodels.AskResponse
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} agentapimodels.AskResponse
// @router /api/v1/ask [post]
func (c *askApiController) ask(ctx *fiber.Ctx) error {
	var payload agentapimodels.AskRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	reply := chatbot.Instance.Ask(ctx.UserContext(), payload.Query)
	return ctx.Status(controllers.StatusOf(reply.Kind)).JSON(agentapimodels.AskResponse{
		Success:   reply.Success,
		Answer:    reply.Answer,
		QueryType: string(reply.QueryType),
		Data:      reply.Data,
	})
}

// @Summary Chatbot logs
// @Tags Chatbot
// @Description Recent exchanges with the distribution of query types
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   query_type	query	string	false	"query type"
// @Param   limit	query	int	false	"max records, 50 by default"
// @Param   days	query	int	false	"look-back window in days, 7 by default"
// @Success 200 {object} apimodels.Response{data=chatbot.LogPage}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/chatbot/logs [get]
func (c *askApiController) logs(ctx *fiber.Ctx) error {
	var filter chatbot.LogFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	page, err := chatbot.Instance.Logs(ctx.UserContext(), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read chatbot logs")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(page))
}
