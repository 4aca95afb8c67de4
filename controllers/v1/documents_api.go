package apiv1

import (
	"bytes"
	"fmt"

	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/documents"
	apimodels "hr-agent-backend/models/api"
	agentapimodels "hr-agent-backend/models/api/agents"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type documentsApiController struct {
	controllers.BaseAPIController
}

var documentErrorCodes = controllers.ErrorCodes{
	documents.ErrNotFound:      fiber.StatusNotFound,
	documents.ErrUnknownType:   fiber.StatusBadRequest,
	documents.ErrNoRecipient:   fiber.StatusBadRequest,
	documents.ErrEmptyDocument: fiber.StatusBadGateway,
}

func InitDocumentsApiRouters(app *fiber.App) {
	controller := documentsApiController{}
	app.Route("agents/documents", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("generate", controller.generate)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("send", controller.send)
			idRoute.Get("pdf", controller.pdf)
		})
	})
}

// @Summary Generate
// @Tags Documents
// @Description Generates an HR document with the language model and stores it with its PDF
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 documents.Request	true	"request body"
// @Success 200 {object} apimodels.Response{data=documents.Document}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/documents/generate [post]
func (c *documentsApiController) generate(ctx *fiber.Ctx) error {
	var payload documents.Request
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	doc, err := documents.Instance.Generate(ctx.UserContext(), payload)
	if err != nil {
		return c.SendMappedError(ctx, err, documentErrorCodes, "Failed to generate document")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(doc))
}

// @Summary List
// @Tags Documents
// @Description Generated documents, newest first
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   type	query	string	false	"offer_letter, employment_contract, experience_certificate or salary_certificate"
// @Param   employee_id	query	string	false	"employee id"
// @Param   limit	query	int	false	"max records"
// @Success 200 {object} apimodels.Response{data=[]documents.Document}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/documents [get]
func (c *documentsApiController) list(ctx *fiber.Ctx) error {
	var filter agentapimodels.DocumentsFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := documents.Instance.List(ctx.UserContext(), filter.Type, filter.EmployeeID, filter.Limit)
	if err != nil {
		return c.SendMappedError(ctx, err, documentErrorCodes, "Failed to list documents")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Get
// @Tags Documents
// @Description Generated document by id
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"document id"
// @Success 200 {object} apimodels.Response{data=documents.Document}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/documents/{id} [get]
func (c *documentsApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	doc, err := documents.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendMappedError(ctx, err, documentErrorCodes, "Failed to read document")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(doc))
}

// @Summary Send
// @Tags Documents
// @Description Mails the document to the recipient or to the employee email stored with it
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"document id"
// @Param	body body	 agentapimodels.SendDocumentRequest	false	"request body"
// @Success 200 {object} apimodels.Response{data=documents.Document}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/documents/{id}/send [post]
func (c *documentsApiController) send(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload agentapimodels.SendDocumentRequest
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	doc, report, err := documents.Instance.Send(ctx.UserContext(), id, payload.Recipient)
	if errors.Is(err, documents.ErrNotDelivered) {
		return ctx.Status(fiber.StatusBadGateway).JSON(apimodels.Response{
			Success: false,
			Message: report.Summary(),
			Data:    fiber.Map{"document": doc, "notification": report},
		})
	}
	if err != nil {
		return c.SendMappedError(ctx, err, documentErrorCodes, "Failed to send document")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(report.Summary(), doc))
}

// @Summary PDF
// @Tags Documents
// @Description Downloads the document as PDF
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"document id"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/documents/{id}/pdf [get]
func (c *documentsApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, fileName, err := documents.Instance.PDF(ctx.UserContext(), id)
	if err != nil {
		return c.SendMappedError(ctx, err, documentErrorCodes, "Failed to render document pdf")
	}
	ctx.Set("Content-Type", "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return ctx.SendStream(bytes.NewReader(data))
}
