package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
	apimodels "hr-agent-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request body not parsed")
		return errors.New("failed to read the request data")
	}
	return nil
}

func (c *BaseAPIController) QueryParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.QueryParser(out); err != nil {
		log.WithError(err).Error("request query not parsed")
		return errors.New("failed to read the request parameters")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(ctx.Params("id"))
	if id == "" {
		return "", errors.New("id is required")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError answers 404 for lookup misses and 500 with msg for everything else.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	var nf *lookup.NotFoundError
	if errors.As(err, &nf) {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(nf.Error()))
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}

// StatusOf maps an agent result kind to the HTTP status of its response.
func StatusOf(kind models.ResultKind) int {
	switch kind {
	case models.KindOK, "":
		return fiber.StatusOK
	case models.KindInputError, models.KindParseError:
		return fiber.StatusBadRequest
	case models.KindNotFound:
		return fiber.StatusNotFound
	case models.KindUnavailable:
		return fiber.StatusServiceUnavailable
	case models.KindDeliveryError:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// SendResult writes an agent result as a standard response.
func (c *BaseAPIController) SendResult(ctx *fiber.Ctx, res models.AgentResult) error {
	return ctx.Status(StatusOf(res.Kind)).JSON(apimodels.Response{
		Success: res.Success,
		Message: res.Answer,
		Data:    res.Data,
	})
}

// ErrorCodes maps known domain errors to the status they are answered with.
type ErrorCodes map[error]int

// SendMappedError answers a known error with its status and its own message; anything else goes to SendError.
func (c *BaseAPIController) SendMappedError(ctx *fiber.Ctx, err error, codes ErrorCodes, msg string) error {
	for target, status := range codes {
		if errors.Is(err, target) {
			return ctx.Status(status).JSON(apimodels.NewError(err.Error()))
		}
	}
	return c.SendError(ctx, c.GetLogger(ctx), err, msg)
}
