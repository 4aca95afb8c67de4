package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
	apimodels "hr-agent-backend/models/api"
)

var errBusy = errors.New("slot is taken")

func TestStatusOf(t *testing.T) {
	t.Run(`result kinds check`, func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, StatusOf(models.KindOK))
		require.Equal(t, fiber.StatusOK, StatusOf(""))
		require.Equal(t, fiber.StatusBadRequest, StatusOf(models.KindParseError))
		require.Equal(t, fiber.StatusNotFound, StatusOf(models.KindNotFound))
		require.Equal(t, fiber.StatusServiceUnavailable, StatusOf(models.KindUnavailable))
		require.Equal(t, fiber.StatusBadGateway, StatusOf(models.KindDeliveryError))
		require.Equal(t, fiber.StatusInternalServerError, StatusOf(models.KindInternalError))
	})
}

func TestSendMappedError(t *testing.T) {
	c := BaseAPIController{}
	codes := ErrorCodes{errBusy: fiber.StatusConflict}
	app := fiber.New()
	app.Get("/:case", func(ctx *fiber.Ctx) error {
		switch ctx.Params("case") {
		case "known":
			return c.SendMappedError(ctx, errors.Wrap(errBusy, "book"), codes, "Failed")
		case "missing":
			return c.SendMappedError(ctx, &lookup.NotFoundError{Entity: "Candidate", ID: "42"}, codes, "Failed")
		}
		return c.SendMappedError(ctx, errors.New("db is down"), codes, "Failed")
	})

	check := func(t *testing.T, target string, status int) apimodels.Response {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, status, resp.StatusCode)
		var out apimodels.Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.False(t, out.Success)
		return out
	}

	t.Run(`known error check`, func(t *testing.T) {
		out := check(t, "/known", fiber.StatusConflict)
		require.Equal(t, "book: slot is taken", out.Message)
	})
	t.Run(`lookup miss check`, func(t *testing.T) {
		check(t, "/missing", fiber.StatusNotFound)
	})
	t.Run(`unknown error hides details check`, func(t *testing.T) {
		out := check(t, "/other", fiber.StatusInternalServerError)
		require.Equal(t, "Failed", out.Message)
	})
}
