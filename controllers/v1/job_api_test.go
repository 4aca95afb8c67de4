package apiv1

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"hr-agent-backend/lib/docstore/memstore"
	"hr-agent-backend/lib/job"
)

type testResponse struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Pagination map[string]interface{} `json:"pagination"`
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, testResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out testResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestJobApi(t *testing.T) {
	job.NewHandler(memstore.New())
	app := fiber.New()
	InitJobApiRouters(app)

	t.Run(`create check`, func(t *testing.T) {
		code, res := doRequest(t, app, http.MethodPost, "/jobs", `{"JobID":"JOB-GO-1","Position":"Go Developer","Department":"Engineering"}`)
		require.Equal(t, fiber.StatusOK, code)
		require.True(t, res.Success)
		require.Equal(t, "Job created successfully", res.Message)
	})

	t.Run(`duplicate job id check`, func(t *testing.T) {
		code, res := doRequest(t, app, http.MethodPost, "/jobs", `{"JobID":"JOB-GO-1","Position":"Other","Department":"Engineering"}`)
		require.Equal(t, fiber.StatusConflict, code)
		require.False(t, res.Success)
		require.Contains(t, res.Message, "JobID already exists")
	})

	t.Run(`validation check`, func(t *testing.T) {
		code, res := doRequest(t, app, http.MethodPost, "/jobs", `{"Department":"Engineering"}`)
		require.Equal(t, fiber.StatusBadRequest, code)
		require.Equal(t, "Position is required", res.Message)
	})

	t.Run(`get check`, func(t *testing.T) {
		code, res := doRequest(t, app, http.MethodGet, "/jobs/JOB-GO-1", "")
		require.Equal(t, fiber.StatusOK, code)
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(res.Data, &rec))
		require.Equal(t, "Go Developer", rec["Position"])

		code, res = doRequest(t, app, http.MethodGet, "/jobs/JOB-MISSING", "")
		require.Equal(t, fiber.StatusNotFound, code)
		require.Equal(t, "Job not found", res.Message)
	})

	t.Run(`list check`, func(t *testing.T) {
		code, res := doRequest(t, app, http.MethodGet, "/jobs?department=engin&limit=10", "")
		require.Equal(t, fiber.StatusOK, code)
		var list []map[string]interface{}
		require.NoError(t, json.Unmarshal(res.Data, &list))
		require.Len(t, list, 1)
		require.EqualValues(t, 1, res.Pagination["total"])
	})
}
