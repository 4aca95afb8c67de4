package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	apimodels "hr-agent-backend/models/api"
)

// ErrorEvent is posted to the alert webhook for every 5xx answer.
type ErrorEvent struct {
	Service string `json:"service"`
	Code    int    `json:"code"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	Error   string `json:"error"`
}

var notifyClient = &http.Client{Timeout: 5 * time.Second}

// ErrNotify posts server errors to addr without delaying the response.
func ErrNotify(service, addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < fiber.StatusInternalServerError {
			return err
		}
		var resp apimodels.Response
		body := c.Response().Body()
		msg := string(body)
		if json.Unmarshal(body, &resp) == nil && resp.Message != "" {
			msg = resp.Message
		}
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		event := ErrorEvent{Service: service, Code: statusCode, Method: c.Method(), Path: path, Error: msg}
		go postErrorEvent(addr, event)
		return err
	}
}

func postErrorEvent(addr string, event ErrorEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	resp, err := notifyClient.Post(addr, fiber.MIMEApplicationJSON, bytes.NewReader(payload))
	if err != nil {
		log.WithError(err).Warn("error notification not sent")
		return
	}
	resp.Body.Close()
}
