package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	apimodels "hr-agent-backend/models/api"
)

// WithBodyLimit rejects requests whose declared Content-Length exceeds limit.
// Paths containing one of exempt (file uploads) are let through.
func WithBodyLimit(limit int64, exempt ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, path := range exempt {
			if strings.Contains(c.Path(), path) {
				return c.Next()
			}
		}
		contentLength := c.Get(fiber.HeaderContentLength)
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > limit {
				return c.Status(fiber.StatusRequestEntityTooLarge).
					JSON(apimodels.NewError(fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", limit)))
			}
		}
		return c.Next()
	}
}
