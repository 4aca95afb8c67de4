package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	apimodels "hr-agent-backend/models/api"
)

// AuthorizationRequired checks an HS256 bearer token signed with secret.
// An empty secret leaves the routes open.
func AuthorizationRequired(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(secret),
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("Invalid or missing authorization token"))
		},
	})
}

// GetSubject returns the sub claim of a verified token, or "" when the routes are open.
func GetSubject(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return ""
	}
	sub, _ := token.Claims.GetSubject()
	return sub
}
