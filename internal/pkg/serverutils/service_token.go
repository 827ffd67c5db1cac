package serverutils

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// ServiceTokenMiddleware protects internal job endpoints. The caller
// must present the shared SERVICE_ROLE_TOKEN in the X-Service-Token
// header.
func ServiceTokenMiddleware(ctx *fiber.Ctx) error {
	expected := os.Getenv("SERVICE_ROLE_TOKEN")
	if expected == "" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Service token not configured"})
	}

	provided := ctx.Get("X-Service-Token")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid service token"})
	}

	return ctx.Next()
}
