package middleware

import (
	"sportlink-service/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// OTP blocks tokens that still await a 2FA validation.
func OTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*jwt.Token)
		claims := user.Claims.(jwt.MapClaims)

		if claims["otp"].(bool) {
			return apperr.Respond(c, apperr.New(apperr.CodeAuthRequired, "2FA required"))
		}

		return c.Next()
	}
}
