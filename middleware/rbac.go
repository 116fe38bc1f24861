package middleware

import (
	"sportlink-service/apperr"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RBAC enforces casbin policy on the admin surface with the injected
// enforcer.
func RBAC(enforcer *casbin.Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*jwt.Token)
		claims := user.Claims.(jwt.MapClaims)

		// Policy lives in the database; pick up grants made since boot
		if err := enforcer.LoadPolicy(); err != nil {
			return apperr.Respond(c, err)
		}

		accepted, err := enforcer.Enforce(claims["id"].(string), c.OriginalURL(), c.Method())
		if err != nil {
			return apperr.Respond(c, err)
		}

		if !accepted {
			return apperr.Respond(c, apperr.New(apperr.CodeForbidden, "insufficient role"))
		}

		return c.Next()
	}
}
