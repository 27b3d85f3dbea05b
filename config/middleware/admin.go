package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"hr-records/models"
)

// RequireRole lets the request through only when the authenticated caller holds
// one of roles. It must run after AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsKey).(*models.Claims)
		if !ok {
			return unauthorized(c, "Not authenticated")
		}

		if !slices.Contains(roles, claims.Role) {
			return c.Status(fiber.StatusForbidden).JSON(models.Envelope{
				Status:  models.StatusError,
				Message: "Access denied",
			})
		}

		return c.Next()
	}
}

func AdminMiddleware() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}
