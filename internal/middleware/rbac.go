package middleware

import (
	"github.com/gofiber/fiber/v2"

	"aide-sociale/internal/domain"
)

// RequirePermission rejects callers whose role may not run op. Services
// check the same table again, so this only saves a round trip.
func RequirePermission(op domain.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		if !domain.Can(user.Role, op) {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}
