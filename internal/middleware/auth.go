package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/service/auth"
)

const UserContextKey = "user"

func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Invalid authorization header format")
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			return Unauthorized("Invalid or expired token")
		case errors.Is(err, auth.ErrUserNotFound):
			return Unauthorized("User not found")
		case errors.Is(err, auth.ErrAccountDisabled):
			return Forbidden("Account is not active")
		case err != nil:
			return err
		}

		c.Locals(UserContextKey, user)

		return c.Next()
	}
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// GetCaller returns the identity services authorize against.
func GetCaller(c *fiber.Ctx) (domain.Caller, bool) {
	user := GetCurrentUser(c)
	if user == nil {
		return domain.Caller{}, false
	}
	return domain.Caller{ID: user.ID, Role: user.Role}, true
}
