package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flashforge/flashforge-backend/internal/auth"
)

// AuthRequired creates a middleware that requires a valid access token and
// stores the caller's user id in the request context.
func AuthRequired(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.ExtractTokenFromBearer(c.Get("Authorization"))

		// Also check for token in cookie (for web clients)
		if token == "" {
			token = c.Cookies("access_token")
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		userID, err := authService.ValidateAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// GetUserID retrieves the authenticated user id from the fiber context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	if userID := c.Locals("user_id"); userID != nil {
		if id, ok := userID.(uuid.UUID); ok {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
}
