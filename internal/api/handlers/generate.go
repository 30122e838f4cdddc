package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/flashforge/flashforge-backend/internal/api/middleware"
	"github.com/flashforge/flashforge-backend/internal/generation"
)

// GenerateFlashcards runs the AI generation pipeline for the caller's text.
func GenerateFlashcards(genService *generation.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var req struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		result, err := genService.Generate(c.Context(), req.Text, userID)

		// Advertise the remaining quota on every outcome; a failed read just
		// omits the header.
		if remaining, remErr := genService.Remaining(c.Context(), userID); remErr == nil {
			c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if err != nil {
			if genErr, ok := generation.AsError(err); ok {
				body := fiber.Map{
					"error": genErr.Message,
					"code":  string(genErr.Kind),
				}
				if len(genErr.Details) > 0 {
					body["details"] = genErr.Details
				}
				return c.Status(genErr.HTTPStatus()).JSON(body)
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate flashcards",
			})
		}

		return c.JSON(result)
	}
}
