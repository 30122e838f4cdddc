package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flashforge/flashforge-backend/internal/api/middleware"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// GetGenerationSessions returns all of the caller's generation sessions,
// newest first.
func GetGenerationSessions(sessions repository.SessionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		list, err := sessions.List(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"sessions": list,
		})
	}
}

// GetGenerationSession returns a single generation session with its counters.
func GetGenerationSession(sessions repository.SessionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		sessionID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid session ID format",
			})
		}

		session, err := sessions.Get(c.Context(), userID, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(session)
	}
}
