package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/flashforge/flashforge-backend/internal/api/middleware"
	"github.com/flashforge/flashforge-backend/internal/flashcards"
	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
	"github.com/flashforge/flashforge-backend/internal/review"
)

// ListFlashcards returns a page of the caller's flashcards.
func ListFlashcards(svc *flashcards.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		filter := repository.FlashcardFilter{
			Page:   c.QueryInt("page", 1),
			Limit:  c.QueryInt("limit", 10),
			Status: c.Query("status"),
			SortBy: c.Query("sortBy", "created_at"),
			Order:  c.Query("order", "desc"),
		}

		cards, pagination, err := svc.List(c.Context(), userID, filter)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"flashcards": cards,
			"pagination": pagination,
		})
	}
}

// CreateFlashcard creates a single card, typically self-authored.
func CreateFlashcard(svc *flashcards.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var req struct {
			Front        string     `json:"front"`
			Back         string     `json:"back"`
			GenerationID *uuid.UUID `json:"generation_id,omitempty"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		card, err := svc.Create(c.Context(), userID, req.Front, req.Back, req.GenerationID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(card)
	}
}

// GetFlashcard returns one card by id.
func GetFlashcard(svc *flashcards.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		cardID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid flashcard ID format",
			})
		}

		card, err := svc.Get(c.Context(), userID, cardID)
		if err != nil {
			return flashcardError(c, err)
		}

		return c.JSON(card)
	}
}

// UpdateFlashcard rewrites a card's text without a status transition.
func UpdateFlashcard(svc *flashcards.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		cardID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid flashcard ID format",
			})
		}

		var req struct {
			Front string `json:"front"`
			Back  string `json:"back"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		card, err := svc.Update(c.Context(), userID, cardID, req.Front, req.Back)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return flashcardError(c, err)
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(card)
	}
}

// DeleteFlashcard removes a card outside the review workflow.
func DeleteFlashcard(svc *flashcards.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		cardID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid flashcard ID format",
			})
		}

		if err := svc.Delete(c.Context(), userID, cardID); err != nil {
			return flashcardError(c, err)
		}

		return c.JSON(fiber.Map{
			"message": "Flashcard deleted successfully",
		})
	}
}

// UpdateFlashcardStatus drives the review workflow for one card. Accept with
// front/back in the body reviews the card as edited; accept without text
// reviews it as-is; reject deletes the card.
func UpdateFlashcardStatus(reviewService *review.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		cardID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid flashcard ID format",
			})
		}

		var req struct {
			Action string `json:"action"`
			Front  string `json:"front,omitempty"`
			Back   string `json:"back,omitempty"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		switch req.Action {
		case "accept":
			if req.Front != "" || req.Back != "" {
				card, err := reviewService.AcceptEdited(c.Context(), userID, cardID, req.Front, req.Back)
				if err != nil {
					return flashcardError(c, err)
				}
				return c.JSON(card)
			}
			card, err := reviewService.AcceptOriginal(c.Context(), userID, cardID)
			if err != nil {
				return flashcardError(c, err)
			}
			return c.JSON(card)
		case "reject":
			if err := reviewService.Reject(c.Context(), userID, cardID); err != nil {
				return flashcardError(c, err)
			}
			return c.JSON(fiber.Map{
				"message": "Flashcard rejected",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Action must be either 'accept' or 'reject'",
			})
		}
	}
}

// BulkAcceptFlashcards accepts a batch of cards as-is.
func BulkAcceptFlashcards(reviewService *review.Service) fiber.Handler {
	return bulkReviewHandler(reviewService.BulkAccept)
}

// BulkRejectFlashcards rejects a batch of cards.
func BulkRejectFlashcards(reviewService *review.Service) fiber.Handler {
	return bulkReviewHandler(reviewService.BulkReject)
}

func bulkReviewHandler(op func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*review.BulkResult, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var req struct {
			IDs []uuid.UUID `json:"ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if len(req.IDs) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "At least one flashcard ID is required",
			})
		}

		result, err := op(c.Context(), userID, req.IDs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(result)
	}
}

func flashcardError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Flashcard not found",
		})
	}
	if errors.Is(err, models.ErrInvalidContent) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
