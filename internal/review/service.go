package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// Service implements the review workflow: accept-original, accept-edited and
// reject, each updating the card and then the owning session's counter. The
// card mutation is authoritative; a failed counter increment is logged and
// tolerated as documented counter drift, never rolled back.
type Service struct {
	flashcards repository.FlashcardRepository
	sessions   repository.SessionRepository
	log        *logrus.Entry
}

// NewService creates a new review service
func NewService(flashcards repository.FlashcardRepository, sessions repository.SessionRepository) *Service {
	return &Service{
		flashcards: flashcards,
		sessions:   sessions,
		log:        logrus.WithField("component", "review"),
	}
}

// AcceptOriginal marks a pending card as accepted without changes and
// increments the owning session's accepted_original counter. Re-accepting an
// already-accepted card is a no-op; counters only move on a real status
// transition.
func (s *Service) AcceptOriginal(ctx context.Context, userID, cardID uuid.UUID) (*models.Flashcard, error) {
	card, err := s.flashcards.Get(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if card.Status == models.StatusAcceptedOriginal {
		return card, nil
	}

	card.Status = models.StatusAcceptedOriginal
	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update flashcard: %w", err)
	}

	s.incrementCounter(ctx, userID, card.GenerationID, models.CounterAcceptedOriginal, 1)
	return card, nil
}

// AcceptEdited updates a card's text and marks it accepted-edited. If the
// new text is identical to what is stored the call is a no-op returning the
// unchanged card; no counter moves.
func (s *Service) AcceptEdited(ctx context.Context, userID, cardID uuid.UUID, front, back string) (*models.Flashcard, error) {
	if err := models.ValidateContent(front, back); err != nil {
		return nil, err
	}

	card, err := s.flashcards.Get(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if card.Front == front && card.Back == back {
		return card, nil
	}

	transition := card.Status != models.StatusAcceptedEdited

	card.Front = front
	card.Back = back
	card.Status = models.StatusAcceptedEdited
	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update flashcard: %w", err)
	}

	if transition {
		s.incrementCounter(ctx, userID, card.GenerationID, models.CounterAcceptedEdited, 1)
	}
	return card, nil
}

// Reject deletes the card row and increments the owning session's rejected
// counter. The row is hard-deleted; the counter is the only remaining trace.
func (s *Service) Reject(ctx context.Context, userID, cardID uuid.UUID) error {
	card, err := s.flashcards.Get(ctx, userID, cardID)
	if err != nil {
		return err
	}

	if err := s.flashcards.Delete(ctx, userID, cardID); err != nil {
		return fmt.Errorf("failed to delete flashcard: %w", err)
	}

	s.incrementCounter(ctx, userID, card.GenerationID, models.CounterRejected, 1)
	return nil
}

// BulkResult summarizes a bulk review operation.
type BulkResult struct {
	Processed int         `json:"processed"`
	Failed    []uuid.UUID `json:"failed,omitempty"`
}

// BulkAccept accepts every listed card as-is. Counter increments are grouped
// by generation session, one increment of N per distinct session, which is
// numerically identical to N single increments.
func (s *Service) BulkAccept(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (*BulkResult, error) {
	result := &BulkResult{}
	deltas := make(map[uuid.UUID]int)

	for _, cardID := range cardIDs {
		card, err := s.flashcards.Get(ctx, userID, cardID)
		if err != nil {
			result.Failed = append(result.Failed, cardID)
			continue
		}

		// Same idempotency guard as AcceptOriginal.
		if card.Status == models.StatusAcceptedOriginal {
			result.Processed++
			continue
		}

		card.Status = models.StatusAcceptedOriginal
		if err := s.flashcards.Update(ctx, card); err != nil {
			result.Failed = append(result.Failed, cardID)
			continue
		}

		result.Processed++
		if card.GenerationID != nil {
			deltas[*card.GenerationID]++
		}
	}

	s.applyCounterDeltas(ctx, userID, models.CounterAcceptedOriginal, deltas)
	return result, nil
}

// BulkReject deletes every listed card, grouping rejected-counter increments
// by generation session.
func (s *Service) BulkReject(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (*BulkResult, error) {
	result := &BulkResult{}
	deltas := make(map[uuid.UUID]int)

	for _, cardID := range cardIDs {
		card, err := s.flashcards.Get(ctx, userID, cardID)
		if err != nil {
			result.Failed = append(result.Failed, cardID)
			continue
		}

		if err := s.flashcards.Delete(ctx, userID, cardID); err != nil {
			result.Failed = append(result.Failed, cardID)
			continue
		}

		result.Processed++
		if card.GenerationID != nil {
			deltas[*card.GenerationID]++
		}
	}

	s.applyCounterDeltas(ctx, userID, models.CounterRejected, deltas)
	return result, nil
}

// incrementCounter bumps one session counter. Cards without a generation id
// (manual cards) bypass counters entirely.
func (s *Service) incrementCounter(ctx context.Context, userID uuid.UUID, generationID *uuid.UUID, field models.CounterField, delta int) {
	if generationID == nil {
		return
	}

	if err := s.sessions.IncrementCounter(ctx, userID, *generationID, field, delta); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id":       userID,
			"generation_id": *generationID,
			"counter":       field.String(),
			"delta":         delta,
			"error":         err,
		}).Warn("Failed to increment session counter")
	}
}

func (s *Service) applyCounterDeltas(ctx context.Context, userID uuid.UUID, field models.CounterField, deltas map[uuid.UUID]int) {
	for generationID, delta := range deltas {
		id := generationID
		s.incrementCounter(ctx, userID, &id, field, delta)
	}
}
