package flashcards

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// Pagination echoes the applied paging back to the client.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Service handles flashcard CRUD outside the review workflow. Manual card
// operations never touch session counters.
type Service struct {
	repo     repository.FlashcardRepository
	sessions repository.SessionRepository
}

// NewService creates a new flashcards service
func NewService(repo repository.FlashcardRepository, sessions repository.SessionRepository) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// List returns a page of the user's cards with the pagination envelope.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter repository.FlashcardFilter) ([]*models.Flashcard, *Pagination, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, nil, fmt.Errorf("invalid status filter %q", filter.Status)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	cards, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, nil, err
	}

	return cards, &Pagination{Page: filter.Page, Limit: filter.Limit, Total: total}, nil
}

// Get returns one card by id.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Flashcard, error) {
	return s.repo.Get(ctx, userID, id)
}

// Create inserts a card. Self-authored cards are born accepted; cards tied to
// a generation session default to pending. A referenced session must belong
// to the caller.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, front, back string, generationID *uuid.UUID) (*models.Flashcard, error) {
	if err := models.ValidateContent(front, back); err != nil {
		return nil, err
	}

	if generationID != nil {
		if _, err := s.sessions.Get(ctx, userID, *generationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("unknown generation session %s", *generationID)
			}
			return nil, err
		}
	}

	card := &models.Flashcard{
		UserID:       userID,
		Front:        front,
		Back:         back,
		GenerationID: generationID,
	}
	if generationID != nil {
		card.Source = models.SourceAI
		card.Status = models.StatusPending
	} else {
		card.Source = models.SourceSelf
		card.Status = models.StatusAcceptedOriginal
	}

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// Update rewrites a card's text in place. The status is untouched; status
// transitions go through the review workflow.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, front, back string) (*models.Flashcard, error) {
	if err := models.ValidateContent(front, back); err != nil {
		return nil, err
	}

	card, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	card.Front = front
	card.Back = back
	if err := s.repo.Update(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// Delete removes a card without touching session counters. Rejection, which
// does count, lives in the review service.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
