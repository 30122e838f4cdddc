package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flashforge/flashforge-backend/internal/models"
)

// ErrNotFound is returned when a row does not exist or is not owned by the
// requesting user. Ownership failures are indistinguishable from missing rows
// on purpose.
var ErrNotFound = errors.New("not found")

// FlashcardFilter carries pagination, filtering and sorting for card listings.
type FlashcardFilter struct {
	Page   int
	Limit  int
	Status string
	SortBy string
	Order  string
}

// FlashcardRepository persists flashcards with row-level user isolation.
type FlashcardRepository interface {
	Create(ctx context.Context, card *models.Flashcard) error
	// CreateBatch inserts all cards in a single statement so a failure never
	// leaves a partial card set behind.
	CreateBatch(ctx context.Context, cards []*models.Flashcard) error
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Flashcard, error)
	List(ctx context.Context, userID uuid.UUID, filter FlashcardFilter) ([]*models.Flashcard, int, error)
	ListByGeneration(ctx context.Context, userID, generationID uuid.UUID) ([]*models.Flashcard, error)
	Update(ctx context.Context, card *models.Flashcard) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// SessionRepository persists generation sessions and their counters.
type SessionRepository interface {
	Create(ctx context.Context, session *models.GenerationSession) error
	Get(ctx context.Context, userID, id uuid.UUID) (*models.GenerationSession, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.GenerationSession, error)
	// CountCreatedSince counts the user's sessions created at or after the
	// given instant. The rate limiter treats this as the source of truth.
	CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	// FindByTextHash returns the most recent session with the given text hash
	// created at or after since, or ErrNotFound.
	FindByTextHash(ctx context.Context, userID uuid.UUID, textHash string, since time.Time) (*models.GenerationSession, error)
	SaveTextHash(ctx context.Context, userID, id uuid.UUID, textHash string) error
	UpdateMetrics(ctx context.Context, userID, id uuid.UUID, duration int64, generated int) error
	// IncrementCounter atomically adds delta to one counter column.
	IncrementCounter(ctx context.Context, userID, id uuid.UUID, field models.CounterField, delta int) error
}

// ErrorLogRepository persists generation failure diagnostics.
type ErrorLogRepository interface {
	Create(ctx context.Context, entry *models.GenerationErrorLog) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
