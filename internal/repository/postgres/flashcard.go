package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// Columns flashcard listings may sort by. Anything else falls back to
// created_at.
var flashcardSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"front":      true,
	"status":     true,
}

// FlashcardRepository implements repository.FlashcardRepository using PostgreSQL
type FlashcardRepository struct {
	db *sqlx.DB
}

// NewFlashcardRepository creates a new PostgreSQL flashcard repository
func NewFlashcardRepository(db *sqlx.DB) repository.FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// Create inserts a single flashcard.
func (r *FlashcardRepository) Create(ctx context.Context, card *models.Flashcard) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now

	query := `
		INSERT INTO flashcards (id, user_id, front, back, source, status, generation_id, created_at, updated_at)
		VALUES (:id, :user_id, :front, :back, :source, :status, :generation_id, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, card)
	return err
}

// CreateBatch inserts all cards in one statement. Either every card is
// persisted or none are.
func (r *FlashcardRepository) CreateBatch(ctx context.Context, cards []*models.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}

	now := time.Now()
	for _, card := range cards {
		if card.ID == uuid.Nil {
			card.ID = uuid.New()
		}
		card.CreatedAt = now
		card.UpdatedAt = now
	}

	query := `
		INSERT INTO flashcards (id, user_id, front, back, source, status, generation_id, created_at, updated_at)
		VALUES (:id, :user_id, :front, :back, :source, :status, :generation_id, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, cards)
	return err
}

// Get retrieves a flashcard by ID, scoped to its owner.
func (r *FlashcardRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.Flashcard, error) {
	var card models.Flashcard
	query := `
		SELECT id, user_id, front, back, source, status, generation_id, created_at, updated_at
		FROM flashcards
		WHERE id = $1 AND user_id = $2
	`

	err := r.db.GetContext(ctx, &card, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &card, nil
}

// List retrieves a page of the user's flashcards plus the total row count for
// the filter.
func (r *FlashcardRepository) List(ctx context.Context, userID uuid.UUID, filter repository.FlashcardFilter) ([]*models.Flashcard, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	sortBy := filter.SortBy
	if !flashcardSortColumns[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if filter.Order == "asc" {
		order = "ASC"
	}

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	if filter.Status != "" {
		where += " AND status = $2"
		args = append(args, filter.Status)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM flashcards " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	listQuery := fmt.Sprintf(`
		SELECT id, user_id, front, back, source, status, generation_id, created_at, updated_at
		FROM flashcards %s
		ORDER BY %s %s
		LIMIT %d OFFSET %d
	`, where, sortBy, order, filter.Limit, offset)

	var cards []*models.Flashcard
	if err := r.db.SelectContext(ctx, &cards, listQuery, args...); err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// ListByGeneration retrieves all cards of one generation session in creation
// order.
func (r *FlashcardRepository) ListByGeneration(ctx context.Context, userID, generationID uuid.UUID) ([]*models.Flashcard, error) {
	var cards []*models.Flashcard
	query := `
		SELECT id, user_id, front, back, source, status, generation_id, created_at, updated_at
		FROM flashcards
		WHERE user_id = $1 AND generation_id = $2
		ORDER BY created_at ASC
	`

	err := r.db.SelectContext(ctx, &cards, query, userID, generationID)
	if err != nil {
		return nil, err
	}

	return cards, nil
}

// Update writes a card's front, back and status.
func (r *FlashcardRepository) Update(ctx context.Context, card *models.Flashcard) error {
	card.UpdatedAt = time.Now()

	query := `
		UPDATE flashcards
		SET front = :front, back = :back, status = :status, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`

	result, err := r.db.NamedExecContext(ctx, query, card)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a flashcard row.
func (r *FlashcardRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := "DELETE FROM flashcards WHERE id = $1 AND user_id = $2"

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
