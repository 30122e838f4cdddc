package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// ErrorLogRepository implements repository.ErrorLogRepository using PostgreSQL
type ErrorLogRepository struct {
	db *sqlx.DB
}

// NewErrorLogRepository creates a new PostgreSQL error log repository
func NewErrorLogRepository(db *sqlx.DB) repository.ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

// Create inserts a generation error record.
func (r *ErrorLogRepository) Create(ctx context.Context, entry *models.GenerationErrorLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO generation_error_log (id, user_id, error_type, error_message, error_stack, input_text_length, created_at)
		VALUES (:id, :user_id, :error_type, :error_message, :error_stack, :input_text_length, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}
