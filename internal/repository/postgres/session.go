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

// SessionRepository implements repository.SessionRepository using PostgreSQL
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new generation session with all counters at zero.
func (r *SessionRepository) Create(ctx context.Context, session *models.GenerationSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()

	query := `
		INSERT INTO generation_sessions
			(id, user_id, input_text_length, text_hash, generation_duration,
			 generated, accepted_original, accepted_edited, rejected, created_at)
		VALUES
			(:id, :user_id, :input_text_length, :text_hash, :generation_duration,
			 :generated, :accepted_original, :accepted_edited, :rejected, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, session)
	return err
}

// Get retrieves a session by ID, scoped to its owner.
func (r *SessionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.GenerationSession, error) {
	var session models.GenerationSession
	query := `
		SELECT id, user_id, input_text_length, text_hash, generation_duration,
		       generated, accepted_original, accepted_edited, rejected, created_at
		FROM generation_sessions
		WHERE id = $1 AND user_id = $2
	`

	err := r.db.GetContext(ctx, &session, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &session, nil
}

// List retrieves all sessions for a user, newest first.
func (r *SessionRepository) List(ctx context.Context, userID uuid.UUID) ([]*models.GenerationSession, error) {
	var sessions []*models.GenerationSession
	query := `
		SELECT id, user_id, input_text_length, text_hash, generation_duration,
		       generated, accepted_original, accepted_edited, rejected, created_at
		FROM generation_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &sessions, query, userID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// CountCreatedSince counts sessions the user created within the trailing
// rate-limit window.
func (r *SessionRepository) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM generation_sessions
		WHERE user_id = $1 AND created_at >= $2
	`

	err := r.db.GetContext(ctx, &count, query, userID, since)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// FindByTextHash returns the most recent session with a matching text hash
// created at or after since.
func (r *SessionRepository) FindByTextHash(ctx context.Context, userID uuid.UUID, textHash string, since time.Time) (*models.GenerationSession, error) {
	var session models.GenerationSession
	query := `
		SELECT id, user_id, input_text_length, text_hash, generation_duration,
		       generated, accepted_original, accepted_edited, rejected, created_at
		FROM generation_sessions
		WHERE user_id = $1 AND text_hash = $2 AND created_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &session, query, userID, textHash, since)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &session, nil
}

// SaveTextHash writes the content fingerprint onto an existing session row.
func (r *SessionRepository) SaveTextHash(ctx context.Context, userID, id uuid.UUID, textHash string) error {
	query := `
		UPDATE generation_sessions SET text_hash = $1
		WHERE id = $2 AND user_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, textHash, id, userID)
	return err
}

// UpdateMetrics sets the final duration and generated count for a session.
func (r *SessionRepository) UpdateMetrics(ctx context.Context, userID, id uuid.UUID, duration int64, generated int) error {
	query := `
		UPDATE generation_sessions
		SET generation_duration = $1, generated = $2
		WHERE id = $3 AND user_id = $4
	`

	_, err := r.db.ExecContext(ctx, query, duration, generated, id, userID)
	return err
}

// IncrementCounter atomically adds delta to one of the session counters. The
// column is selected through the CounterField switch, never from a
// caller-supplied string.
func (r *SessionRepository) IncrementCounter(ctx context.Context, userID, id uuid.UUID, field models.CounterField, delta int) error {
	column := field.Column()
	if column == "" {
		return fmt.Errorf("unknown counter field %d", field)
	}
	if delta < 0 {
		return fmt.Errorf("counter delta must be non-negative, got %d", delta)
	}

	query := fmt.Sprintf(`
		UPDATE generation_sessions
		SET %s = %s + $1
		WHERE id = $2 AND user_id = $3
	`, column, column)

	result, err := r.db.ExecContext(ctx, query, delta, id, userID)
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
