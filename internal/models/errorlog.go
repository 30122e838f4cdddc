package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationErrorLog is a best-effort diagnostic record written when a
// generation attempt fails. Writes to it never mask the original error.
type GenerationErrorLog struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	ErrorType       string    `db:"error_type" json:"error_type"`
	ErrorMessage    string    `db:"error_message" json:"error_message"`
	ErrorStack      *string   `db:"error_stack" json:"error_stack,omitempty"`
	InputTextLength int       `db:"input_text_length" json:"input_text_length"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
