package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidContent marks a front/back validation failure so API handlers can
// map it to a client error rather than a server error.
var ErrInvalidContent = errors.New("invalid flashcard content")

// Flashcard sources
const (
	SourceSelf = "self"
	SourceAI   = "ai"
)

// Flashcard statuses. A card starts pending and moves to exactly one of the
// other states through an explicit review action.
const (
	StatusPending          = "pending"
	StatusAcceptedOriginal = "accepted-original"
	StatusAcceptedEdited   = "accepted-edited"
	StatusRejected         = "rejected"
)

// Length caps enforced at creation and update. These are compatibility
// constants and must not change.
const (
	FrontMaxLen = 220
	BackMaxLen  = 500
)

// Flashcard is a single question/answer pair, either self-authored or
// produced by a generation session.
type Flashcard struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Front        string     `db:"front" json:"front"`
	Back         string     `db:"back" json:"back"`
	Source       string     `db:"source" json:"source"`
	Status       string     `db:"status" json:"status"`
	GenerationID *uuid.UUID `db:"generation_id" json:"generation_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ValidateContent checks the front/back length caps. Failures wrap
// ErrInvalidContent.
func ValidateContent(front, back string) error {
	if front == "" {
		return fmt.Errorf("%w: front text is required", ErrInvalidContent)
	}
	if back == "" {
		return fmt.Errorf("%w: back text is required", ErrInvalidContent)
	}
	if n := len([]rune(front)); n > FrontMaxLen {
		return fmt.Errorf("%w: front text must be %d characters or less, got %d", ErrInvalidContent, FrontMaxLen, n)
	}
	if n := len([]rune(back)); n > BackMaxLen {
		return fmt.Errorf("%w: back text must be %d characters or less, got %d", ErrInvalidContent, BackMaxLen, n)
	}
	return nil
}

// ValidStatus reports whether s is one of the known flashcard statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAcceptedOriginal, StatusAcceptedEdited, StatusRejected:
		return true
	}
	return false
}

// TruncateRunes cuts s to at most max runes. Provider output can exceed the
// field caps; persistence truncates rather than rejecting the whole batch.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
