package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationSession tracks one batch LLM invocation and its lifecycle
// counters. Counters only ever increase for the lifetime of the session.
type GenerationSession struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	InputTextLength    int       `db:"input_text_length" json:"input_text_length"`
	TextHash           *string   `db:"text_hash" json:"text_hash,omitempty"`
	GenerationDuration int64     `db:"generation_duration" json:"generation_duration"`
	Generated          int       `db:"generated" json:"generated"`
	AcceptedOriginal   int       `db:"accepted_original" json:"accepted_original"`
	AcceptedEdited     int       `db:"accepted_edited" json:"accepted_edited"`
	Rejected           int       `db:"rejected" json:"rejected"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SessionMetrics is the counter snapshot returned alongside generated cards.
type SessionMetrics struct {
	GenerationDuration int64 `json:"generation_duration"`
	Generated          int   `json:"generated"`
	AcceptedOriginal   int   `json:"accepted_original"`
	AcceptedEdited     int   `json:"accepted_edited"`
	Rejected           int   `json:"rejected"`
}

// CounterField identifies one of the session counters. Counters are always
// addressed through this enumeration and a fixed switch, never by indexing a
// row with a caller-supplied column name.
type CounterField int

const (
	CounterGenerated CounterField = iota
	CounterAcceptedOriginal
	CounterAcceptedEdited
	CounterRejected
)

// Column returns the session table column for the counter, or "" for an
// unknown field.
func (f CounterField) Column() string {
	switch f {
	case CounterGenerated:
		return "generated"
	case CounterAcceptedOriginal:
		return "accepted_original"
	case CounterAcceptedEdited:
		return "accepted_edited"
	case CounterRejected:
		return "rejected"
	}
	return ""
}

func (f CounterField) String() string {
	return f.Column()
}
