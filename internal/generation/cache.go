package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// CachedGeneration is a prior session's output served for identical input.
type CachedGeneration struct {
	GenerationID uuid.UUID
	Flashcards   []*models.Flashcard
}

// GenerationCache maps identical input text back to a previous session's
// cards so repeat requests skip the provider entirely. It is a pure
// optimization: every failure path degrades to a miss.
type GenerationCache struct {
	sessions   repository.SessionRepository
	flashcards repository.FlashcardRepository
	ttl        time.Duration
	log        *logrus.Entry

	now func() time.Time
}

// NewGenerationCache creates a cache with the given time-to-live.
func NewGenerationCache(sessions repository.SessionRepository, flashcards repository.FlashcardRepository, ttl time.Duration) *GenerationCache {
	return &GenerationCache{
		sessions:   sessions,
		flashcards: flashcards,
		ttl:        ttl,
		log:        logrus.WithField("component", "generation_cache"),
		now:        time.Now,
	}
}

// HashText returns the SHA-256 hex digest of the exact input text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Lookup searches for a session owned by userID whose text hash matches text
// and that was created within the TTL, then loads its cards in creation
// order. A session without any cards is a miss, never a cached "generated
// nothing".
func (c *GenerationCache) Lookup(ctx context.Context, text string, userID uuid.UUID) (*CachedGeneration, error) {
	textHash := HashText(text)
	cutoff := c.now().Add(-c.ttl)

	session, err := c.sessions.FindByTextHash(ctx, userID, textHash, cutoff)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	cards, err := c.flashcards.ListByGeneration(ctx, userID, session.ID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}

	return &CachedGeneration{
		GenerationID: session.ID,
		Flashcards:   cards,
	}, nil
}

// Save writes the text hash onto the session row so later identical requests
// hit the cache. Failures are logged and swallowed; a lost hash only costs a
// future provider call.
func (c *GenerationCache) Save(ctx context.Context, text string, userID, sessionID uuid.UUID) {
	textHash := HashText(text)

	if err := c.sessions.SaveTextHash(ctx, userID, sessionID, textHash); err != nil {
		c.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err,
		}).Warn("Failed to save text hash")
	}
}
