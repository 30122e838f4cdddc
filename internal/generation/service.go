package generation

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flashforge/flashforge-backend/internal/config"
	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/providers"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// ErrorRecorder persists failure diagnostics. Implemented by the errorlog
// service; writes must never mask the original failure.
type ErrorRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, inputTextLength int, genErr error)
}

// Result carries the generated cards and the owning session's metrics.
type Result struct {
	Flashcards     []*models.Flashcard   `json:"flashcards"`
	SessionMetrics models.SessionMetrics `json:"sessionMetrics"`
}

// Service orchestrates one generation request: cache check, rate check,
// session creation, provider call, parsing, persistence and metrics. Steps
// run strictly in that order; session creation precedes the provider call so
// a failed call still leaves an audit record.
type Service struct {
	cfg        config.GenerationConfig
	provider   providers.Provider
	parser     *Parser
	cache      *GenerationCache
	limiter    *RateLimiter
	sessions   repository.SessionRepository
	flashcards repository.FlashcardRepository
	errLog     ErrorRecorder
	log        *logrus.Entry

	now func() time.Time
}

// NewService wires the generation pipeline together.
func NewService(
	cfg config.GenerationConfig,
	provider providers.Provider,
	cache *GenerationCache,
	limiter *RateLimiter,
	sessions repository.SessionRepository,
	flashcards repository.FlashcardRepository,
	errLog ErrorRecorder,
) *Service {
	return &Service{
		cfg:        cfg,
		provider:   provider,
		parser:     NewParser(cfg.MaxFlashcards),
		cache:      cache,
		limiter:    limiter,
		sessions:   sessions,
		flashcards: flashcards,
		errLog:     errLog,
		log:        logrus.WithField("component", "generation"),
		now:        time.Now,
	}
}

// Generate runs the full pipeline for one input text. Failures after input
// validation are written to the error log before being returned; cache-save
// and metrics-update failures are non-fatal by design.
func (s *Service) Generate(ctx context.Context, text string, userID uuid.UUID) (*Result, error) {
	// Input validation happens before any side effect: no session row, no
	// error log entry for bad input.
	textLen := utf8.RuneCountInString(text)
	if err := s.validateInput(textLen); err != nil {
		return nil, err
	}

	startTime := s.now()

	result, err := s.generate(ctx, text, textLen, userID, startTime)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id":    userID,
			"error_kind": KindOf(err),
			"error":      err,
		}).Error("Generation failed")
		s.errLog.Record(ctx, userID, textLen, err)
		return nil, err
	}

	return result, nil
}

func (s *Service) generate(ctx context.Context, text string, textLen int, userID uuid.UUID, startTime time.Time) (*Result, error) {
	// 1. Cache check. A hit short-circuits the whole pipeline with
	// zero-duration metrics.
	cached, err := s.cache.Lookup(ctx, text, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID, "error": err}).
			Warn("Cache lookup failed, treating as miss")
	}
	if cached != nil {
		s.log.WithFields(logrus.Fields{
			"user_id":       userID,
			"generation_id": cached.GenerationID,
		}).Info("Serving cached generation")
		return &Result{
			Flashcards: cached.Flashcards,
			SessionMetrics: models.SessionMetrics{
				GenerationDuration: 0,
				Generated:          len(cached.Flashcards),
			},
		}, nil
	}

	// 2. Rate check.
	allowed, err := s.limiter.CanProceed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		remaining, remErr := s.limiter.Remaining(ctx, userID)
		if remErr != nil {
			remaining = 0
		}
		return nil, NewError(KindRateLimit,
			fmt.Sprintf("rate limit exceeded, remaining requests: %d", remaining), nil).
			WithDetail("remaining", remaining)
	}

	// 3. Session creation. Fatal on failure, no retry.
	session := &models.GenerationSession{
		UserID:          userID,
		InputTextLength: textLen,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, NewError(KindSessionCreateFailed, "failed to create generation session", err)
	}
	s.limiter.Invalidate(userID)

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": session.ID,
	}).Info("Starting AI generation")

	// 4. Provider call and parse. The session row stays in place on failure
	// as an audit trail.
	rawContent, err := s.provider.Complete(ctx, SystemPrompt, text)
	if err != nil {
		return nil, err
	}

	candidates, err := s.parser.Parse(rawContent)
	if err != nil {
		return nil, err
	}

	// 5. Cache save, best-effort.
	s.cache.Save(ctx, text, userID, session.ID)

	// 6. Persist all cards in one batch.
	cards := make([]*models.Flashcard, len(candidates))
	generationID := session.ID
	for i, candidate := range candidates {
		cards[i] = &models.Flashcard{
			UserID:       userID,
			Front:        models.TruncateRunes(candidate.Front, models.FrontMaxLen),
			Back:         models.TruncateRunes(candidate.Back, models.BackMaxLen),
			Source:       models.SourceAI,
			Status:       models.StatusPending,
			GenerationID: &generationID,
		}
	}
	if err := s.flashcards.CreateBatch(ctx, cards); err != nil {
		return nil, NewError(KindPersistFailed, "failed to insert flashcards", err)
	}

	// 7. Metrics update, non-fatal: the persisted cards are the source of
	// truth, the session counters catch up eventually.
	duration := s.now().Sub(startTime).Milliseconds()
	if err := s.sessions.UpdateMetrics(ctx, userID, session.ID, duration, len(cards)); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": session.ID,
			"error":      err,
		}).Warn("Failed to update session metrics")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":     userID,
		"session_id":  session.ID,
		"generated":   len(cards),
		"duration_ms": duration,
	}).Info("Generation completed")

	return &Result{
		Flashcards: cards,
		SessionMetrics: models.SessionMetrics{
			GenerationDuration: duration,
			Generated:          len(cards),
		},
	}, nil
}

func (s *Service) validateInput(n int) error {
	if n < s.cfg.MinInputChars || n > s.cfg.MaxInputChars {
		return NewError(KindValidation,
			fmt.Sprintf("input text must be between %d and %d characters, got %d",
				s.cfg.MinInputChars, s.cfg.MaxInputChars, n), nil).
			WithDetail("length", n)
	}
	return nil
}

// Remaining exposes the user's remaining request quota for response headers.
func (s *Service) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.limiter.Remaining(ctx, userID)
}
