package errorlog

import (
	"context"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flashforge/flashforge-backend/internal/generation"
	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// Service writes generation failure diagnostics. Every write is best-effort:
// a failed log insert is itself logged and otherwise ignored, so it can
// never mask the error being recorded.
type Service struct {
	repo repository.ErrorLogRepository
	log  *logrus.Entry
}

// NewService creates a new error log service
func NewService(repo repository.ErrorLogRepository) *Service {
	return &Service{
		repo: repo,
		log:  logrus.WithField("component", "errorlog"),
	}
}

// Record persists a structured error record for a failed generation attempt.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, inputTextLength int, genErr error) {
	errorType := "UNKNOWN_ERROR"
	if kind := generation.KindOf(genErr); kind != "" {
		errorType = string(kind)
	}

	stack := string(debug.Stack())
	entry := &models.GenerationErrorLog{
		UserID:          userID,
		ErrorType:       errorType,
		ErrorMessage:    genErr.Error(),
		ErrorStack:      &stack,
		InputTextLength: inputTextLength,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id":    userID,
			"error_type": errorType,
			"error":      err,
		}).Error("Failed to write generation error log")
	}
}
