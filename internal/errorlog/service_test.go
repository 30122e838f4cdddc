package errorlog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashforge/flashforge-backend/internal/generation"
	"github.com/flashforge/flashforge-backend/internal/repository/repositorytest"
)

func TestRecord_TypedError(t *testing.T) {
	repo := repositorytest.NewFakeErrorLogRepo()
	svc := NewService(repo)
	userID := uuid.New()

	genErr := generation.NewError(generation.KindAPICallFailed, "upstream timed out", nil)
	svc.Record(context.Background(), userID, 1500, genErr)

	require.Len(t, repo.Entries, 1)
	entry := repo.Entries[0]
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, "API_CALL_FAILED", entry.ErrorType)
	assert.Contains(t, entry.ErrorMessage, "upstream timed out")
	assert.Equal(t, 1500, entry.InputTextLength)
	require.NotNil(t, entry.ErrorStack)
	assert.NotEmpty(t, *entry.ErrorStack)
}

func TestRecord_UntypedError(t *testing.T) {
	repo := repositorytest.NewFakeErrorLogRepo()
	svc := NewService(repo)

	svc.Record(context.Background(), uuid.New(), 1000, assert.AnError)

	require.Len(t, repo.Entries, 1)
	assert.Equal(t, "UNKNOWN_ERROR", repo.Entries[0].ErrorType)
}

func TestRecord_RepoFailureIsSwallowed(t *testing.T) {
	repo := repositorytest.NewFakeErrorLogRepo()
	repo.CreateErr = assert.AnError
	svc := NewService(repo)

	// Must not panic and must not surface the insert failure.
	svc.Record(context.Background(), uuid.New(), 1000, assert.AnError)
	assert.Empty(t, repo.Entries)
}
