package review

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
	"github.com/flashforge/flashforge-backend/internal/repository/repositorytest"
)

type fixture struct {
	svc        *Service
	flashcards *repositorytest.FakeFlashcardRepo
	sessions   *repositorytest.FakeSessionRepo
}

func newFixture() *fixture {
	flashcards := repositorytest.NewFakeFlashcardRepo()
	sessions := repositorytest.NewFakeSessionRepo()
	return &fixture{
		svc:        NewService(flashcards, sessions),
		flashcards: flashcards,
		sessions:   sessions,
	}
}

func (f *fixture) seedSession(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	session := &models.GenerationSession{UserID: userID}
	require.NoError(t, f.sessions.Create(context.Background(), session))
	return session.ID
}

func (f *fixture) seedCard(t *testing.T, userID uuid.UUID, generationID *uuid.UUID) *models.Flashcard {
	t.Helper()
	card := &models.Flashcard{
		UserID:       userID,
		Front:        "What is a goroutine?",
		Back:         "A lightweight thread managed by the Go runtime.",
		Source:       models.SourceAI,
		Status:       models.StatusPending,
		GenerationID: generationID,
	}
	require.NoError(t, f.flashcards.Create(context.Background(), card))
	return card
}

func TestAcceptOriginal(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)

	updated, err := f.svc.AcceptOriginal(context.Background(), userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedOriginal, updated.Status)
	assert.Equal(t, card.Front, updated.Front)

	session := f.sessions.Sessions[sessionID]
	assert.Equal(t, 1, session.AcceptedOriginal)
	assert.Equal(t, 0, session.AcceptedEdited)
	assert.Equal(t, 0, session.Rejected)
}

func TestAcceptOriginal_RepeatedAcceptIncrementsOnce(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)

	for i := 0; i < 3; i++ {
		updated, err := f.svc.AcceptOriginal(context.Background(), userID, card.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAcceptedOriginal, updated.Status)
	}

	assert.Equal(t, 1, f.sessions.Sessions[sessionID].AcceptedOriginal)
}

func TestAcceptEdited_RepeatedEditIncrementsOnce(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)

	_, err := f.svc.AcceptEdited(context.Background(), userID, card.ID, "first edit", "first back")
	require.NoError(t, err)

	// A second edit of an already accepted-edited card updates the text but
	// must not move the counter again.
	updated, err := f.svc.AcceptEdited(context.Background(), userID, card.ID, "second edit", "second back")
	require.NoError(t, err)
	assert.Equal(t, "second edit", updated.Front)
	assert.Equal(t, models.StatusAcceptedEdited, updated.Status)

	assert.Equal(t, 1, f.sessions.Sessions[sessionID].AcceptedEdited)
}

func TestAcceptOriginal_UnknownCard(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AcceptOriginal(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAcceptOriginal_OtherUsersCard(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	sessionID := f.seedSession(t, owner)
	card := f.seedCard(t, owner, &sessionID)

	_, err := f.svc.AcceptOriginal(context.Background(), uuid.New(), card.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAcceptEdited(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)

	updated, err := f.svc.AcceptEdited(context.Background(), userID, card.ID, "Edited front", "Edited back")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedEdited, updated.Status)
	assert.Equal(t, "Edited front", updated.Front)
	assert.Equal(t, "Edited back", updated.Back)

	session := f.sessions.Sessions[sessionID]
	assert.Equal(t, 1, session.AcceptedEdited)
	assert.Equal(t, 0, session.AcceptedOriginal)
}

func TestAcceptEdited_UnchangedTextIsNoOp(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)

	updated, err := f.svc.AcceptEdited(context.Background(), userID, card.ID, card.Front, card.Back)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status, "identical text must not change status")

	session := f.sessions.Sessions[sessionID]
	assert.Equal(t, 0, session.AcceptedEdited)
}

func TestAcceptEdited_RejectsOversizedContent(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)

	_, err := f.svc.AcceptEdited(context.Background(), userID, card.ID,
		strings.Repeat("f", models.FrontMaxLen+1), "valid back")
	require.Error(t, err)

	stored, getErr := f.flashcards.Get(context.Background(), userID, card.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestReject(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)

	require.NoError(t, f.svc.Reject(context.Background(), userID, card.ID))

	_, err := f.flashcards.Get(context.Background(), userID, card.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "rejected card must be deleted")

	session := f.sessions.Sessions[sessionID]
	assert.Equal(t, 1, session.Rejected)
}

func TestReview_ManualCardSkipsCounters(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	card := f.seedCard(t, userID, nil)

	updated, err := f.svc.AcceptOriginal(context.Background(), userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedOriginal, updated.Status)
	assert.Empty(t, f.sessions.Sessions)
}

func TestReview_CounterFailureDoesNotBlock(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)
	f.sessions.IncrementErr = assert.AnError

	updated, err := f.svc.AcceptOriginal(context.Background(), userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedOriginal, updated.Status)
}

func TestBulkAccept_GroupsCountersBySession(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionA := f.seedSession(t, userID)
	sessionB := f.seedSession(t, userID)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		ids = append(ids, f.seedCard(t, userID, &sessionA).ID)
	}
	ids = append(ids, f.seedCard(t, userID, &sessionB).ID)

	result, err := f.svc.BulkAccept(context.Background(), userID, ids)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Processed)
	assert.Empty(t, result.Failed)

	assert.Equal(t, 3, f.sessions.Sessions[sessionA].AcceptedOriginal)
	assert.Equal(t, 1, f.sessions.Sessions[sessionB].AcceptedOriginal)

	for _, id := range ids {
		card, getErr := f.flashcards.Get(context.Background(), userID, id)
		require.NoError(t, getErr)
		assert.Equal(t, models.StatusAcceptedOriginal, card.Status)
	}
}

func TestBulkAccept_RepeatedAcceptIncrementsOnce(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)
	ids := []uuid.UUID{card.ID}

	for i := 0; i < 2; i++ {
		result, err := f.svc.BulkAccept(context.Background(), userID, ids)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Processed)
		assert.Empty(t, result.Failed)
	}

	assert.Equal(t, 1, f.sessions.Sessions[sessionID].AcceptedOriginal)
}

func TestBulkAccept_ReportsMissingCards(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)
	card := f.seedCard(t, userID, &sessionID)
	missing := uuid.New()

	result, err := f.svc.BulkAccept(context.Background(), userID, []uuid.UUID{card.ID, missing})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, []uuid.UUID{missing}, result.Failed)
}

func TestBulkReject(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	sessionID := f.seedSession(t, userID)

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		ids = append(ids, f.seedCard(t, userID, &sessionID).ID)
	}

	result, err := f.svc.BulkReject(context.Background(), userID, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	assert.Equal(t, 2, f.sessions.Sessions[sessionID].Rejected)
	for _, id := range ids {
		_, getErr := f.flashcards.Get(context.Background(), userID, id)
		assert.ErrorIs(t, getErr, repository.ErrNotFound)
	}
}
