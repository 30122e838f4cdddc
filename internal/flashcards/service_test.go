package flashcards

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
	"github.com/flashforge/flashforge-backend/internal/repository/repositorytest"
)

type fixture struct {
	svc      *Service
	cards    *repositorytest.FakeFlashcardRepo
	sessions *repositorytest.FakeSessionRepo
}

func newFixture() *fixture {
	cards := repositorytest.NewFakeFlashcardRepo()
	sessions := repositorytest.NewFakeSessionRepo()
	return &fixture{
		svc:      NewService(cards, sessions),
		cards:    cards,
		sessions: sessions,
	}
}

func (f *fixture) seedSession(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	session := &models.GenerationSession{UserID: userID}
	require.NoError(t, f.sessions.Create(context.Background(), session))
	return session.ID
}

func TestCreate_ManualCardDefaults(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	card, err := f.svc.Create(context.Background(), userID, "front", "back", nil)
	require.NoError(t, err)
	assert.Equal(t, models.SourceSelf, card.Source)
	assert.Equal(t, models.StatusAcceptedOriginal, card.Status)
	assert.Nil(t, card.GenerationID)
}

func TestCreate_GeneratedCardDefaults(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	generationID := f.seedSession(t, userID)

	card, err := f.svc.Create(context.Background(), userID, "front", "back", &generationID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, card.Source)
	assert.Equal(t, models.StatusPending, card.Status)
	require.NotNil(t, card.GenerationID)
	assert.Equal(t, generationID, *card.GenerationID)
}

func TestCreate_UnknownGenerationSession(t *testing.T) {
	f := newFixture()
	generationID := uuid.New()

	_, err := f.svc.Create(context.Background(), uuid.New(), "front", "back", &generationID)
	assert.Error(t, err)
}

func TestCreate_OtherUsersGenerationSession(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	generationID := f.seedSession(t, owner)

	_, err := f.svc.Create(context.Background(), uuid.New(), "front", "back", &generationID)
	require.Error(t, err)
	assert.Empty(t, f.cards.Cards)
}

func TestCreate_InvalidContent(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), "", "back", nil)
	assert.ErrorIs(t, err, models.ErrInvalidContent)
}

func TestUpdate_PreservesStatus(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	card, err := f.svc.Create(context.Background(), userID, "front", "back", nil)
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), userID, card.ID, "new front", "new back")
	require.NoError(t, err)
	assert.Equal(t, "new front", updated.Front)
	assert.Equal(t, "new back", updated.Back)
	assert.Equal(t, models.StatusAcceptedOriginal, updated.Status)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), uuid.New(), uuid.New(), "front", "back")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	for i := 0; i < 25; i++ {
		_, err := f.svc.Create(context.Background(), userID, fmt.Sprintf("front %d", i), "back", nil)
		require.NoError(t, err)
	}

	cards, page, err := f.svc.List(context.Background(), userID, repository.FlashcardFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, cards, 10)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 2, page.Page)

	cards, page, err = f.svc.List(context.Background(), userID, repository.FlashcardFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, cards, 5)
	assert.Equal(t, 25, page.Total)
}

func TestList_DefaultsAndClamps(t *testing.T) {
	f := newFixture()

	_, page, err := f.svc.List(context.Background(), uuid.New(), repository.FlashcardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)

	_, page, err = f.svc.List(context.Background(), uuid.New(), repository.FlashcardFilter{Page: 1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
}

func TestList_InvalidStatusFilter(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.List(context.Background(), uuid.New(), repository.FlashcardFilter{Status: "bogus"})
	assert.Error(t, err)
}

func TestList_StatusFilter(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	generationID := f.seedSession(t, userID)

	_, err := f.svc.Create(context.Background(), userID, "manual", "back", nil)
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), userID, "generated", "back", &generationID)
	require.NoError(t, err)

	cards, page, err := f.svc.List(context.Background(), userID, repository.FlashcardFilter{Status: models.StatusPending})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "generated", cards[0].Front)
	assert.Equal(t, 1, page.Total)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	card, err := f.svc.Create(context.Background(), userID, "front", "back", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), userID, card.ID))
	_, err = f.svc.Get(context.Background(), userID, card.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
