package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository/repositorytest"
	"github.com/flashforge/flashforge-backend/internal/review"
)

func newStatusTestApp(t *testing.T) (*fiber.App, uuid.UUID, *models.Flashcard) {
	t.Helper()

	cards := repositorytest.NewFakeFlashcardRepo()
	sessions := repositorytest.NewFakeSessionRepo()
	reviewService := review.NewService(cards, sessions)

	userID := uuid.New()
	card := &models.Flashcard{
		UserID: userID,
		Front:  "front",
		Back:   "back",
		Source: models.SourceAI,
		Status: models.StatusPending,
	}
	require.NoError(t, cards.Create(context.Background(), card))

	app := fiber.New()
	app.Patch("/flashcards/:id/status",
		func(c *fiber.Ctx) error {
			c.Locals("user_id", userID)
			return c.Next()
		},
		UpdateFlashcardStatus(reviewService))

	return app, userID, card
}

func patchStatus(t *testing.T, app *fiber.App, cardID uuid.UUID, body string) int {
	t.Helper()
	req := httptest.NewRequest("PATCH", "/flashcards/"+cardID.String()+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestUpdateFlashcardStatus_Accept(t *testing.T) {
	app, _, card := newStatusTestApp(t)

	code := patchStatus(t, app, card.ID, `{"action":"accept"}`)
	assert.Equal(t, fiber.StatusOK, code)
}

func TestUpdateFlashcardStatus_AcceptWithPartialEditIsBadRequest(t *testing.T) {
	app, _, card := newStatusTestApp(t)

	// Only the front supplied: the edited-content validation must surface as
	// a client error.
	code := patchStatus(t, app, card.ID, `{"action":"accept","front":"edited front"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestUpdateFlashcardStatus_UnknownCardIsNotFound(t *testing.T) {
	app, _, _ := newStatusTestApp(t)

	code := patchStatus(t, app, uuid.New(), `{"action":"accept"}`)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestUpdateFlashcardStatus_UnknownAction(t *testing.T) {
	app, _, card := newStatusTestApp(t)

	code := patchStatus(t, app, card.ID, `{"action":"archive"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}
