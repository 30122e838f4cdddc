// Package repositorytest provides in-memory repository fakes for tests.
package repositorytest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/flashforge/flashforge-backend/internal/models"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// FakeFlashcardRepo is an in-memory FlashcardRepository. Zero value is not
// usable; create it with NewFakeFlashcardRepo.
type FakeFlashcardRepo struct {
	Cards map[uuid.UUID]*models.Flashcard
	order []uuid.UUID

	CreateErr      error
	CreateBatchErr error
	GetErr         error
	UpdateErr      error
	DeleteErr      error
	ListErr        error
}

func NewFakeFlashcardRepo() *FakeFlashcardRepo {
	return &FakeFlashcardRepo{Cards: make(map[uuid.UUID]*models.Flashcard)}
}

func (f *FakeFlashcardRepo) Create(_ context.Context, card *models.Flashcard) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.insert(card)
	return nil
}

func (f *FakeFlashcardRepo) CreateBatch(_ context.Context, cards []*models.Flashcard) error {
	if f.CreateBatchErr != nil {
		return f.CreateBatchErr
	}
	for _, card := range cards {
		f.insert(card)
	}
	return nil
}

func (f *FakeFlashcardRepo) insert(card *models.Flashcard) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	f.Cards[card.ID] = card
	f.order = append(f.order, card.ID)
}

func (f *FakeFlashcardRepo) Get(_ context.Context, userID, id uuid.UUID) (*models.Flashcard, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	card, ok := f.Cards[id]
	if !ok || card.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *card
	return &copied, nil
}

func (f *FakeFlashcardRepo) List(_ context.Context, userID uuid.UUID, filter repository.FlashcardFilter) ([]*models.Flashcard, int, error) {
	if f.ListErr != nil {
		return nil, 0, f.ListErr
	}
	var matched []*models.Flashcard
	for _, id := range f.order {
		card, ok := f.Cards[id]
		if !ok || card.UserID != userID {
			continue
		}
		if filter.Status != "" && card.Status != filter.Status {
			continue
		}
		matched = append(matched, card)
	}
	total := len(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *FakeFlashcardRepo) ListByGeneration(_ context.Context, userID, generationID uuid.UUID) ([]*models.Flashcard, error) {
	var cards []*models.Flashcard
	for _, id := range f.order {
		card, ok := f.Cards[id]
		if !ok || card.UserID != userID {
			continue
		}
		if card.GenerationID == nil || *card.GenerationID != generationID {
			continue
		}
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

func (f *FakeFlashcardRepo) Update(_ context.Context, card *models.Flashcard) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	existing, ok := f.Cards[card.ID]
	if !ok || existing.UserID != card.UserID {
		return repository.ErrNotFound
	}
	card.UpdatedAt = time.Now()
	copied := *card
	f.Cards[card.ID] = &copied
	return nil
}

func (f *FakeFlashcardRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	card, ok := f.Cards[id]
	if !ok || card.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.Cards, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// FakeSessionRepo is an in-memory SessionRepository.
type FakeSessionRepo struct {
	Sessions map[uuid.UUID]*models.GenerationSession

	CreateErr        error
	GetErr           error
	CountErr         error
	FindErr          error
	SaveHashErr      error
	UpdateMetricsErr error
	IncrementErr     error
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{Sessions: make(map[uuid.UUID]*models.GenerationSession)}
}

func (f *FakeSessionRepo) Create(_ context.Context, session *models.GenerationSession) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	copied := *session
	f.Sessions[session.ID] = &copied
	return nil
}

func (f *FakeSessionRepo) Get(_ context.Context, userID, id uuid.UUID) (*models.GenerationSession, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	session, ok := f.Sessions[id]
	if !ok || session.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *FakeSessionRepo) List(_ context.Context, userID uuid.UUID) ([]*models.GenerationSession, error) {
	var sessions []*models.GenerationSession
	for _, session := range f.Sessions {
		if session.UserID == userID {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (f *FakeSessionRepo) CountCreatedSince(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	if f.CountErr != nil {
		return 0, f.CountErr
	}
	count := 0
	for _, session := range f.Sessions {
		if session.UserID == userID && !session.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *FakeSessionRepo) FindByTextHash(_ context.Context, userID uuid.UUID, textHash string, since time.Time) (*models.GenerationSession, error) {
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	var best *models.GenerationSession
	for _, session := range f.Sessions {
		if session.UserID != userID || session.TextHash == nil || *session.TextHash != textHash {
			continue
		}
		if session.CreatedAt.Before(since) {
			continue
		}
		if best == nil || session.CreatedAt.After(best.CreatedAt) {
			best = session
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	copied := *best
	return &copied, nil
}

func (f *FakeSessionRepo) SaveTextHash(_ context.Context, userID, id uuid.UUID, textHash string) error {
	if f.SaveHashErr != nil {
		return f.SaveHashErr
	}
	session, ok := f.Sessions[id]
	if !ok || session.UserID != userID {
		return repository.ErrNotFound
	}
	session.TextHash = &textHash
	return nil
}

func (f *FakeSessionRepo) UpdateMetrics(_ context.Context, userID, id uuid.UUID, duration int64, generated int) error {
	if f.UpdateMetricsErr != nil {
		return f.UpdateMetricsErr
	}
	session, ok := f.Sessions[id]
	if !ok || session.UserID != userID {
		return repository.ErrNotFound
	}
	session.GenerationDuration = duration
	session.Generated = generated
	return nil
}

func (f *FakeSessionRepo) IncrementCounter(_ context.Context, userID, id uuid.UUID, field models.CounterField, delta int) error {
	if f.IncrementErr != nil {
		return f.IncrementErr
	}
	session, ok := f.Sessions[id]
	if !ok || session.UserID != userID {
		return repository.ErrNotFound
	}
	switch field {
	case models.CounterGenerated:
		session.Generated += delta
	case models.CounterAcceptedOriginal:
		session.AcceptedOriginal += delta
	case models.CounterAcceptedEdited:
		session.AcceptedEdited += delta
	case models.CounterRejected:
		session.Rejected += delta
	default:
		return fmt.Errorf("unknown counter field %d", field)
	}
	return nil
}

// FakeErrorLogRepo records error log inserts.
type FakeErrorLogRepo struct {
	Entries   []*models.GenerationErrorLog
	CreateErr error
}

func NewFakeErrorLogRepo() *FakeErrorLogRepo {
	return &FakeErrorLogRepo{}
}

func (f *FakeErrorLogRepo) Create(_ context.Context, entry *models.GenerationErrorLog) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.Entries = append(f.Entries, entry)
	return nil
}

// FakeUserRepo is an in-memory UserRepository.
type FakeUserRepo struct {
	Users map[uuid.UUID]*models.User
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{Users: make(map[uuid.UUID]*models.User)}
}

func (f *FakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	f.Users[user.ID] = &copied
	return nil
}

func (f *FakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.Users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *FakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.Users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}
