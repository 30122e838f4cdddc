package generation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flashforge/flashforge-backend/internal/cache"
	"github.com/flashforge/flashforge-backend/internal/repository"
)

// memoTTL bounds how long a cached window count may be served. It is well
// inside the rate window so an expired memo always re-reads the store before
// the window rolls over.
const memoTTL = time.Minute

type rateMemo struct {
	count   int
	checked time.Time
}

// RateLimiter bounds generation requests per user over a sliding window. The
// count of session rows in the store is the source of truth; the injected
// cache store only memoizes it briefly to spare a round-trip per check.
//
// The memo is process-local, so two instances sharing a database can each
// admit a transient over-limit request. That costs one extra provider call,
// not data integrity. Single-node only.
type RateLimiter struct {
	sessions repository.SessionRepository
	memo     cache.Store
	limit    int
	window   time.Duration

	now func() time.Time
}

// NewRateLimiter creates a sliding-window limiter allowing limit requests per
// window.
func NewRateLimiter(sessions repository.SessionRepository, memo cache.Store, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		sessions: sessions,
		memo:     memo,
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// CanProceed reports whether the user can issue another generation request.
func (l *RateLimiter) CanProceed(ctx context.Context, userID uuid.UUID) (bool, error) {
	count, err := l.windowCount(ctx, userID)
	if err != nil {
		return false, err
	}
	return count < l.limit, nil
}

// Remaining returns the number of requests the user has left in the current
// window.
func (l *RateLimiter) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := l.windowCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Invalidate drops the memoized count so the next check sees the new session
// row immediately.
func (l *RateLimiter) Invalidate(userID uuid.UUID) {
	l.memo.Delete(l.memoKey(userID))
}

func (l *RateLimiter) windowCount(ctx context.Context, userID uuid.UUID) (int, error) {
	key := l.memoKey(userID)
	if cached, ok := l.memo.Get(key); ok {
		if memo, ok := cached.(rateMemo); ok {
			return memo.count, nil
		}
	}

	since := l.now().Add(-l.window)
	count, err := l.sessions.CountCreatedSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}

	l.memo.Set(key, rateMemo{count: count, checked: l.now()}, memoTTL)
	return count, nil
}

func (l *RateLimiter) memoKey(userID uuid.UUID) string {
	return "ratelimit:" + userID.String()
}
