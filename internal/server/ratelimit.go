package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiters hands out one token bucket per user. A bucket left idle for refill
// is full again, so it is dropped and rebuilt on the user's next request.
type userLimiters struct {
	limit  rate.Limit
	burst  int
	refill time.Duration
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*userLimiter
}

// newUserLimiters returns nil when perMinute is zero, which disables limiting.
func newUserLimiters(perMinute, burst int) *userLimiters {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(float64(perMinute) / 60)
	return &userLimiters{
		limit:    limit,
		burst:    burst,
		refill:   time.Duration(float64(burst) / float64(limit) * float64(time.Second)),
		now:      time.Now,
		limiters: make(map[string]*userLimiter),
	}
}

func (l *userLimiters) allow(userID string) bool {
	if l == nil {
		return true
	}
	now := l.now()

	l.mu.Lock()
	entry, ok := l.limiters[userID]
	if !ok {
		l.evictIdle(now)
		entry = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// evictIdle drops buckets that have refilled completely. Callers hold mu.
func (l *userLimiters) evictIdle(now time.Time) {
	for id, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.refill {
			delete(l.limiters, id)
		}
	}
}
