package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter caps how often a keyed caller may proceed. Implementations
// never block; a denied call simply reports false.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter allows at most limit calls per key within any
// windowSize span. Hit timestamps are trimmed as the window slides, and
// idle keys are swept at most once per window so the map cannot grow
// without bound under churning keys.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	hits       map[string][]time.Time
	limit      int
	windowSize time.Duration
	nextSweep  time.Time
	now        func() time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		hits:       make(map[string][]time.Time),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow records a hit for key and reports whether it stays within the
// limit. Denied calls are not recorded, so a blocked caller does not
// push its own window further out.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	cutoff := now.Add(-l.windowSize)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		l.sweep(cutoff)
		l.nextSweep = now.Add(l.windowSize)
	}

	recent := trimBefore(l.hits[key], cutoff)
	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false, nil
	}

	l.hits[key] = append(recent, now)
	return true, nil
}

// Reset clears all recorded hits for key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.hits, key)
	return nil
}

// sweep drops keys whose newest hit is outside the window. Caller holds
// the lock.
func (l *SlidingWindowLimiter) sweep(cutoff time.Time) {
	for key, times := range l.hits {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
}

// trimBefore drops leading timestamps at or before cutoff. Hits are
// appended in order, so everything after the first retained index stays.
func trimBefore(times []time.Time, cutoff time.Time) []time.Time {
	keep := 0
	for keep < len(times) && !times[keep].After(cutoff) {
		keep++
	}
	return times[keep:]
}
