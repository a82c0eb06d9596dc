// Package ratelimit bounds how often a caller identity may trigger the
// enrichment pipeline.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultLimit is the maximum number of attempts per identity per window.
	DefaultLimit = 5
	// DefaultWindow is the trailing window over which attempts are counted.
	DefaultWindow = time.Minute
)

// Limiter records an attempt for an identity and reports whether it exceeded
// the limit. Identities are opaque: the caller decides what they mean
// (an IP address, a user ID, a constant for untrusted traffic).
type Limiter interface {
	RecordAndCheck(identity string) error
}

// LimitExceededError indicates an identity exceeded its request budget.
type LimitExceededError struct {
	Identity string
	Limit    int
	Window   time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %q: %d requests per %s", e.Identity, e.Limit, e.Window)
}

// SlidingWindow is an in-memory Limiter that keeps the timestamps of recent
// attempts per identity and prunes entries older than the window lazily on
// access. State lives only for the process lifetime.
type SlidingWindow struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	attempts map[string][]time.Time

	now func() time.Time // swapped out in tests
}

// NewSlidingWindow creates a limiter allowing limit attempts per identity
// within the trailing window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &SlidingWindow{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// RecordAndCheck prunes expired attempts for identity, fails if the limit is
// already reached, and otherwise records the current attempt.
func (s *SlidingWindow) RecordAndCheck(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	windowStart := now.Add(-s.window)

	recent := s.attempts[identity][:0]
	for _, ts := range s.attempts[identity] {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= s.limit {
		s.attempts[identity] = recent
		return &LimitExceededError{Identity: identity, Limit: s.limit, Window: s.window}
	}

	s.attempts[identity] = append(recent, now)
	return nil
}
