package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits requests against a fixed ceiling over a trailing window.
// Check-and-append is atomic: two concurrent callers cannot both take the
// last slot.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	stamps []time.Time
	now    func() time.Time
}

type Option func(*Limiter)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter admitting at most limit requests per window.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		window: window,
		limit:  limit,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow prunes timestamps older than the window, then admits and records the
// call if the ceiling has room. A rejected call records nothing.
func (l *Limiter) Allow() bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.stamps[:0]
	for _, ts := range l.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.stamps = kept

	if len(l.stamps) >= l.limit {
		return false
	}
	l.stamps = append(l.stamps, now)
	return true
}

// Len reports the current number of recorded admissions inside the window.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.stamps)
}
