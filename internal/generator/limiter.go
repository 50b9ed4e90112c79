package generator

import (
	"context"
	"sync"
	"time"
)

// Limiter admits or refuses a generation request. Allow records the request
// when it admits it.
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// WindowLimiter is a process-local sliding window: at most limit admissions in
// any span of window.
type WindowLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{limit: limit, window: window, now: time.Now}
}

func (l *WindowLimiter) Allow(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, t := range l.stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.stamps = kept

	if len(l.stamps) >= l.limit {
		return false, nil
	}
	l.stamps = append(l.stamps, now)
	return true, nil
}
