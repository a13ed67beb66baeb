// Package ratelimit implements a fixed-window request counter keyed by caller
// identity, typically the source address.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks request timestamps per key within a fixed window. It is safe
// for concurrent use; every check trims the key's history to the current
// window, so memory stays bounded by maxRequests per active key.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	if maxRequests < 1 {
		maxRequests = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow reports whether the key may proceed. A rejected attempt is not
// recorded, so hammering a limited key does not extend its window.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.requests[key][:0]
	for _, ts := range l.requests[key] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.maxRequests {
		l.requests[key] = kept
		return false
	}

	l.requests[key] = append(kept, now)
	return true
}
