package service

import (
	"sync"
	"time"
)

// DefaultInterval is the minimum spacing between global ban mutations.
const DefaultInterval = 30 * time.Second

// RateLimiter guards the single "global ban mutation" class with a
// last-success timestamp. A reservation is never given back, even when the
// guarded operation fails afterwards.
type RateLimiter struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

func NewRateLimiter(interval time.Duration, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{interval: interval, now: now}
}

// Acquire reserves the next slot. When the interval has not yet elapsed it
// returns the remaining wait and false.
func (r *RateLimiter) Acquire() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.last.IsZero() {
		if elapsed := now.Sub(r.last); elapsed < r.interval {
			return r.interval - elapsed, false
		}
	}
	r.last = now
	return 0, true
}

func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}
