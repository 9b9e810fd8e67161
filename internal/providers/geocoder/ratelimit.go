package geocoder

import (
	"sync"
	"time"
)

// RateLimiter is a per-provider cooldown gate. It never queues: a call made
// before the provider's interval has elapsed is rejected.
type RateLimiter struct {
	mu        sync.Mutex
	last      map[string]time.Time
	intervals map[string]time.Duration
	now       func() time.Time
}

func NewRateLimiter(intervals map[string]time.Duration) *RateLimiter {
	if intervals == nil {
		intervals = make(map[string]time.Duration)
	}
	return &RateLimiter{
		last:      make(map[string]time.Time),
		intervals: intervals,
		now:       time.Now,
	}
}

// SetInterval changes the minimum gap between calls for a provider.
func (r *RateLimiter) SetInterval(provider string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intervals[provider] = d
}

// Allow reports whether a call may start now. An allowed call is recorded
// before returning so concurrent callers cannot both pass.
func (r *RateLimiter) Allow(provider string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	interval := r.intervals[provider]
	if last, ok := r.last[provider]; ok && interval > 0 && now.Sub(last) < interval {
		return false
	}
	r.last[provider] = now
	return true
}

// Done re-arms the cooldown from the moment the call completed.
func (r *RateLimiter) Done(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[provider] = r.now()
}
