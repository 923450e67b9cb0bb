package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every gateway call.
// A nil limiter never blocks.
type RateLimiter struct {
	mu             sync.Mutex
	tokens         int
	maxTokens      int
	refillInterval time.Duration
	lastRefill     time.Time
}

// NewRateLimiter allows bursts of maxTokens and regains one token per refillInterval.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillInterval: refillInterval,
		lastRefill:     time.Now(),
	}
}

// Wait takes a token, blocking until one is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	for {
		if r.tryTake() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.refillInterval):
		}
	}
}

// Available reports the tokens left after refilling.
func (r *RateLimiter) Available() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill(time.Now())
	return r.tokens
}

func (r *RateLimiter) tryTake() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill(time.Now())
	if r.tokens == 0 {
		return false
	}
	r.tokens--
	return true
}

func (r *RateLimiter) refill(now time.Time) {
	gained := int(now.Sub(r.lastRefill) / r.refillInterval)
	if gained <= 0 {
		return
	}
	r.tokens = min(r.tokens+gained, r.maxTokens)
	r.lastRefill = r.lastRefill.Add(time.Duration(gained) * r.refillInterval)
}
