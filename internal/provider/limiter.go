package provider

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket used to stay under the free-tier request
// quotas of the upstream market data APIs.
type Limiter struct {
	mu         sync.Mutex
	tokens     int
	capacity   int
	refillEach time.Duration
	lastRefill time.Time
}

// NewLimiter allows capacity calls, refilling one token per refillEach.
func NewLimiter(capacity int, refillEach time.Duration) *Limiter {
	return &Limiter{
		tokens:     capacity,
		capacity:   capacity,
		refillEach: refillEach,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.refillEach):
		}
	}
}

func (l *Limiter) take() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	refilled := int(now.Sub(l.lastRefill) / l.refillEach)
	if refilled > 0 {
		l.tokens += refilled
		if l.tokens > l.capacity {
			l.tokens = l.capacity
		}
		l.lastRefill = l.lastRefill.Add(time.Duration(refilled) * l.refillEach)
	}

	if l.tokens > 0 {
		l.tokens--
		return true
	}
	return false
}
