// Package ratelimit implements the shared outbound request budget every
// dispatcher call acquires a slot from before touching the network.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// Governor enforces a per-key outbound request budget. Acquire blocks the
// caller until the budget permits one more call; it never fails permanently,
// only delays (or returns early when the context is cancelled).
type Governor struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a governor allowing requestsPerSecond sustained calls per key
// with the given burst allowance. Non-positive arguments fall back to the
// defaults.
func New(requestsPerSecond float64, burst int) *Governor {
	if requestsPerSecond <= 0 {
		requestsPerSecond = constants.DefaultRequestsPerSecond
	}

	if burst <= 0 {
		burst = constants.DefaultRateBurst
	}

	return &Governor{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// limiterFor returns the limiter for key, creating it on first use. The map
// is the one piece of shared mutable state interleaved calls touch, so every
// lookup runs inside the critical section.
func (g *Governor) limiterFor(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	limiter, ok := g.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(g.limit, g.burst)
		g.limiters[key] = limiter
	}

	return limiter
}

// Acquire blocks until the budget for key permits one more outbound call.
func (g *Governor) Acquire(ctx context.Context, key string) error {
	err := g.limiterFor(key).Wait(ctx)
	if err != nil {
		return fmt.Errorf("acquiring rate slot for %q: %w", key, err)
	}

	return nil
}

// Allow reports whether a slot is immediately available for key, consuming
// it when so. Used by callers that must not block.
func (g *Governor) Allow(key string) bool {
	return g.limiterFor(key).Allow()
}
