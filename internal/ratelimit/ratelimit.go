package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/atsmatch/internal/model"
)

// Limiter enforces a minimum delay between requests sharing the same key.
// A key is normally the model name so that every caller of one model
// (CLI, TUI and HTTP handlers) draws from the same budget.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time
	minDelay time.Duration
}

// NewLimiter creates a limiter that spaces consecutive requests for the same
// key at least minDelay apart. A zero minDelay never blocks.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request for key.
// Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, key string) error {
	r.mu.Lock()
	now := time.Now()
	last, ok := r.lastCall[key]
	if !ok || r.minDelay <= 0 || now.Sub(last) >= r.minDelay {
		r.lastCall[key] = now
		r.mu.Unlock()
		return nil
	}

	// Reserve the next slot before releasing the lock so concurrent waiters
	// queue behind each other instead of firing together.
	next := last.Add(r.minDelay)
	r.lastCall[key] = next
	r.mu.Unlock()

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-timer.C:
	}
	return nil
}

// RateLimitedGenerator is a decorator that waits on a shared Limiter before
// delegating to the wrapped Generator.
type RateLimitedGenerator struct {
	inner   model.Generator
	limiter *Limiter
	key     string
}

// NewRateLimitedGenerator wraps a Generator with keyed rate limiting.
// Generators targeting the same model should share one limiter instance.
func NewRateLimitedGenerator(inner model.Generator, limiter *Limiter, key string) *RateLimitedGenerator {
	return &RateLimitedGenerator{
		inner:   inner,
		limiter: limiter,
		key:     key,
	}
}

// Generate waits for the limiter, then delegates to the wrapped generator.
func (g *RateLimitedGenerator) Generate(ctx context.Context, prompt string) (*model.Response, error) {
	if err := g.limiter.Wait(ctx, g.key); err != nil {
		return nil, err
	}
	return g.inner.Generate(ctx, prompt)
}
