package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/amishk599/atsmatch/internal/model"
)

// RetryGenerator is a decorator that retries transient failures with exponential
// backoff and jitter before delegating to the wrapped Generator.
type RetryGenerator struct {
	inner      model.Generator
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryGenerator wraps a Generator with retry logic.
// maxRetries is the number of additional attempts after the first failure; 0 keeps a single attempt.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryGenerator(inner model.Generator, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryGenerator {
	return &RetryGenerator{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Generate calls the wrapped generator, retrying on transient errors. The
// last error is returned unchanged once retries are exhausted.
func (g *RetryGenerator) Generate(ctx context.Context, prompt string) (*model.Response, error) {
	resp, err := g.inner.Generate(ctx, prompt)
	if err == nil {
		return resp, nil
	}

	if !g.shouldRetry(ctx, err) {
		return nil, err
	}

	var lastErr error = err
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		delay := g.backoffDelay(attempt, lastErr)

		g.logger.Warn("retrying after transient error",
			"attempt", attempt,
			"max_retries", g.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		resp, err = g.inner.Generate(ctx, prompt)
		if err == nil {
			return resp, nil
		}

		if !g.shouldRetry(ctx, err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (g *RetryGenerator) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := g.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// shouldRetry stops once the caller's context is done. An http.Client timeout
// also satisfies context.DeadlineExceeded, so the error itself is not inspected
// for cancellation.
func (g *RetryGenerator) shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return isRetryable(err)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// A rejected key stays rejected.
	if errors.Is(err, model.ErrAuth) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
	}

	return errors.Is(err, model.ErrTransport)
}
