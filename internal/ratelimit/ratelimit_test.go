package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amishk599/atsmatch/internal/model"
)

func TestWait_SameKey_EnforcesMinDelay(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "gemini-1.5-flash-latest"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "gemini-1.5-flash-latest"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentKeys_NoCrossBlocking(t *testing.T) {
	limiter := NewLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "model-a"); err != nil {
		t.Fatalf("model-a wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "model-b"); err != nil {
		t.Fatalf("model-b wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected model-b wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_ZeroDelayNeverBlocks(t *testing.T) {
	limiter := NewLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, "m"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("zero delay limiter blocked for %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(5 * time.Second)

	// First call to seed the last-call time.
	if err := limiter.Wait(context.Background(), "m"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx, "m")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type recordingGenerator struct {
	called bool
}

func (g *recordingGenerator) Generate(_ context.Context, _ string) (*model.Response, error) {
	g.called = true
	return model.TextResponse("ok"), nil
}

func TestRateLimitedGenerator_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	inner := &recordingGenerator{}
	gen := NewRateLimitedGenerator(inner, limiter, "m")
	ctx := context.Background()

	if _, err := gen.Generate(ctx, "p"); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if !inner.called {
		t.Fatal("inner generator was not called on first request")
	}

	inner.called = false

	start := time.Now()
	if _, err := gen.Generate(ctx, "p"); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner generator was not called on second request")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait before delegating, got %v", elapsed)
	}
}

func TestRateLimitedGenerator_CancelledWaitSkipsCall(t *testing.T) {
	limiter := NewLimiter(5 * time.Second)
	inner := &recordingGenerator{}
	gen := NewRateLimitedGenerator(inner, limiter, "m")

	if _, err := gen.Generate(context.Background(), "p"); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	inner.called = false

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gen.Generate(ctx, "p"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if inner.called {
		t.Error("inner generator called despite cancelled wait")
	}
}
