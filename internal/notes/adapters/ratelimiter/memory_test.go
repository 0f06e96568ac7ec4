package ratelimiter_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/izzddalfk/fabnotes/internal/notes/adapters/ratelimiter"
	"github.com/izzddalfk/fabnotes/internal/notes/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // blocked requests log at warn
	}))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newLimiter(t *testing.T, rpm int, clock *fakeClock) *ratelimiter.RateLimiter {
	rl := ratelimiter.NewRateLimiterWithConfig(ratelimiter.RateLimitConfig{
		RequestsPerMinute: rpm,
		Clock:             clock.Now,
	}, getTestLogger())
	t.Cleanup(rl.Close)
	return rl
}

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	ctx := context.Background()
	rl := newLimiter(t, 3, newFakeClock())

	for i := 0; i < 3; i++ {
		assert.True(t, rl.IsAllowed(ctx, "10.0.0.1"), "request %d", i+1)
		require.NoError(t, rl.RecordRequest(ctx, "10.0.0.1"))
	}

	assert.False(t, rl.IsAllowed(ctx, "10.0.0.1"))
	assert.ErrorIs(t, rl.RecordRequest(ctx, "10.0.0.1"), core.ErrRateLimitExceeded)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	ctx := context.Background()
	rl := newLimiter(t, 1, newFakeClock())

	require.NoError(t, rl.RecordRequest(ctx, "client-a"))
	assert.ErrorIs(t, rl.RecordRequest(ctx, "client-a"), core.ErrRateLimitExceeded)
	assert.NoError(t, rl.RecordRequest(ctx, "client-b"))
}

func TestRateLimiter_Refill(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	rl := newLimiter(t, 6, clock)

	for i := 0; i < 6; i++ {
		require.NoError(t, rl.RecordRequest(ctx, "c"))
	}
	require.ErrorIs(t, rl.RecordRequest(ctx, "c"), core.ErrRateLimitExceeded)
	assert.Equal(t, 10*time.Second, rl.RetryAfter("c"))

	// 6 per minute refills one token every 10s
	clock.Advance(5 * time.Second)
	assert.ErrorIs(t, rl.RecordRequest(ctx, "c"), core.ErrRateLimitExceeded)
	assert.Equal(t, 5*time.Second, rl.RetryAfter("c"))

	clock.Advance(5 * time.Second)
	assert.NoError(t, rl.RecordRequest(ctx, "c"))
	assert.ErrorIs(t, rl.RecordRequest(ctx, "c"), core.ErrRateLimitExceeded)
}

func TestRateLimiter_RefillCapsAtBurst(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	rl := newLimiter(t, 2, clock)

	require.NoError(t, rl.RecordRequest(ctx, "c"))
	clock.Advance(time.Hour)

	require.NoError(t, rl.RecordRequest(ctx, "c"))
	require.NoError(t, rl.RecordRequest(ctx, "c"))
	assert.ErrorIs(t, rl.RecordRequest(ctx, "c"), core.ErrRateLimitExceeded)
}

func TestRateLimiter_RetryAfterUnknownClient(t *testing.T) {
	rl := newLimiter(t, 2, newFakeClock())
	assert.Equal(t, time.Duration(0), rl.RetryAfter("never-seen"))
}

func TestRateLimiter_DefaultRate(t *testing.T) {
	ctx := context.Background()
	rl := newLimiter(t, 0, newFakeClock())

	for i := 0; i < core.DefaultRateLimit; i++ {
		require.NoError(t, rl.RecordRequest(ctx, "c"))
	}
	assert.ErrorIs(t, rl.RecordRequest(ctx, "c"), core.ErrRateLimitExceeded)
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	rl := ratelimiter.NewRateLimiterWithConfig(ratelimiter.RateLimitConfig{
		RequestsPerMinute: 5,
		IdleExpiry:        time.Minute,
		CleanupInterval:   10 * time.Millisecond,
		Clock:             clock.Now,
	}, getTestLogger())
	defer rl.Close()

	require.NoError(t, rl.RecordRequest(ctx, "idle"))
	assert.Equal(t, 1, rl.Len())

	clock.Advance(2 * time.Minute)
	assert.Eventually(t, func() bool {
		return rl.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRateLimiter_ConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	rl := newLimiter(t, 10, newFakeClock())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := rl.RecordRequest(ctx, fmt.Sprintf("client-%d", i%2)); err == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, allowed)
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := ratelimiter.NewRateLimiter(5, getTestLogger())
	rl.Close()
	assert.NotPanics(t, rl.Close)
}
