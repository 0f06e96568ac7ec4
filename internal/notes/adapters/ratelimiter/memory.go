package ratelimiter

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/izzddalfk/fabnotes/internal/notes/core"
)

// RateLimiter implements token bucket rate limiting keyed by client
type RateLimiter struct {
	buckets map[string]*tokenBucket
	mutex   sync.Mutex
	logger  *slog.Logger
	config  RateLimitConfig
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           // Tokens refilled per minute
	BurstSize         int           // Bucket capacity, defaults to RequestsPerMinute
	IdleExpiry        time.Duration // Buckets unused this long are dropped
	CleanupInterval   time.Duration // How often to look for idle buckets
	Clock             func() time.Time
}

type tokenBucket struct {
	tokens       float64
	lastRefill   time.Time
	lastAccess   time.Time
	requestCount int
	blockedCount int
}

// NewRateLimiter creates a limiter allowing requestsPerMinute per client
func NewRateLimiter(requestsPerMinute int, logger *slog.Logger) *RateLimiter {
	return NewRateLimiterWithConfig(RateLimitConfig{RequestsPerMinute: requestsPerMinute}, logger)
}

// NewRateLimiterWithConfig creates a limiter, filling unset fields with defaults
func NewRateLimiterWithConfig(config RateLimitConfig, logger *slog.Logger) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = core.DefaultRateLimit
	}
	if config.BurstSize <= 0 {
		config.BurstSize = config.RequestsPerMinute
	}
	if config.IdleExpiry <= 0 {
		config.IdleExpiry = time.Hour
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		logger:  logger,
		config:  config,
		now:     config.Clock,
		done:    make(chan struct{}),
	}

	go rl.cleanupRoutine()

	logger.InfoContext(context.Background(), "Rate limiter initialized",
		"requests_per_minute", config.RequestsPerMinute,
		"burst_size", config.BurstSize,
	)

	return rl
}

// IsAllowed reports whether the client has a token left without consuming it
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	bucket := rl.getBucket(key)
	rl.refillBucket(bucket)

	return bucket.tokens >= 1
}

// RecordRequest consumes a token or returns core.ErrRateLimitExceeded
func (rl *RateLimiter) RecordRequest(ctx context.Context, key string) error {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	bucket := rl.getBucket(key)
	rl.refillBucket(bucket)
	bucket.lastAccess = rl.now()

	if bucket.tokens < 1 {
		bucket.blockedCount++
		rl.logger.WarnContext(ctx, "Request blocked by rate limiter",
			"client", key,
			"blocked_count", bucket.blockedCount,
		)
		return core.ErrRateLimitExceeded
	}

	bucket.tokens--
	bucket.requestCount++

	rl.logger.DebugContext(ctx, "Request recorded",
		"client", key,
		"tokens_remaining", int(bucket.tokens),
		"total_requests", bucket.requestCount,
	)

	return nil
}

// RetryAfter returns how long until the client gets its next token
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	bucket, exists := rl.buckets[key]
	if !exists {
		return 0
	}
	rl.refillBucket(bucket)

	if bucket.tokens >= 1 {
		return 0
	}

	missing := 1 - bucket.tokens
	return time.Duration(math.Ceil(missing * float64(time.Minute) / float64(rl.config.RequestsPerMinute)))
}

// Close stops the cleanup goroutine
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
	})
}

func (rl *RateLimiter) getBucket(key string) *tokenBucket {
	bucket, exists := rl.buckets[key]
	if !exists {
		now := rl.now()
		bucket = &tokenBucket{
			tokens:     float64(rl.config.BurstSize),
			lastRefill: now,
			lastAccess: now,
		}
		rl.buckets[key] = bucket
	}
	return bucket
}

// refillBucket adds tokens for the time elapsed since the last refill
func (rl *RateLimiter) refillBucket(bucket *tokenBucket) {
	now := rl.now()
	elapsed := now.Sub(bucket.lastRefill)
	if elapsed <= 0 {
		return
	}

	bucket.tokens += float64(elapsed) * float64(rl.config.RequestsPerMinute) / float64(time.Minute)
	if capacity := float64(rl.config.BurstSize); bucket.tokens > capacity {
		bucket.tokens = capacity
	}
	bucket.lastRefill = now
}

func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-rl.config.IdleExpiry)
	for key, bucket := range rl.buckets {
		if bucket.lastAccess.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}
