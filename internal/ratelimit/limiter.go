package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	RetryAfter int       `json:"retry_after"`
	ResetAt    time.Time `json:"reset_at"`
}

// Limiter implements a fixed-window counter on Redis. When Redis is not
// configured the limiter fails open.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewLimiter creates a limiter allowing limit hits per window per key.
func NewLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// Allow consumes one attempt for key and reports whether it fit the window.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	if l.client == nil {
		return &Result{Allowed: true, Limit: l.limit, Remaining: l.limit}, nil
	}

	fullKey := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, l.window)
	ttl := pipe.TTL(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := incr.Val()
	resetIn := ttl.Val()
	if resetIn < 0 {
		resetIn = l.window
	}

	result := &Result{
		Limit:   l.limit,
		ResetAt: time.Now().Add(resetIn),
	}

	if count > int64(l.limit) {
		result.Allowed = false
		result.Remaining = 0
		result.RetryAfter = int(resetIn.Seconds())
		return result, nil
	}

	result.Allowed = true
	result.Remaining = l.limit - int(count)
	return result, nil
}

// Reset clears the counter for key, typically after a successful attempt.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if l.client == nil {
		return nil
	}
	return l.client.Del(ctx, l.prefix+key).Err()
}
