package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateRegistrationCache invalidates all registration-related caches using pipeline
func InvalidateRegistrationCache(ctx context.Context, cm *CacheManager, registrationID uint) {
	// Delete specific keys using single call
	SafeDelete(ctx, cm.Registration,
		fmt.Sprintf("id:%d", registrationID))

	// Invalidate patterns
	SafeInvalidatePattern(ctx, cm.Registration, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "registration:*")
	SafeInvalidatePattern(ctx, cm.Exists, "registration:*")
}

// InvalidateEvaluationCache invalidates all evaluation-related caches
func InvalidateEvaluationCache(ctx context.Context, cm *CacheManager, registrationID uint) {
	SafeDelete(ctx, cm.Evaluation, fmt.Sprintf("registration:%d", registrationID))
	SafeInvalidatePattern(ctx, cm.Evaluation, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "evaluation:*")
}
