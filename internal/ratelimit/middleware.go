package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per client IP using the given limiter. On limiter
// failure the request is allowed through rather than blocking traffic.
func Middleware(limiter *Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Error("Failed to check rate limit", "error", err, "client_ip", c.ClientIP())
			c.Next()
			return
		}

		addRateLimitHeaders(c, result)

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(result.RetryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"message":     "Too many attempts. Please try again later.",
				"retry_after": result.RetryAfter,
			})
			return
		}

		c.Next()
	}
}

func addRateLimitHeaders(c *gin.Context, result *Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
