package utils

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the logging surface handed to handlers and middleware.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a *slog.Logger in the Logger interface.
func NewSlogLogger(logger *slog.Logger) Logger {
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

type loggerContextKey struct{}

// ContextLogger attaches a request-scoped logger (carrying the request id) to
// both the gin context and the request context.
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestLogger := logger
		if requestID := c.GetString("request_id"); requestID != "" {
			requestLogger = logger.With("request_id", requestID)
		}

		c.Set("logger", requestLogger)
		ctx := context.WithValue(c.Request.Context(), loggerContextKey{}, requestLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// LoggerFromContext returns the request-scoped logger, falling back to fallback.
func LoggerFromContext(ctx context.Context, fallback Logger) Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(Logger); ok {
		return logger
	}
	return fallback
}

// LoggerMiddleware logs one structured line per request.
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		requestLogger := logger
		if ctxLogger, ok := c.Value("logger").(Logger); ok {
			requestLogger = ctxLogger
		}

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			requestLogger.Error("Request completed", fields...)
		case status >= 400:
			requestLogger.Warn("Request completed", fields...)
		default:
			requestLogger.Info("Request completed", fields...)
		}
	}
}
