package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, sourced from the environment.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	UploadDir string

	JWTSecret string
	JWTExpiry time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration

	KafkaBrokers []string

	SMTP SMTPConfig
}

// SMTPConfig configures the outbound mailer. Host left empty disables SMTP
// delivery and notification emails are logged instead.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadConfig reads configuration from the environment, with .env as a
// development convenience.
func LoadConfig() (*Config, error) {
	// Ignore missing .env; in production everything comes from the environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@example.com"),
		},
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "development-secret-do-not-use-in-production"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
