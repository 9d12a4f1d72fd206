package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/AAC-Team/registration-service/internal/config"
	"github.com/AAC-Team/registration-service/internal/events"
	"github.com/AAC-Team/registration-service/internal/handlers"
	"github.com/AAC-Team/registration-service/internal/notifier"
	"github.com/AAC-Team/registration-service/internal/ratelimit"
	"github.com/AAC-Team/registration-service/internal/repositories/postgres"
	"github.com/AAC-Team/registration-service/internal/services"
	"github.com/AAC-Team/registration-service/internal/storage"
	"github.com/AAC-Team/registration-service/internal/utils"
	"github.com/AAC-Team/registration-service/internal/validator"
	"github.com/AAC-Team/registration-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Initialize validator
	validator := validator.New()

	// Initialize the applicant document store
	fileStore, err := storage.NewLocalFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	// Initialize event transport. Kafka when brokers are configured,
	// otherwise an in-process bus that also feeds the email notifier.
	var publisher events.EventPublisher
	var bus *events.Bus
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		bus = events.NewBus(slogLogger)
		publisher = bus.Publisher()
	}

	// Source-IP throttles for login and public submissions
	var loginLimiter *ratelimit.Limiter
	var submitLimiter *ratelimit.Limiter
	if redisClient != nil {
		loginLimiter = ratelimit.NewLimiter(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow, "ratelimit:login")
		submitLimiter = ratelimit.NewLimiter(redisClient, 30, time.Minute, "ratelimit:submit")
	}

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceManagerDeps{
		DB:        db,
		Repo:      repoManager.GetRepository(),
		Logger:    slogLogger,
		Validator: validator,
		FileStore: fileStore,
		Publisher: publisher,
		Limiter:   loginLimiter,
	}, services.ServiceManagerConfig{
		JWTSecret:      cfg.JWTSecret,
		JWTExpiry:      cfg.JWTExpiry,
		DefaultTimeout: 30 * time.Second,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Seed the default admin account on first boot
	if err := serviceManager.Auth().EnsureBootstrapAdmin(context.Background()); err != nil {
		log.Fatalf("Failed to ensure bootstrap admin: %v", err)
	}

	// Start the email notifier when events stay in-process
	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	defer stopNotifier()
	if bus != nil {
		var mailer notifier.Mailer
		if cfg.SMTP.Host != "" {
			mailer = notifier.NewSMTPMailer(cfg.SMTP)
		} else {
			mailer = notifier.NewLogMailer(slogLogger)
		}
		if err := notifier.New(bus.Subscriber(), mailer, slogLogger).Start(notifierCtx); err != nil {
			log.Fatalf("Failed to start notifier: %v", err)
		}
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, validator, logger, handlers.HandlerManagerConfig{
		SubmitLimiter: submitLimiter,
		Slogger:       slogLogger,
		UploadDir:     fileStore.Dir(),
	})

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Stop the notifier consumers
	stopNotifier()

	// Shutdown services
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
