package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/AAC-Team/registration-service/internal/events"
	"github.com/AAC-Team/registration-service/internal/ratelimit"
	"github.com/AAC-Team/registration-service/internal/repositories"
	"github.com/AAC-Team/registration-service/internal/storage"
	"github.com/AAC-Team/registration-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Auth settings
	JWTSecret string
	JWTExpiry time.Duration

	// Global settings
	DefaultTimeout time.Duration
}

// ServiceManagerDeps bundles the infrastructure handed to every service.
type ServiceManagerDeps struct {
	DB        *gorm.DB
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	FileStore storage.FileStore
	Publisher events.EventPublisher
	Limiter   *ratelimit.Limiter
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   ServiceManagerDeps
	config ServiceManagerConfig

	// Service instances
	registrationService RegistrationService
	evaluationService   EvaluationService
	authService         AuthService
	exportService       ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps ServiceManagerDeps, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		deps:   deps,
		config: config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	sm.registrationService = NewRegistrationService(
		sm.deps.Repo, sm.deps.DB, sm.deps.Logger, sm.deps.Validator,
		sm.deps.FileStore, sm.deps.Publisher)
	sm.deps.Logger.Info("Registration service initialized")

	sm.evaluationService = NewEvaluationService(
		sm.deps.Repo, sm.deps.DB, sm.deps.Logger, sm.deps.Validator,
		sm.deps.Publisher)
	sm.deps.Logger.Info("Evaluation service initialized")

	sm.authService = NewAuthService(
		sm.deps.Repo, sm.deps.Logger, sm.deps.Validator, sm.deps.Limiter,
		sm.config.JWTSecret, sm.config.JWTExpiry)
	sm.deps.Logger.Info("Auth service initialized")

	sm.exportService = NewExportService(sm.deps.Repo, sm.deps.Logger)
	sm.deps.Logger.Info("Export service initialized")

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Registration() RegistrationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.registrationService == nil {
		panic("registration service not initialized")
	}
	return sm.registrationService
}

func (sm *serviceManager) Evaluation() EvaluationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.evaluationService == nil {
		panic("evaluation service not initialized")
	}
	return sm.evaluationService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.authService == nil {
		panic("auth service not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.exportService == nil {
		panic("export service not initialized")
	}
	return sm.exportService
}

// HealthCheck verifies the manager and its backing repository are usable.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.deps.Repo.Ping(ctx)
}

// Shutdown releases resources held by the services.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	return nil
}
