package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/AAC-Team/registration-service/internal/cache"
	"github.com/AAC-Team/registration-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	registration repositories.RegistrationRepository
	evaluation   repositories.EvaluationRepository
	admin        repositories.AdminRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	// Initialize sub-repositories with caching
	repo.registration = NewRegistrationPostgreSQL(config.DB, config.RedisClient)
	repo.evaluation = NewEvaluationPostgreSQL(config.DB, config.RedisClient)
	repo.admin = NewAdminPostgreSQL(config.DB)

	return repo
}

// Registration returns the registration repository
func (r *PostgreSQLRepository) Registration() repositories.RegistrationRepository {
	return r.registration
}

// Evaluation returns the evaluation repository
func (r *PostgreSQLRepository) Evaluation() repositories.EvaluationRepository {
	return r.evaluation
}

// Admin returns the admin repository
func (r *PostgreSQLRepository) Admin() repositories.AdminRepository {
	return r.admin
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create a new repository instance with the transaction
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		// Initialize sub-repositories with transaction
		txRepo.registration = NewRegistrationPostgreSQL(tx, r.redisClient)
		txRepo.evaluation = NewEvaluationPostgreSQL(tx, r.redisClient)
		txRepo.admin = NewAdminPostgreSQL(tx)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	// Check database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Check cache connection
	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	// Close database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Close Redis connection
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	// Validate configuration
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	// Test database connection
	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	// Test Redis connection if provided
	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	// Initialize repository
	rm.repo = NewPostgreSQLRepository(rm.config)

	// Preload caches when Redis is available
	if pg, ok := rm.repo.(*PostgreSQLRepository); ok && rm.config.RedisClient != nil {
		if err := pg.WarmupCache(ctx); err != nil {
			return fmt.Errorf("cache warmup failed: %w", err)
		}
	}

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}

// WarmupCache preloads frequently accessed data into cache
func (r *PostgreSQLRepository) WarmupCache(ctx context.Context) error {
	if r.cacheManager == nil {
		return nil
	}

	return r.cacheManager.WarmupCache(ctx)
}
