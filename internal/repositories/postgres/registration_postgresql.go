package postgres

import (
	"context"
	"fmt"

	"github.com/AAC-Team/registration-service/internal/cache"
	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type RegistrationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewRegistrationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// ===== BASIC CRUD OPERATIONS =====

// Create inserts a new registration and invalidates list caches
func (r *RegistrationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(registration).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return err
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, registration.ID)

	return nil
}

// GetByID retrieves a registration by ID with caching
func (r *RegistrationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	db := r.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var registration models.Registration

	err := r.cacheManager.Registration.CacheOrExecute(ctx, cacheKey, &registration, cache.RegistrationCacheConfig.TTL, func() (interface{}, error) {
		var dbRegistration models.Registration
		if err := db.WithContext(ctx).First(&dbRegistration, id).Error; err != nil {
			if IsNotFoundError(err) {
				return nil, gorm.ErrRecordNotFound
			}
			return nil, fmt.Errorf("failed to get registration: %w", err)
		}
		return &dbRegistration, nil
	})

	if err != nil {
		return nil, err
	}

	return &registration, nil
}

// Update persists changes to a registration
func (r *RegistrationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(registration).Error; err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, registration.ID)

	return nil
}

// Delete soft deletes a registration
func (r *RegistrationPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Registration{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete registration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, id)

	return nil
}

// ===== QUERY OPERATIONS =====

// List retrieves registrations matching the filters with a total count
func (r *RegistrationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Registration{})
	query = r.helpers.ApplyRegistrationFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var registrations []*models.Registration
	if err := query.Find(&registrations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}

	return registrations, total, nil
}

// ===== STATUS WORKFLOW =====

// UpdateStatus sets the review status on a registration
func (r *RegistrationPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update registration status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, id)

	return nil
}

// ===== VALIDATION AND CHECKS =====

// ExistsByUID checks whether a registration with the given UID exists, with short-lived caching
func (r *RegistrationPostgreSQL) ExistsByUID(ctx context.Context, tx *gorm.DB, uid string) (bool, error) {
	return r.existsBy(ctx, tx, "uid", uid)
}

// ExistsByEmail checks whether a registration with the given email exists
func (r *RegistrationPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	return r.existsBy(ctx, tx, "email", email)
}

func (r *RegistrationPostgreSQL) existsBy(ctx context.Context, tx *gorm.DB, column, value string) (bool, error) {
	db := r.getDB(tx)
	cacheKey := fmt.Sprintf("registration:%s:%s", column, value)
	var exists bool

	err := r.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := db.WithContext(ctx).
			Model(&models.Registration{}).
			Where(column+" = ?", value).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check registration existence: %w", err)
		}
		return count > 0, nil
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}

// ===== STATISTICS =====

// GetStats returns counts of registrations per status, with caching
func (r *RegistrationPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.RegistrationStats, error) {
	db := r.getDB(tx)
	var stats repositories.RegistrationStats

	err := r.cacheManager.Stats.CacheOrExecute(ctx, "registration:summary", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbStats repositories.RegistrationStats

		if err := db.WithContext(ctx).
			Model(&models.Registration{}).
			Count(&dbStats.Total).Error; err != nil {
			return nil, fmt.Errorf("failed to count registrations: %w", err)
		}

		type statusCount struct {
			Status models.RegistrationStatus
			Count  int64
		}
		var rows []statusCount
		if err := db.WithContext(ctx).
			Model(&models.Registration{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to count registrations by status: %w", err)
		}

		for _, row := range rows {
			switch row.Status {
			case models.StatusPending:
				dbStats.Pending = row.Count
			case models.StatusApproved:
				dbStats.Approved = row.Count
			case models.StatusRejected:
				dbStats.Rejected = row.Count
			}
		}

		return &dbStats, nil
	})

	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (r *RegistrationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
