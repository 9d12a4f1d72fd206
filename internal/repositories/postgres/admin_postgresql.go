package postgres

import (
	"context"
	"fmt"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/repositories"
	"gorm.io/gorm"
)

// AdminPostgreSQL implements AdminRepository. Admin rows are few and looked up
// only during login, so no caching layer is involved.
type AdminPostgreSQL struct {
	db *gorm.DB
}

func NewAdminPostgreSQL(db *gorm.DB) repositories.AdminRepository {
	return &AdminPostgreSQL{db: db}
}

func (a *AdminPostgreSQL) Create(ctx context.Context, tx *gorm.DB, admin *models.Admin) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return err
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (a *AdminPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Admin, error) {
	db := a.getDB(tx)
	var admin models.Admin
	if err := db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if IsNotFoundError(err) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

func (a *AdminPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.Admin, error) {
	db := a.getDB(tx)
	var admin models.Admin
	if err := db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if IsNotFoundError(err) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get admin by username: %w", err)
	}
	return &admin, nil
}

func (a *AdminPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := a.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (a *AdminPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}
