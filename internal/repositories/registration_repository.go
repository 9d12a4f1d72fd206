package repositories

import (
	"context"

	"github.com/AAC-Team/registration-service/internal/models"
	"gorm.io/gorm"
)

// RegistrationRepository interface for applicant record operations
type RegistrationRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters RegistrationFilters) ([]*models.Registration, int64, error)

	// Status workflow
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error

	// Validation and checks
	ExistsByUID(ctx context.Context, tx *gorm.DB, uid string) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB) (*RegistrationStats, error)
}
