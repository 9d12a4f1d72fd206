package repositories

import (
	"context"

	"github.com/AAC-Team/registration-service/internal/models"
	"gorm.io/gorm"
)

// EvaluationRepository interface for evaluation score operations
type EvaluationRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Evaluation, error)
	GetByRegistration(ctx context.Context, tx *gorm.DB, registrationID uint) (*models.Evaluation, error)
	Update(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Upsert keyed on registration_id; each registration holds at most one evaluation
	Upsert(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters EvaluationFilters) ([]*models.EvaluationRow, int64, error)
	GetByRegistrationIDs(ctx context.Context, tx *gorm.DB, registrationIDs []uint) ([]*models.Evaluation, error)

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB) (*EvaluationStats, error)
}

// AdminRepository interface for admin account operations
type AdminRepository interface {
	Create(ctx context.Context, tx *gorm.DB, admin *models.Admin) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.Admin, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}
