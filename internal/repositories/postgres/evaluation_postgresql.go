package postgres

import (
	"context"
	"fmt"

	"github.com/AAC-Team/registration-service/internal/cache"
	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvaluationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewEvaluationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EvaluationRepository {
	return &EvaluationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// ===== BASIC CRUD OPERATIONS =====

// Create inserts a new evaluation row
func (e *EvaluationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(evaluation).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return err
		}
		return fmt.Errorf("failed to create evaluation: %w", err)
	}

	cache.InvalidateEvaluationCache(ctx, e.cacheManager, evaluation.RegistrationID)

	return nil
}

// GetByID retrieves an evaluation by its primary key
func (e *EvaluationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Evaluation, error) {
	db := e.getDB(tx)
	var evaluation models.Evaluation
	if err := db.WithContext(ctx).First(&evaluation, id).Error; err != nil {
		if IsNotFoundError(err) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	evaluation.TotalScore = evaluation.ComputeTotal()
	return &evaluation, nil
}

// GetByRegistration retrieves the evaluation attached to a registration, with caching
func (e *EvaluationPostgreSQL) GetByRegistration(ctx context.Context, tx *gorm.DB, registrationID uint) (*models.Evaluation, error) {
	db := e.getDB(tx)
	cacheKey := fmt.Sprintf("registration:%d", registrationID)
	var evaluation models.Evaluation

	err := e.cacheManager.Evaluation.CacheOrExecute(ctx, cacheKey, &evaluation, cache.EvaluationCacheConfig.TTL, func() (interface{}, error) {
		var dbEvaluation models.Evaluation
		if err := db.WithContext(ctx).Where("registration_id = ?", registrationID).First(&dbEvaluation).Error; err != nil {
			if IsNotFoundError(err) {
				return nil, gorm.ErrRecordNotFound
			}
			return nil, fmt.Errorf("failed to get evaluation for registration: %w", err)
		}
		return &dbEvaluation, nil
	})

	if err != nil {
		return nil, err
	}

	evaluation.TotalScore = evaluation.ComputeTotal()
	return &evaluation, nil
}

// Update persists score changes to an evaluation
func (e *EvaluationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Save(evaluation).Error; err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}

	cache.InvalidateEvaluationCache(ctx, e.cacheManager, evaluation.RegistrationID)

	return nil
}

// Delete removes an evaluation
func (e *EvaluationPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx)

	var evaluation models.Evaluation
	if err := db.WithContext(ctx).Select("id, registration_id").First(&evaluation, id).Error; err != nil {
		if IsNotFoundError(err) {
			return gorm.ErrRecordNotFound
		}
		return fmt.Errorf("failed to get evaluation before delete: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.Evaluation{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}

	cache.InvalidateEvaluationCache(ctx, e.cacheManager, evaluation.RegistrationID)

	return nil
}

// Upsert inserts a fresh evaluation or updates the existing one keyed on registration_id
func (e *EvaluationPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error {
	db := e.getDB(tx)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "registration_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"leadership", "time_management", "prior_experience",
				"discipline", "academics", "attitude",
				"result", "evaluated_at", "updated_at",
			}),
		}).
		Create(evaluation).Error
	if err != nil {
		return fmt.Errorf("failed to upsert evaluation: %w", err)
	}

	cache.InvalidateEvaluationCache(ctx, e.cacheManager, evaluation.RegistrationID)

	return nil
}

// ===== QUERY OPERATIONS =====

// List retrieves evaluations joined with applicant identity for the admin review table
func (e *EvaluationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.EvaluationFilters) ([]*models.EvaluationRow, int64, error) {
	db := e.getDB(tx)

	query := db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Joins("JOIN registrations ON registrations.id = evaluations.registration_id AND registrations.deleted_at IS NULL")

	if filters.Result != nil {
		query = query.Where("evaluations.result = ?", *filters.Result)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count evaluations: %w", err)
	}

	sortBy := filters.SortBy
	allowedSortColumns := map[string]string{
		"evaluated_at": "evaluations.evaluated_at",
		"created_at":   "evaluations.created_at",
		"full_name":    "registrations.full_name",
		"uid":          "registrations.uid",
	}
	column, ok := allowedSortColumns[sortBy]
	if !ok {
		column = "evaluations.evaluated_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" || filters.SortOrder == "ASC" {
		order = "ASC"
	}
	query = query.Order(column + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var rows []*models.EvaluationRow
	if err := query.
		Select("evaluations.*, registrations.full_name AS full_name, registrations.uid AS uid").
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list evaluations: %w", err)
	}

	for _, row := range rows {
		row.TotalScore = row.ComputeTotal()
	}

	return rows, total, nil
}

// GetByRegistrationIDs fetches evaluations for a batch of registrations
func (e *EvaluationPostgreSQL) GetByRegistrationIDs(ctx context.Context, tx *gorm.DB, registrationIDs []uint) ([]*models.Evaluation, error) {
	if len(registrationIDs) == 0 {
		return nil, nil
	}

	db := e.getDB(tx)
	var evaluations []*models.Evaluation
	if err := db.WithContext(ctx).
		Where("registration_id IN ?", registrationIDs).
		Find(&evaluations).Error; err != nil {
		return nil, fmt.Errorf("failed to get evaluations for registrations: %w", err)
	}

	for _, evaluation := range evaluations {
		evaluation.TotalScore = evaluation.ComputeTotal()
	}

	return evaluations, nil
}

// ===== STATISTICS =====

// GetStats returns aggregate evaluation figures, with caching
func (e *EvaluationPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.EvaluationStats, error) {
	db := e.getDB(tx)
	var stats repositories.EvaluationStats

	err := e.cacheManager.Stats.CacheOrExecute(ctx, "evaluation:summary", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbStats repositories.EvaluationStats

		type resultCount struct {
			Result models.EvaluationResult
			Count  int64
		}
		var rows []resultCount
		if err := db.WithContext(ctx).
			Model(&models.Evaluation{}).
			Select("result, COUNT(*) as count").
			Group("result").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to count evaluations by result: %w", err)
		}

		for _, row := range rows {
			dbStats.TotalEvaluated += row.Count
			switch row.Result {
			case models.ResultSelected:
				dbStats.Selected = row.Count
			case models.ResultNotSelected:
				dbStats.NotSelected = row.Count
			default:
				dbStats.Undecided = row.Count
			}
		}

		var average struct{ Avg float64 }
		if err := db.WithContext(ctx).
			Model(&models.Evaluation{}).
			Select("COALESCE(AVG(leadership + time_management + prior_experience + discipline + academics + attitude), 0) as avg").
			Scan(&average).Error; err != nil {
			return nil, fmt.Errorf("failed to compute average evaluation total: %w", err)
		}
		dbStats.AverageTotal = average.Avg

		return &dbStats, nil
	})

	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (e *EvaluationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}
