package postgres

import (
	"errors"
	"strings"

	"github.com/AAC-Team/registration-service/internal/repositories"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyRegistrationFilters applies common filters to registration queries
func (h *SharedHelpers) ApplyRegistrationFilters(query *gorm.DB, filters repositories.RegistrationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Cluster != nil {
		query = query.Where("cluster = ?", *filters.Cluster)
	}
	if filters.Institute != nil {
		query = query.Where("institute = ?", *filters.Institute)
	}
	if filters.Search != "" {
		like := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(uid) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"submitted_at": true,
		"created_at":   true,
		"updated_at":   true,
		"id":           true,
		"full_name":    true,
		"uid":          true,
		"status":       true,
		"cluster":      true,
		"institute":    true,
	}

	// Validate and set sort column
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "submitted_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// IsNotFoundError reports whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique constraint violation
func IsDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
