package repositories

import (
	"time"

	"github.com/AAC-Team/registration-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type RegistrationFilters struct {
	Status    *models.RegistrationStatus `json:"status"`
	Cluster   *string                    `json:"cluster"`
	Institute *string                    `json:"institute"`
	Search    string                     `json:"search"` // matches full name, uid, email
	DateFrom  *time.Time                 `json:"date_from"`
	DateTo    *time.Time                 `json:"date_to"`
	Limit     int                        `json:"limit"`
	Offset    int                        `json:"offset"`
	SortBy    string                     `json:"sort_by"`    // "submitted_at", "full_name", "uid"
	SortOrder string                     `json:"sort_order"` // "asc", "desc"
}

type EvaluationFilters struct {
	Result    *models.EvaluationResult `json:"result"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`
	SortOrder string                   `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type RegistrationStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type EvaluationStats struct {
	TotalEvaluated int64   `json:"total_evaluated"`
	Selected       int64   `json:"selected"`
	NotSelected    int64   `json:"not_selected"`
	Undecided      int64   `json:"undecided"`
	AverageTotal   float64 `json:"average_total"`
}
