package models

import "time"

// ===== PAGINATION & FILTERING =====

type ListRegistrationsParams struct {
	Page      int                `json:"page" validate:"min=0"`
	Size      int                `json:"size" validate:"min=1,max=100"`
	Status    RegistrationStatus `json:"status"`
	Cluster   string             `json:"cluster"`
	Institute string             `json:"institute"`
	Search    string             `json:"search"`
	SortBy    string             `json:"sort_by"`
	SortDir   string             `json:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
}

// ===== ADMIN VIEW DTOs =====

// RegistrationSummary is the admin listing row: the full record minus the
// terms array, matching what the dashboard table renders.
type RegistrationSummary struct {
	ID                   uint               `json:"id"`
	FullName             string             `json:"full_name"`
	UID                  string             `json:"uid"`
	Cluster              string             `json:"cluster"`
	Institute            string             `json:"institute"`
	PhoneNumber          string             `json:"phone_number"`
	Email                string             `json:"email"`
	YourPosition         string             `json:"your_position"`
	NameOfEntity         string             `json:"name_of_entity"`
	LinkedinAccount      string             `json:"linkedin_account"`
	Resume               string             `json:"resume"`
	SOP                  string             `json:"sop"`
	RecommendationLetter string             `json:"recommendation_letter"`
	Status               RegistrationStatus `json:"status"`
	SubmittedAt          time.Time          `json:"submitted_at"`
}

// Summary projects a registration into its admin listing shape.
func (r *Registration) Summary() RegistrationSummary {
	return RegistrationSummary{
		ID:                   r.ID,
		FullName:             r.FullName,
		UID:                  r.UID,
		Cluster:              r.Cluster,
		Institute:            r.Institute,
		PhoneNumber:          r.PhoneNumber,
		Email:                r.Email,
		YourPosition:         r.YourPosition,
		NameOfEntity:         r.NameOfEntity,
		LinkedinAccount:      r.LinkedinAccount,
		Resume:               r.Resume,
		SOP:                  r.SOP,
		RecommendationLetter: r.RecommendationLetter,
		Status:               r.Status,
		SubmittedAt:          r.SubmittedAt,
	}
}

// EvaluationRow joins an approved applicant with its evaluation sheet for the
// admin scoring table.
type EvaluationRow struct {
	FullName string `json:"full_name"`
	UID      string `json:"uid"`
	Evaluation
}

// ===== STATISTICS =====

type RegistrationStatistics struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
