package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusApproved RegistrationStatus = "approved"
	StatusRejected RegistrationStatus = "rejected"
)

// ValidStatus reports whether s is one of the three recognized lifecycle states.
func ValidStatus(s RegistrationStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// TermsCount is the fixed number of acknowledgments every applicant must accept.
const TermsCount = 4

type Registration struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Student details
	FullName    string `json:"full_name" gorm:"not null;size:200"`
	UID         string `json:"uid" gorm:"uniqueIndex;not null;size:50"`
	Cluster     string `json:"cluster" gorm:"not null;size:100"`
	Institute   string `json:"institute" gorm:"not null;size:200"`
	PhoneNumber string `json:"phone_number" gorm:"not null;size:20"`
	Email       string `json:"email" gorm:"uniqueIndex;not null;size:255"`

	// Experience
	LeadershipRoles   string  `json:"leadership_roles" gorm:"type:text;not null"`
	YourPosition      string  `json:"your_position" gorm:"not null;size:100"`
	OtherPositionName *string `json:"other_position_name" gorm:"size:100"`
	NameOfEntity      string  `json:"name_of_entity" gorm:"not null;size:200"`
	LinkedinAccount   string  `json:"linkedin_account" gorm:"not null;size:500"`

	// Attachments: stored filenames under the upload directory
	Resume               string `json:"resume" gorm:"not null;size:255"`
	SOP                  string `json:"sop" gorm:"not null;size:255"`
	RecommendationLetter string `json:"recommendation_letter" gorm:"not null;size:255"`

	// Ordered acknowledgment flags, all must be true at submission
	Terms datatypes.JSON `json:"terms" gorm:"not null"`

	Status RegistrationStatus `json:"status" gorm:"default:pending;index;size:20"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Registration) TableName() string {
	return "registrations"
}

// BeforeSave normalizes the email so the unique index compares case-insensitively.
func (r *Registration) BeforeSave(tx *gorm.DB) error {
	r.Email = strings.ToLower(r.Email)
	return nil
}

// TermsAccepted decodes the stored terms array and reports whether it holds
// exactly TermsCount acknowledgments, all true.
func (r *Registration) TermsAccepted() bool {
	var terms []bool
	if err := json.Unmarshal(r.Terms, &terms); err != nil {
		return false
	}
	if len(terms) != TermsCount {
		return false
	}
	for _, t := range terms {
		if !t {
			return false
		}
	}
	return true
}
