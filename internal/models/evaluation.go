package models

import "time"

type EvaluationResult string

const (
	ResultUnset       EvaluationResult = ""
	ResultSelected    EvaluationResult = "selected"
	ResultNotSelected EvaluationResult = "notSelected"
)

// ValidResult reports whether r is a recognized evaluation outcome.
func ValidResult(r EvaluationResult) bool {
	switch r {
	case ResultUnset, ResultSelected, ResultNotSelected:
		return true
	}
	return false
}

// Criteria score caps. Leadership and time management weigh heavier than the
// remaining four.
const (
	MaxLeadership      = 20
	MaxTimeManagement  = 20
	MaxPriorExperience = 15
	MaxDiscipline      = 15
	MaxAcademics       = 15
	MaxAttitude        = 15
)

// CriteriaMax maps each scoring field name to its cap. Field names match the
// JSON keys accepted by the evaluation update endpoint.
var CriteriaMax = map[string]int{
	"leadership":      MaxLeadership,
	"priorExperience": MaxPriorExperience,
	"discipline":      MaxDiscipline,
	"academics":       MaxAcademics,
	"attitude":        MaxAttitude,
	"timeManagement":  MaxTimeManagement,
}

type Evaluation struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	RegistrationID uint `json:"registration_id" gorm:"uniqueIndex;not null"`

	Leadership      int `json:"leadership" gorm:"not null;default:0"`
	PriorExperience int `json:"priorExperience" gorm:"not null;default:0"`
	Discipline      int `json:"discipline" gorm:"not null;default:0"`
	Academics       int `json:"academics" gorm:"not null;default:0"`
	Attitude        int `json:"attitude" gorm:"not null;default:0"`
	TimeManagement  int `json:"timeManagement" gorm:"not null;default:0"`

	Result EvaluationResult `json:"result" gorm:"default:'';size:20"`

	EvaluatedAt time.Time `json:"evaluated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived on read, never stored
	TotalScore int `json:"total_score" gorm:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// ComputeTotal returns the sum of the six criteria scores.
func (e *Evaluation) ComputeTotal() int {
	return e.Leadership + e.PriorExperience + e.Discipline + e.Academics + e.Attitude + e.TimeManagement
}
