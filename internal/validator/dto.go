package validator

// RegistrationCreateRequest carries the multipart form fields of a submission.
// File slots (resume, sop, recommendationLetter) travel separately as upload
// headers and are validated by the file intake layer.
type RegistrationCreateRequest struct {
	FullName          string `form:"fullName" json:"fullName" validate:"required,max=200"`
	UID               string `form:"uid" json:"uid" validate:"required,max=50"`
	Cluster           string `form:"cluster" json:"cluster" validate:"required,max=100"`
	Institute         string `form:"institute" json:"institute" validate:"required,max=200"`
	PhoneNumber       string `form:"phoneNumber" json:"phoneNumber" validate:"required,intake_phone"`
	Email             string `form:"email" json:"email" validate:"required,email,max=255"`
	LeadershipRoles   string `form:"leadershipRoles" json:"leadershipRoles" validate:"required"`
	YourPosition      string `form:"yourPosition" json:"yourPosition" validate:"required,max=100"`
	OtherPositionName string `form:"otherPositionName" json:"otherPositionName" validate:"omitempty,max=100"`
	NameOfEntity      string `form:"nameOfEntity" json:"nameOfEntity" validate:"required,max=200"`
	LinkedinAccount   string `form:"linkedinAccount" json:"linkedinAccount" validate:"required,url,max=500"`

	// JSON-encoded array of acknowledgment booleans
	Terms string `form:"terms" json:"terms" validate:"required"`
}

// StatusUpdateRequest changes a registration's lifecycle state.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,registration_status"`
}

// EvaluationUpdateRequest is a partial update: absent criteria are untouched.
// Scores are clamped into each field's range by the service, never rejected,
// so the criteria carry no numeric validation tags.
type EvaluationUpdateRequest struct {
	Leadership      *int    `json:"leadership"`
	PriorExperience *int    `json:"priorExperience"`
	Discipline      *int    `json:"discipline"`
	Academics       *int    `json:"academics"`
	Attitude        *int    `json:"attitude"`
	TimeManagement  *int    `json:"timeManagement"`
	Result          *string `json:"result" validate:"omitempty,evaluation_result"`
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}
