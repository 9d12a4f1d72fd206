package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type SubmitRegistrationRequest = validator.RegistrationCreateRequest
type UpdateStatusRequest = validator.StatusUpdateRequest
type UpdateEvaluationRequest = validator.EvaluationUpdateRequest
type LoginRequest = validator.LoginRequest

// RegistrationFiles holds the three required document slots of a submission.
type RegistrationFiles struct {
	Resume               *multipart.FileHeader
	SOP                  *multipart.FileHeader
	RecommendationLetter *multipart.FileHeader
}

type RegistrationResponse struct {
	*models.Registration
}

type RegistrationListResponse struct {
	Registrations []models.RegistrationSummary `json:"registrations"`
	Pagination    models.Pagination            `json:"pagination"`
}

// EvaluationListParams filters the admin scoring table. Result narrows to a
// decided outcome when set.
type EvaluationListParams struct {
	Page   int    `json:"page"`
	Size   int    `json:"size"`
	Result string `json:"result"`
}

type EvaluationListResponse struct {
	Evaluations []*models.EvaluationRow `json:"evaluations"`
	Pagination  models.Pagination       `json:"pagination"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// TokenClaims is what Verify returns to the auth middleware.
type TokenClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
}

// ===== SERVICE INTERFACES =====

type RegistrationService interface {
	// Intake
	Submit(ctx context.Context, req *SubmitRegistrationRequest, files *RegistrationFiles) (*RegistrationResponse, error)

	// Queries
	GetByID(ctx context.Context, id uint) (*RegistrationResponse, error)
	List(ctx context.Context, params models.ListRegistrationsParams) (*RegistrationListResponse, error)

	// Status workflow
	UpdateStatus(ctx context.Context, id uint, req *UpdateStatusRequest) (*RegistrationResponse, error)

	// Statistics
	Statistics(ctx context.Context) (*models.RegistrationStatistics, error)
}

type EvaluationService interface {
	// GetOrCreate returns the evaluation sheet for an approved registration,
	// creating a zero-valued one on first access.
	GetOrCreate(ctx context.Context, registrationID uint) (*models.Evaluation, error)

	// Update applies a partial score update with clamping and recomputes the total.
	Update(ctx context.Context, registrationID uint, req *UpdateEvaluationRequest) (*models.Evaluation, error)

	// List returns approved registrations joined with their evaluation sheets.
	List(ctx context.Context, params EvaluationListParams) (*EvaluationListResponse, error)
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest, sourceIP string) (*LoginResponse, error)
	Verify(tokenString string) (*TokenClaims, error)
	Profile(ctx context.Context, adminID uint) (*models.Admin, error)

	// EnsureBootstrapAdmin seeds a default admin account when none exists.
	EnsureBootstrapAdmin(ctx context.Context) error
}

type ExportService interface {
	// ExportRegistrations renders the admin registration table as an xlsx
	// workbook and returns the serialized bytes.
	ExportRegistrations(ctx context.Context, params models.ListRegistrationsParams) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Registration() RegistrationService
	Evaluation() EvaluationService
	Auth() AuthService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
