package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/AAC-Team/registration-service/internal/events"
	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/repositories"
	"github.com/AAC-Team/registration-service/internal/repositories/postgres"
	"github.com/AAC-Team/registration-service/internal/storage"
	"github.com/AAC-Team/registration-service/internal/validator"
)

type registrationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	fileStore storage.FileStore
	publisher events.EventPublisher
}

func NewRegistrationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, fileStore storage.FileStore, publisher events.EventPublisher) RegistrationService {
	return &registrationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		fileStore: fileStore,
		publisher: publisher,
	}
}

// ===== INTAKE =====

func (s *registrationService) Submit(ctx context.Context, req *SubmitRegistrationRequest, files *RegistrationFiles) (*RegistrationResponse, error) {
	s.logger.Info("Processing registration submission", "uid", req.UID)

	// Field and format validation
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, NewValidationFailedError(errs.Error())
	}

	terms, err := parseTerms(req.Terms)
	if err != nil {
		return nil, err
	}

	// Email addresses are stored and compared lowercased
	email := strings.ToLower(req.Email)

	// File slots are all required
	if files == nil || files.Resume == nil || files.SOP == nil || files.RecommendationLetter == nil {
		return nil, NewValidationFailedError("validation failed: resume, sop and recommendationLetter files are required")
	}

	// Duplicate check before touching disk
	if exists, err := s.repo.Registration().ExistsByUID(ctx, nil, req.UID); err != nil {
		return nil, fmt.Errorf("failed to check uid uniqueness: %w", err)
	} else if exists {
		return nil, NewConflictError("uid", req.UID)
	}
	if exists, err := s.repo.Registration().ExistsByEmail(ctx, nil, email); err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	} else if exists {
		return nil, NewConflictError("email", email)
	}

	// Persist uploads; every stored file is removed again if anything later fails
	stored, err := s.storeFiles(files)
	if err != nil {
		return nil, err
	}

	registration := &models.Registration{
		FullName:             req.FullName,
		UID:                  req.UID,
		Cluster:              req.Cluster,
		Institute:            req.Institute,
		PhoneNumber:          req.PhoneNumber,
		Email:                email,
		LeadershipRoles:      req.LeadershipRoles,
		YourPosition:         req.YourPosition,
		NameOfEntity:         req.NameOfEntity,
		LinkedinAccount:      req.LinkedinAccount,
		Resume:               stored.resume,
		SOP:                  stored.sop,
		RecommendationLetter: stored.recommendationLetter,
		Terms:                terms,
		Status:               models.StatusPending,
		SubmittedAt:          time.Now().UTC(),
	}

	if req.OtherPositionName != "" {
		registration.OtherPositionName = &req.OtherPositionName
	}

	if err := s.repo.Registration().Create(ctx, nil, registration); err != nil {
		s.cleanupFiles(ctx, stored)
		// A concurrent submission may win the unique constraint race
		if postgres.IsDuplicateKeyError(err) {
			return nil, NewConflictError("uid or email", req.UID)
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.publishSubmitted(ctx, registration)

	s.logger.Info("Registration submitted",
		"registration_id", registration.ID,
		"uid", registration.UID)

	return &RegistrationResponse{Registration: registration}, nil
}

// parseTerms decodes the JSON terms field and enforces that every
// acknowledgment was accepted.
func parseTerms(raw string) (datatypes.JSON, error) {
	var terms []bool
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		return nil, NewValidationFailedError("validation failed: terms must be a JSON array of booleans")
	}
	if len(terms) != models.TermsCount {
		return nil, NewValidationFailedError(fmt.Sprintf("validation failed: terms must hold exactly %d acknowledgments", models.TermsCount))
	}
	for _, accepted := range terms {
		if !accepted {
			return nil, NewValidationFailedError("validation failed: all terms must be accepted")
		}
	}
	encoded, err := json.Marshal(terms)
	if err != nil {
		return nil, fmt.Errorf("failed to encode terms: %w", err)
	}
	return datatypes.JSON(encoded), nil
}

type storedFiles struct {
	resume               string
	sop                  string
	recommendationLetter string
}

func (s *registrationService) storeFiles(files *RegistrationFiles) (*storedFiles, error) {
	stored := &storedFiles{}

	slots := []struct {
		header *multipart.FileHeader
		field  string
		dest   *string
	}{
		{files.Resume, "resume", &stored.resume},
		{files.SOP, "sop", &stored.sop},
		{files.RecommendationLetter, "recommendationLetter", &stored.recommendationLetter},
	}

	for _, slot := range slots {
		name, err := s.fileStore.Save(slot.header, slot.field)
		if err != nil {
			s.cleanupFiles(context.Background(), stored)
			switch {
			case errors.Is(err, storage.ErrFileTooLarge):
				return nil, NewPayloadTooLargeError(slot.field, storage.MaxFileSize)
			case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrMissingFile):
				return nil, NewValidationFailedError(fmt.Sprintf("validation failed: %s: %v", slot.field, err))
			}
			return nil, fmt.Errorf("failed to store %s: %w", slot.field, err)
		}
		*slot.dest = name
	}

	return stored, nil
}

func (s *registrationService) cleanupFiles(ctx context.Context, stored *storedFiles) {
	for _, name := range []string{stored.resume, stored.sop, stored.recommendationLetter} {
		if name == "" {
			continue
		}
		if err := s.fileStore.Remove(name); err != nil {
			s.logger.ErrorContext(ctx, "Failed to clean up stored file", "file", name, "error", err)
		}
	}
}

func (s *registrationService) publishSubmitted(ctx context.Context, registration *models.Registration) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.TypeRegistrationSubmitted, events.RegistrationSubmittedEvent{
		RegistrationID: registration.ID,
		FullName:       registration.FullName,
		UID:            registration.UID,
		Email:          registration.Email,
		Institute:      registration.Institute,
	})

	// Notification delivery must never fail a submission
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish submission event",
			"registration_id", registration.ID,
			"error", err)
	}
}

// ===== QUERIES =====

func (s *registrationService) GetByID(ctx context.Context, id uint) (*RegistrationResponse, error) {
	registration, err := s.repo.Registration().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("registration", id)
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &RegistrationResponse{Registration: registration}, nil
}

func (s *registrationService) List(ctx context.Context, params models.ListRegistrationsParams) (*RegistrationListResponse, error) {
	page, size := normalizePage(params.Page, params.Size)

	filters := repositories.RegistrationFilters{
		Search:    params.Search,
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    params.SortBy,
		SortOrder: params.SortDir,
	}
	if params.Cluster != "" {
		cluster := params.Cluster
		filters.Cluster = &cluster
	}
	if params.Institute != "" {
		institute := params.Institute
		filters.Institute = &institute
	}
	if params.Status != "" {
		if !models.ValidStatus(params.Status) {
			return nil, NewValidationFailedError(fmt.Sprintf("validation failed: unknown status %q", params.Status))
		}
		status := params.Status
		filters.Status = &status
	}

	registrations, total, err := s.repo.Registration().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	summaries := make([]models.RegistrationSummary, len(registrations))
	for i, registration := range registrations {
		summaries[i] = registration.Summary()
	}

	return &RegistrationListResponse{
		Registrations: summaries,
		Pagination:    buildPagination(total, page, size),
	}, nil
}

// ===== STATUS WORKFLOW =====

func (s *registrationService) UpdateStatus(ctx context.Context, id uint, req *UpdateStatusRequest) (*RegistrationResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, NewValidationFailedError(errs.Error())
	}

	status := models.RegistrationStatus(req.Status)

	registration, err := s.repo.Registration().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("registration", id)
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	oldStatus := registration.Status
	if oldStatus == status {
		return &RegistrationResponse{Registration: registration}, nil
	}

	if err := s.repo.Registration().UpdateStatus(ctx, nil, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("registration", id)
		}
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}
	registration.Status = status

	s.publishStatusChanged(ctx, registration, oldStatus)

	s.logger.Info("Registration status updated",
		"registration_id", id,
		"old_status", oldStatus,
		"new_status", status)

	return &RegistrationResponse{Registration: registration}, nil
}

func (s *registrationService) publishStatusChanged(ctx context.Context, registration *models.Registration, oldStatus models.RegistrationStatus) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.TypeRegistrationStatusChanged, events.RegistrationStatusChangedEvent{
		RegistrationID: registration.ID,
		FullName:       registration.FullName,
		Email:          registration.Email,
		OldStatus:      string(oldStatus),
		NewStatus:      string(registration.Status),
	})

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish status change event",
			"registration_id", registration.ID,
			"error", err)
	}
}

// ===== STATISTICS =====

func (s *registrationService) Statistics(ctx context.Context) (*models.RegistrationStatistics, error) {
	stats, err := s.repo.Registration().GetStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration statistics: %w", err)
	}

	return &models.RegistrationStatistics{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Approved: stats.Approved,
		Rejected: stats.Rejected,
	}, nil
}

// ===== SHARED HELPERS =====

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func buildPagination(total int64, page, size int) models.Pagination {
	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return models.Pagination{
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
