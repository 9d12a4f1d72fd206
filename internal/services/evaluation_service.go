package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/AAC-Team/registration-service/internal/events"
	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/repositories"
	"github.com/AAC-Team/registration-service/internal/validator"
)

type evaluationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEvaluationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) EvaluationService {
	return &evaluationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// GetOrCreate returns the evaluation sheet for an approved registration,
// creating a zero-valued one idempotently on first access.
func (s *evaluationService) GetOrCreate(ctx context.Context, registrationID uint) (*models.Evaluation, error) {
	if err := s.requireApproved(ctx, registrationID); err != nil {
		return nil, err
	}

	evaluation, err := s.repo.Evaluation().GetByRegistration(ctx, nil, registrationID)
	if err == nil {
		return evaluation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	fresh := &models.Evaluation{RegistrationID: registrationID}
	if err := s.repo.Evaluation().Create(ctx, nil, fresh); err != nil {
		// Another request may have created the sheet concurrently
		if existing, getErr := s.repo.Evaluation().GetByRegistration(ctx, nil, registrationID); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create evaluation: %w", err)
	}

	s.logger.Info("Evaluation sheet created", "registration_id", registrationID)
	fresh.TotalScore = fresh.ComputeTotal()
	return fresh, nil
}

// Update applies a partial score update. Provided criteria are clamped to
// [0, cap]; absent ones keep their stored values.
func (s *evaluationService) Update(ctx context.Context, registrationID uint, req *UpdateEvaluationRequest) (*models.Evaluation, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, NewValidationFailedError(errs.Error())
	}

	evaluation, err := s.GetOrCreate(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	applyCriterion(&evaluation.Leadership, req.Leadership, models.MaxLeadership)
	applyCriterion(&evaluation.PriorExperience, req.PriorExperience, models.MaxPriorExperience)
	applyCriterion(&evaluation.Discipline, req.Discipline, models.MaxDiscipline)
	applyCriterion(&evaluation.Academics, req.Academics, models.MaxAcademics)
	applyCriterion(&evaluation.Attitude, req.Attitude, models.MaxAttitude)
	applyCriterion(&evaluation.TimeManagement, req.TimeManagement, models.MaxTimeManagement)

	if req.Result != nil {
		result := models.EvaluationResult(*req.Result)
		if !models.ValidResult(result) {
			return nil, NewValidationFailedError(fmt.Sprintf("validation failed: unknown result %q", *req.Result))
		}
		evaluation.Result = result
	}

	evaluation.EvaluatedAt = time.Now().UTC()

	if err := s.repo.Evaluation().Upsert(ctx, nil, evaluation); err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	evaluation.TotalScore = evaluation.ComputeTotal()

	s.publishRecorded(ctx, evaluation)

	s.logger.Info("Evaluation updated",
		"registration_id", registrationID,
		"total_score", evaluation.TotalScore,
		"result", evaluation.Result)

	return evaluation, nil
}

// List returns approved registrations joined with their evaluation sheets,
// creating missing sheets lazily so the admin table is always complete. A
// result filter narrows to already-decided sheets instead.
func (s *evaluationService) List(ctx context.Context, params EvaluationListParams) (*EvaluationListResponse, error) {
	page, size := normalizePage(params.Page, params.Size)

	if params.Result != "" {
		return s.listByResult(ctx, params.Result, page, size)
	}

	approved := models.StatusApproved
	registrations, total, err := s.repo.Registration().List(ctx, nil, repositories.RegistrationFilters{
		Status: &approved,
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list approved registrations: %w", err)
	}

	ids := make([]uint, len(registrations))
	for i, registration := range registrations {
		ids[i] = registration.ID
	}

	evaluations, err := s.repo.Evaluation().GetByRegistrationIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluations: %w", err)
	}
	byRegistration := make(map[uint]*models.Evaluation, len(evaluations))
	for _, evaluation := range evaluations {
		byRegistration[evaluation.RegistrationID] = evaluation
	}

	rows := make([]*models.EvaluationRow, 0, len(registrations))
	for _, registration := range registrations {
		evaluation, ok := byRegistration[registration.ID]
		if !ok {
			evaluation, err = s.GetOrCreate(ctx, registration.ID)
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, &models.EvaluationRow{
			FullName:   registration.FullName,
			UID:        registration.UID,
			Evaluation: *evaluation,
		})
	}

	return &EvaluationListResponse{
		Evaluations: rows,
		Pagination:  buildPagination(total, page, size),
	}, nil
}

func (s *evaluationService) listByResult(ctx context.Context, result string, page, size int) (*EvaluationListResponse, error) {
	parsed := models.EvaluationResult(result)
	if !models.ValidResult(parsed) {
		return nil, NewValidationFailedError(fmt.Sprintf("validation failed: unknown result %q", result))
	}

	rows, total, err := s.repo.Evaluation().List(ctx, nil, repositories.EvaluationFilters{
		Result: &parsed,
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	return &EvaluationListResponse{
		Evaluations: rows,
		Pagination:  buildPagination(total, page, size),
	}, nil
}

// requireApproved maps a missing or non-approved registration to NotFoundError.
func (s *evaluationService) requireApproved(ctx context.Context, registrationID uint) error {
	registration, err := s.repo.Registration().GetByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("registration", registrationID)
		}
		return fmt.Errorf("failed to get registration: %w", err)
	}
	if registration.Status != models.StatusApproved {
		return NewNotFoundError("approved registration", registrationID)
	}
	return nil
}

func applyCriterion(dest *int, value *int, max int) {
	if value == nil {
		return
	}
	score := *value
	if score < 0 {
		score = 0
	}
	if score > max {
		score = max
	}
	*dest = score
}

func (s *evaluationService) publishRecorded(ctx context.Context, evaluation *models.Evaluation) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.TypeEvaluationRecorded, events.EvaluationRecordedEvent{
		RegistrationID: evaluation.RegistrationID,
		TotalScore:     evaluation.TotalScore,
		Result:         string(evaluation.Result),
	})

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish evaluation event",
			"registration_id", evaluation.RegistrationID,
			"error", err)
	}
}
