package services

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/repositories"
)

// MockRepository for testing - in-memory implementation backed by maps
type MockRepository struct {
	registrations *MockRegistrationRepository
	evaluations   *MockEvaluationRepository
	admins        *MockAdminRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		registrations: &MockRegistrationRepository{byID: make(map[uint]*models.Registration)},
		evaluations:   &MockEvaluationRepository{byRegistration: make(map[uint]*models.Evaluation)},
		admins:        &MockAdminRepository{byID: make(map[uint]*models.Admin)},
	}
}

func (m *MockRepository) Registration() repositories.RegistrationRepository { return m.registrations }
func (m *MockRepository) Evaluation() repositories.EvaluationRepository     { return m.evaluations }
func (m *MockRepository) Admin() repositories.AdminRepository               { return m.admins }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// ===== REGISTRATIONS =====

type MockRegistrationRepository struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.Registration

	// CreateErr forces the next Create call to fail
	CreateErr error
}

func (m *MockRegistrationRepository) Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		err := m.CreateErr
		m.CreateErr = nil
		return err
	}
	m.nextID++
	registration.ID = m.nextID
	clone := *registration
	m.byID[registration.ID] = &clone
	return nil
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	registration, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *registration
	return &clone, nil
}

func (m *MockRegistrationRepository) Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[registration.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *registration
	m.byID[registration.ID] = &clone
	return nil
}

func (m *MockRegistrationRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *MockRegistrationRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Registration
	for id := uint(1); id <= m.nextID; id++ {
		registration, ok := m.byID[id]
		if !ok {
			continue
		}
		if filters.Status != nil && registration.Status != *filters.Status {
			continue
		}
		if filters.Cluster != nil && registration.Cluster != *filters.Cluster {
			continue
		}
		if filters.Institute != nil && registration.Institute != *filters.Institute {
			continue
		}
		clone := *registration
		out = append(out, &clone)
	}
	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (m *MockRegistrationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.RegistrationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	registration, ok := m.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	registration.Status = status
	return nil
}

func (m *MockRegistrationRepository) ExistsByUID(ctx context.Context, tx *gorm.DB, uid string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, registration := range m.byID {
		if registration.UID == uid {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRegistrationRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, registration := range m.byID {
		if registration.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRegistrationRepository) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.RegistrationStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repositories.RegistrationStats{}
	for _, registration := range m.byID {
		stats.Total++
		switch registration.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// ===== EVALUATIONS =====

type MockEvaluationRepository struct {
	mu             sync.Mutex
	nextID         uint
	byRegistration map[uint]*models.Evaluation
}

func (m *MockEvaluationRepository) Create(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byRegistration[evaluation.RegistrationID]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	evaluation.ID = m.nextID
	clone := *evaluation
	m.byRegistration[evaluation.RegistrationID] = &clone
	return nil
}

func (m *MockEvaluationRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, evaluation := range m.byRegistration {
		if evaluation.ID == id {
			clone := *evaluation
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockEvaluationRepository) GetByRegistration(ctx context.Context, tx *gorm.DB, registrationID uint) (*models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	evaluation, ok := m.byRegistration[registrationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *evaluation
	clone.TotalScore = clone.ComputeTotal()
	return &clone, nil
}

func (m *MockEvaluationRepository) Update(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error {
	return m.Upsert(ctx, tx, evaluation)
}

func (m *MockEvaluationRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for registrationID, evaluation := range m.byRegistration {
		if evaluation.ID == id {
			delete(m.byRegistration, registrationID)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *MockEvaluationRepository) Upsert(ctx context.Context, tx *gorm.DB, evaluation *models.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byRegistration[evaluation.RegistrationID]; ok {
		evaluation.ID = existing.ID
	} else {
		m.nextID++
		evaluation.ID = m.nextID
	}
	clone := *evaluation
	m.byRegistration[evaluation.RegistrationID] = &clone
	return nil
}

func (m *MockEvaluationRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.EvaluationFilters) ([]*models.EvaluationRow, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*models.EvaluationRow
	for _, evaluation := range m.byRegistration {
		if filters.Result != nil && evaluation.Result != *filters.Result {
			continue
		}
		clone := *evaluation
		clone.TotalScore = clone.ComputeTotal()
		rows = append(rows, &models.EvaluationRow{Evaluation: clone})
	}
	return rows, int64(len(rows)), nil
}

func (m *MockEvaluationRepository) GetByRegistrationIDs(ctx context.Context, tx *gorm.DB, registrationIDs []uint) ([]*models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Evaluation
	for _, id := range registrationIDs {
		if evaluation, ok := m.byRegistration[id]; ok {
			clone := *evaluation
			clone.TotalScore = clone.ComputeTotal()
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MockEvaluationRepository) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.EvaluationStats, error) {
	return &repositories.EvaluationStats{}, nil
}

// ===== ADMINS =====

type MockAdminRepository struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.Admin
}

func (m *MockAdminRepository) Create(ctx context.Context, tx *gorm.DB, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == admin.Username {
			return errors.New("duplicate username")
		}
	}
	m.nextID++
	admin.ID = m.nextID
	clone := *admin
	m.byID[admin.ID] = &clone
	return nil
}

func (m *MockAdminRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admin, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *admin
	return &clone, nil
}

func (m *MockAdminRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, admin := range m.byID {
		if admin.Username == username {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockAdminRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}
