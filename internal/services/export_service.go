package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/repositories"
)

const exportSheetName = "Registrations"

// exportBatchSize bounds how many rows are pulled per query while streaming
// the workbook together.
const exportBatchSize = 500

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportRegistrations renders the registration table as an xlsx workbook.
func (s *exportService) ExportRegistrations(ctx context.Context, params models.ListRegistrationsParams) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheetName)

	headers := []string{
		"ID", "Full Name", "UID", "Cluster", "Institute", "Phone Number",
		"Email", "Position", "Entity", "LinkedIn", "Status", "Submitted At",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	filters := repositories.RegistrationFilters{
		Search:    params.Search,
		SortBy:    params.SortBy,
		SortOrder: params.SortDir,
		Limit:     exportBatchSize,
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

	row := 2
	for offset := 0; ; offset += exportBatchSize {
		filters.Offset = offset
		registrations, _, err := s.repo.Registration().List(ctx, nil, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list registrations for export: %w", err)
		}
		if len(registrations) == 0 {
			break
		}

		for _, registration := range registrations {
			values := []interface{}{
				registration.ID,
				registration.FullName,
				registration.UID,
				registration.Cluster,
				registration.Institute,
				registration.PhoneNumber,
				registration.Email,
				registration.YourPosition,
				registration.NameOfEntity,
				registration.LinkedinAccount,
				string(registration.Status),
				registration.SubmittedAt.Format("2006-01-02 15:04:05"),
			}
			for i, value := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return nil, fmt.Errorf("failed to build cell: %w", err)
				}
				if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
					return nil, fmt.Errorf("failed to write cell: %w", err)
				}
			}
			row++
		}

		if len(registrations) < exportBatchSize {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Registrations exported", "rows", row-2)

	return buf.Bytes(), nil
}
