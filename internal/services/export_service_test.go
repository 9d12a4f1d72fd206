package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AAC-Team/registration-service/internal/models"
)

func TestExportService_ExportRegistrations(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	service := NewExportService(repo, testLogger())

	for i := 0; i < 3; i++ {
		registration := &models.Registration{
			FullName:    fmt.Sprintf("Applicant %d", i),
			UID:         fmt.Sprintf("AAC-%d", i),
			Email:       fmt.Sprintf("applicant%d@example.com", i),
			Status:      models.StatusPending,
			SubmittedAt: time.Now().UTC(),
		}
		if err := repo.Registration().Create(ctx, nil, registration); err != nil {
			t.Fatalf("seed registration: %v", err)
		}
	}

	data, err := service.ExportRegistrations(ctx, models.ListRegistrationsParams{})
	if err != nil {
		t.Fatalf("ExportRegistrations failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported bytes are not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Registrations")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][1] != "Full Name" {
		t.Errorf("unexpected header row %v", rows[0])
	}
	if rows[1][2] != "AAC-0" {
		t.Errorf("unexpected first data row %v", rows[1])
	}
}

func TestExportService_UnknownStatus(t *testing.T) {
	service := NewExportService(NewMockRepository(), testLogger())

	_, err := service.ExportRegistrations(context.Background(), models.ListRegistrationsParams{Status: "draft"})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected validation failure, got %v", err)
	}
}
