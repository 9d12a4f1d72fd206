package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/services"
	"github.com/AAC-Team/registration-service/internal/utils"
	"github.com/AAC-Team/registration-service/internal/validator"
)

type stubRegistrationService struct {
	submitted int
}

func (s *stubRegistrationService) Submit(ctx context.Context, req *services.SubmitRegistrationRequest, files *services.RegistrationFiles) (*services.RegistrationResponse, error) {
	s.submitted++
	return &services.RegistrationResponse{Registration: &models.Registration{ID: 1, UID: req.UID}}, nil
}

func (s *stubRegistrationService) GetByID(ctx context.Context, id uint) (*services.RegistrationResponse, error) {
	return nil, services.NewNotFoundError("registration", id)
}

func (s *stubRegistrationService) List(ctx context.Context, params models.ListRegistrationsParams) (*services.RegistrationListResponse, error) {
	return &services.RegistrationListResponse{}, nil
}

func (s *stubRegistrationService) UpdateStatus(ctx context.Context, id uint, req *services.UpdateStatusRequest) (*services.RegistrationResponse, error) {
	return nil, services.NewNotFoundError("registration", id)
}

func (s *stubRegistrationService) Statistics(ctx context.Context) (*models.RegistrationStatistics, error) {
	return &models.RegistrationStatistics{}, nil
}

func newSubmitRequest(t *testing.T, extraFiles []string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("uid", "AAC-2031"); err != nil {
		t.Fatalf("failed to write form field: %v", err)
	}
	slots := append([]string{"resume", "sop", "recommendationLetter"}, extraFiles...)
	for _, slot := range slots {
		part, err := writer.CreateFormFile(slot, slot+".pdf")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("document body")); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/registrations", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestRegistrationHandler_SubmitFileCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	t.Run("rejects more uploads than document slots", func(t *testing.T) {
		service := &stubRegistrationService{}
		handler := NewRegistrationHandler(service, validator.New(), logger)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = newSubmitRequest(t, []string{"extra"})

		handler.SubmitRegistration(c)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", recorder.Code)
		}
		var resp ErrorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !strings.Contains(resp.Details, "too many files") {
			t.Errorf("details should mention the file cap, got %q", resp.Details)
		}
		if service.submitted != 0 {
			t.Errorf("service should not be called, got %d submissions", service.submitted)
		}
	})

	t.Run("three uploads reach the service", func(t *testing.T) {
		service := &stubRegistrationService{}
		handler := NewRegistrationHandler(service, validator.New(), logger)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = newSubmitRequest(t, nil)

		handler.SubmitRegistration(c)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", recorder.Code)
		}
		if service.submitted != 1 {
			t.Errorf("expected one submission, got %d", service.submitted)
		}
	})
}
