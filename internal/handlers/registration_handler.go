package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AAC-Team/registration-service/internal/services"
	"github.com/AAC-Team/registration-service/internal/storage"
	"github.com/AAC-Team/registration-service/internal/utils"
	"github.com/AAC-Team/registration-service/internal/validator"
)

type RegistrationHandler struct {
	BaseHandler
	service   services.RegistrationService
	validator *validator.Validator
}

func NewRegistrationHandler(service services.RegistrationService, validator *validator.Validator, logger utils.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// ===== PUBLIC ENDPOINTS =====

// SubmitRegistration accepts a multipart application form with three document
// uploads
// @Summary Submit a registration
// @Description Submit an applicant form with resume, statement of purpose and recommendation letter attachments
// @Tags registrations
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} services.RegistrationResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /registrations [post]
func (h *RegistrationHandler) SubmitRegistration(c *gin.Context) {
	h.LogRequest(c, "Submitting registration")

	var req services.SubmitRegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid form data",
			Details: err.Error(),
		})
		return
	}

	// Cap the raw upload count before inspecting the named slots
	if form, err := c.MultipartForm(); err == nil {
		total := 0
		for _, headers := range form.File {
			total += len(headers)
		}
		if total > storage.MaxFilesPerSubmission {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Validation failed",
				Details: storage.ErrTooManyFiles.Error(),
			})
			return
		}
	}

	files := &services.RegistrationFiles{}
	if f, err := c.FormFile("resume"); err == nil {
		files.Resume = f
	}
	if f, err := c.FormFile("sop"); err == nil {
		files.SOP = f
	}
	if f, err := c.FormFile("recommendationLetter"); err == nil {
		files.RecommendationLetter = f
	}

	registration, err := h.service.Submit(c.Request.Context(), &req, files)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// GetRegistration returns a single registration by its numeric id
// @Summary Get a registration
// @Tags registrations
// @Produce json
// @Param id path int true "Registration ID"
// @Success 200 {object} services.RegistrationResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid registration ID",
		})
		return
	}

	h.LogRequest(c, "Getting registration", "registration_id", id)

	registration, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}
