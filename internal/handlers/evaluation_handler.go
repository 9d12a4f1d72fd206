package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AAC-Team/registration-service/internal/services"
	"github.com/AAC-Team/registration-service/internal/utils"
)

type EvaluationHandler struct {
	BaseHandler
	service services.EvaluationService
}

func NewEvaluationHandler(service services.EvaluationService, logger utils.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListEvaluations returns approved registrations joined with their score sheets
// @Summary List evaluations
// @Tags evaluations
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param result query string false "Filter by result: selected, notSelected"
// @Success 200 {object} services.EvaluationListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/evaluations [get]
func (h *EvaluationHandler) ListEvaluations(c *gin.Context) {
	h.LogRequest(c, "Listing evaluations")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	resp, err := h.service.List(c.Request.Context(), services.EvaluationListParams{
		Page:   page,
		Size:   size,
		Result: c.Query("result"),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateEvaluation applies a partial score update for an approved registration
// @Summary Update an evaluation
// @Tags evaluations
// @Accept json
// @Produce json
// @Param registrationId path int true "Registration ID"
// @Success 200 {object} models.Evaluation
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Not found or not approved"
// @Router /admin/evaluations/{registrationId} [put]
func (h *EvaluationHandler) UpdateEvaluation(c *gin.Context) {
	registrationID := h.parseIDParam(c, "registrationId")
	if registrationID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid registration ID",
		})
		return
	}

	h.LogRequest(c, "Updating evaluation", "registration_id", registrationID)

	// Strict decode so an unrecognized criterion is an error instead of a
	// silently ignored no-op.
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	var req services.UpdateEvaluationRequest
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	evaluation, err := h.service.Update(c.Request.Context(), registrationID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}
