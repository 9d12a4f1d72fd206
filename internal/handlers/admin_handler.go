package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/services"
	"github.com/AAC-Team/registration-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	registrations services.RegistrationService
	auth          services.AuthService
	export        services.ExportService
}

func NewAdminHandler(registrations services.RegistrationService, auth services.AuthService, export services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		registrations: registrations,
		auth:          auth,
		export:        export,
	}
}

// ===== AUTH ENDPOINTS =====

// Login authenticates an admin and issues a bearer token
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} services.LoginResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Admin login attempt")

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Profile returns the authenticated admin's account
// @Summary Admin profile
// @Tags admin
// @Produce json
// @Success 200 {object} models.Admin
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/profile [get]
func (h *AdminHandler) Profile(c *gin.Context) {
	adminID, exists := c.Get("admin_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Admin not authenticated",
		})
		return
	}

	admin, err := h.auth.Profile(c.Request.Context(), adminID.(uint))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// ===== REGISTRATION MANAGEMENT =====

// ListRegistrations returns a paginated admin view of submissions
// @Summary List registrations
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by status: pending, approved, rejected"
// @Param cluster query string false "Filter by cluster"
// @Param institute query string false "Filter by institute"
// @Param search query string false "Match against name, UID or email"
// @Param sort_by query string false "Sort by: submitted_at, full_name, status (default: submitted_at)"
// @Param sort_dir query string false "Sort direction: asc, desc (default: desc)"
// @Success 200 {object} services.RegistrationListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/registrations [get]
func (h *AdminHandler) ListRegistrations(c *gin.Context) {
	h.LogRequest(c, "Listing registrations")

	params := h.parseListParams(c)

	resp, err := h.registrations.List(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateRegistrationStatus moves a registration through the review workflow
// @Summary Update registration status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Registration ID"
// @Success 200 {object} services.RegistrationResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/registrations/{id}/status [patch]
func (h *AdminHandler) UpdateRegistrationStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid registration ID",
		})
		return
	}

	h.LogRequest(c, "Updating registration status", "registration_id", id)

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.registrations.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStatistics returns submission counts grouped by status
// @Summary Registration statistics
// @Tags admin
// @Produce json
// @Success 200 {object} models.RegistrationStatistics
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/statistics [get]
func (h *AdminHandler) GetStatistics(c *gin.Context) {
	h.LogRequest(c, "Getting registration statistics")

	stats, err := h.registrations.Statistics(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportRegistrations streams the registration table as an xlsx workbook
// @Summary Export registrations
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by status: pending, approved, rejected"
// @Param cluster query string false "Filter by cluster"
// @Param institute query string false "Filter by institute"
// @Param search query string false "Match against name, UID or email"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/registrations/export [get]
func (h *AdminHandler) ExportRegistrations(c *gin.Context) {
	h.LogRequest(c, "Exporting registrations")

	params := h.parseListParams(c)

	data, err := h.export.ExportRegistrations(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("registrations-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== HELPERS =====

func (h *AdminHandler) parseListParams(c *gin.Context) models.ListRegistrationsParams {
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

	return models.ListRegistrationsParams{
		Page:      page,
		Size:      size,
		Status:    models.RegistrationStatus(c.Query("status")),
		Cluster:   c.Query("cluster"),
		Institute: c.Query("institute"),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "submitted_at"),
		SortDir:   c.DefaultQuery("sort_dir", "desc"),
	}
}
