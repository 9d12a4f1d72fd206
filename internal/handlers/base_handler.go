package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AAC-Team/registration-service/internal/services"
	"github.com/AAC-Team/registration-service/internal/utils"
)

// ErrorResponse is the uniform error body returned by every handler.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries the request-scoped logging helpers shared by all
// handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a handler entry with the request id attached by the
// ContextLogger middleware.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	h.requestLogger(c).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	h.requestLogger(c).Error(msg, args...)
}

func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	if v, exists := c.Get("logger"); exists {
		if l, ok := v.(utils.Logger); ok {
			return l
		}
	}
	return h.logger
}

// parseIDParam reads a positive integer path parameter, returning 0 when the
// value is absent or malformed.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0
	}
	return uint(id)
}

// ===== ERROR HANDLING =====

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Map service errors to HTTP status codes
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Duplicate submission",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: "Uploaded file too large",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Message: "Too many attempts",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
