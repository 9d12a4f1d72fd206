package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AAC-Team/registration-service/internal/ratelimit"
	"github.com/AAC-Team/registration-service/internal/services"
	"github.com/AAC-Team/registration-service/internal/utils"
	"github.com/AAC-Team/registration-service/internal/validator"
)

type HandlerManager struct {
	registrationHandler *RegistrationHandler
	adminHandler        *AdminHandler
	evaluationHandler   *EvaluationHandler
	authMiddleware      *AdminAuthMiddleware
	serviceManager      services.ServiceManager

	// Throttles public form submissions per source IP. Login throttling is
	// enforced inside the auth service so failed attempts count even when
	// requests arrive through differing paths.
	submitLimiter *ratelimit.Limiter
	slogger       *slog.Logger

	// Directory served under /uploads for stored applicant documents.
	uploadDir string
}

type HandlerManagerConfig struct {
	SubmitLimiter *ratelimit.Limiter
	Slogger       *slog.Logger
	UploadDir     string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	cfg HandlerManagerConfig,
) *HandlerManager {
	return &HandlerManager{
		registrationHandler: NewRegistrationHandler(serviceManager.Registration(), validator, logger),
		adminHandler:        NewAdminHandler(serviceManager.Registration(), serviceManager.Auth(), serviceManager.Export(), logger),
		evaluationHandler:   NewEvaluationHandler(serviceManager.Evaluation(), logger),
		authMiddleware:      NewAdminAuthMiddleware(serviceManager.Auth()),
		serviceManager:      serviceManager,
		submitLimiter:       cfg.SubmitLimiter,
		slogger:             cfg.Slogger,
		uploadDir:           cfg.UploadDir,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.HealthCheck)

	// Stored applicant documents
	if hm.uploadDir != "" {
		router.Static("/uploads", hm.uploadDir)
	}

	v1 := router.Group("/api/v1")
	{
		// Public applicant routes
		registrations := v1.Group("/registrations")
		{
			if hm.submitLimiter != nil {
				registrations.POST("", ratelimit.Middleware(hm.submitLimiter, hm.slogger), hm.registrationHandler.SubmitRegistration)
			} else {
				registrations.POST("", hm.registrationHandler.SubmitRegistration)
			}
			registrations.GET("/:id", hm.registrationHandler.GetRegistration)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.POST("/login", hm.adminHandler.Login)

			authed := admin.Group("")
			authed.Use(hm.authMiddleware.AuthMiddleware())
			{
				authed.GET("/profile", hm.adminHandler.Profile)

				authed.GET("/registrations", hm.adminHandler.ListRegistrations)
				authed.GET("/registrations/export", hm.adminHandler.ExportRegistrations)
				authed.GET("/registrations/:id", hm.registrationHandler.GetRegistration)
				authed.PATCH("/registrations/:id/status", hm.adminHandler.UpdateRegistrationStatus)

				authed.GET("/statistics", hm.adminHandler.GetStatistics)

				authed.GET("/evaluations", hm.evaluationHandler.ListEvaluations)
				authed.PUT("/evaluations/:registrationId", hm.evaluationHandler.UpdateEvaluation)
			}
		}
	}
}

// HealthCheck reports service and dependency health
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "registration-service",
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "registration-service",
	})
}
