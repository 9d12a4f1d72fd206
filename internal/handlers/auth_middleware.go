package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AAC-Team/registration-service/internal/services"
)

// AdminAuthMiddleware authenticates admin requests with bearer tokens issued
// by the auth service.
type AdminAuthMiddleware struct {
	auth services.AuthService
}

func NewAdminAuthMiddleware(auth services.AuthService) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{auth: auth}
}

// AuthMiddleware returns a Gin middleware function that validates the token
// and exposes the admin identity through the request context.
func (am *AdminAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authorization header missing",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := am.auth.Verify(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired token",
			})
			c.Abort()
			return
		}

		// Set admin information in context
		c.Set("admin_id", claims.AdminID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
