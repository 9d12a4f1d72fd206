package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/ratelimit"
	"github.com/AAC-Team/registration-service/internal/repositories"
	"github.com/AAC-Team/registration-service/internal/validator"
)

// Bootstrap credentials seeded when the admin table is empty. Rotate the
// password immediately after first login.
const (
	bootstrapAdminUsername = "admin"
	bootstrapAdminPassword = "admin123"
	bootstrapAdminEmail    = "admin@example.com"
)

// adminClaims is the JWT payload issued on login.
type adminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type authService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	limiter    *ratelimit.Limiter
	signingKey []byte
	expiry     time.Duration
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, limiter *ratelimit.Limiter, jwtSecret string, expiry time.Duration) AuthService {
	return &authService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		limiter:    limiter,
		signingKey: []byte(jwtSecret),
		expiry:     expiry,
	}
}

// Login authenticates an admin. The rate limit is consumed before credentials
// are checked so lockout applies regardless of password correctness, and the
// failure response never reveals whether the username or the password was wrong.
func (s *authService) Login(ctx context.Context, req *LoginRequest, sourceIP string) (*LoginResponse, error) {
	if s.limiter != nil {
		result, err := s.limiter.Allow(ctx, sourceIP)
		if err != nil {
			// A broken limiter must not lock every admin out
			s.logger.ErrorContext(ctx, "Rate limit check failed", "error", err)
		} else if !result.Allowed {
			s.logger.WarnContext(ctx, "Login rate limit exceeded", "source_ip", sourceIP)
			return nil, NewRateLimitError(result.RetryAfter)
		}
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, NewAuthError()
	}

	admin, err := s.repo.Admin().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.InfoContext(ctx, "Login failed", "source_ip", sourceIP)
			return nil, NewAuthError()
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if !admin.ComparePassword(req.Password) {
		s.logger.InfoContext(ctx, "Login failed", "source_ip", sourceIP)
		return nil, NewAuthError()
	}

	expiresAt := time.Now().Add(s.expiry)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "registration-service",
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "Admin logged in", "admin_id", admin.ID, "username", admin.Username)

	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Admin:     admin,
	}, nil
}

// Verify parses and validates a token, returning its claims.
func (s *authService) Verify(tokenString string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, NewAuthError()
	}

	claims, ok := parsed.Claims.(*adminClaims)
	if !ok {
		return nil, NewAuthError()
	}

	return &TokenClaims{
		AdminID:  claims.AdminID,
		Username: claims.Username,
	}, nil
}

func (s *authService) Profile(ctx context.Context, adminID uint) (*models.Admin, error) {
	admin, err := s.repo.Admin().GetByID(ctx, nil, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("admin", adminID)
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// EnsureBootstrapAdmin seeds the default admin account when the table is empty.
func (s *authService) EnsureBootstrapAdmin(ctx context.Context) error {
	count, err := s.repo.Admin().Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin := &models.Admin{
		Username: bootstrapAdminUsername,
		Email:    bootstrapAdminEmail,
	}
	if err := admin.SetPassword(bootstrapAdminPassword); err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	if err := s.repo.Admin().Create(ctx, nil, admin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Warn("Bootstrap admin created, change the default password",
		"username", bootstrapAdminUsername)

	return nil
}
