package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/AAC-Team/registration-service/internal/models"
	"github.com/AAC-Team/registration-service/internal/ratelimit"
	"github.com/AAC-Team/registration-service/internal/validator"
)

const testJWTSecret = "test-signing-key"

func newAuthFixture(t *testing.T, limiter *ratelimit.Limiter) (AuthService, *MockRepository) {
	t.Helper()
	repo := NewMockRepository()
	service := NewAuthService(repo, testLogger(), validator.New(), limiter, testJWTSecret, time.Hour)
	return service, repo
}

func seedAdmin(t *testing.T, repo *MockRepository, username, password string) *models.Admin {
	t.Helper()
	admin := &models.Admin{Username: username, Email: username + "@example.com"}
	if err := admin.SetPassword(password); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := repo.Admin().Create(context.Background(), nil, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a verifiable token", func(t *testing.T) {
		service, repo := newAuthFixture(t, nil)
		admin := seedAdmin(t, repo, "reviewer", "s3cret-pass")

		resp, err := service.Login(ctx, &LoginRequest{Username: "reviewer", Password: "s3cret-pass"}, "10.0.0.1")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Token == "" {
			t.Fatal("expected a token")
		}
		if resp.Admin.ID != admin.ID {
			t.Errorf("unexpected admin id %d", resp.Admin.ID)
		}

		claims, err := service.Verify(resp.Token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if claims.AdminID != admin.ID || claims.Username != "reviewer" {
			t.Errorf("unexpected claims %+v", claims)
		}
	})

	t.Run("failure response is uniform", func(t *testing.T) {
		service, repo := newAuthFixture(t, nil)
		seedAdmin(t, repo, "reviewer", "s3cret-pass")

		tests := []struct {
			name string
			req  *LoginRequest
		}{
			{name: "unknown username", req: &LoginRequest{Username: "ghost", Password: "s3cret-pass"}},
			{name: "wrong password", req: &LoginRequest{Username: "reviewer", Password: "wrong"}},
			{name: "empty credentials", req: &LoginRequest{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Login(ctx, tt.req, "10.0.0.1")
				if !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("expected unauthorized, got %v", err)
				}
				if err.Error() != "invalid credentials" {
					t.Errorf("failure message must not leak the cause, got %q", err.Error())
				}
			})
		}
	})

	t.Run("rate limit applies per source IP before credentials", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		limiter := ratelimit.NewLimiter(client, 3, 15*time.Minute, "ratelimit:login")
		service, repo := newAuthFixture(t, limiter)
		seedAdmin(t, repo, "reviewer", "s3cret-pass")

		for i := 0; i < 3; i++ {
			if _, err := service.Login(ctx, &LoginRequest{Username: "reviewer", Password: "wrong"}, "10.0.0.1"); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("attempt %d: expected unauthorized, got %v", i, err)
			}
		}

		// Fourth attempt is throttled even with the right password
		_, err := service.Login(ctx, &LoginRequest{Username: "reviewer", Password: "s3cret-pass"}, "10.0.0.1")
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected rate limited, got %v", err)
		}

		// A different source IP is unaffected
		if _, err := service.Login(ctx, &LoginRequest{Username: "reviewer", Password: "s3cret-pass"}, "10.0.0.2"); err != nil {
			t.Fatalf("other IP should not be throttled: %v", err)
		}
	})
}

func TestAuthService_Verify(t *testing.T) {
	service, _ := newAuthFixture(t, nil)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "foreign signature", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJhZG1pbl9pZCI6MX0.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Verify(tt.token); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("expected unauthorized, got %v", err)
			}
		})
	}

	t.Run("expired token", func(t *testing.T) {
		repo := NewMockRepository()
		shortLived := NewAuthService(repo, testLogger(), validator.New(), nil, testJWTSecret, -time.Minute)
		seedAdmin(t, repo, "reviewer", "s3cret-pass")

		resp, err := shortLived.Login(context.Background(), &LoginRequest{Username: "reviewer", Password: "s3cret-pass"}, "10.0.0.1")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if _, err := shortLived.Verify(resp.Token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected unauthorized for expired token, got %v", err)
		}
	})
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthFixture(t, nil)
	admin := seedAdmin(t, repo, "reviewer", "s3cret-pass")

	got, err := service.Profile(ctx, admin.ID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if got.Username != "reviewer" {
		t.Errorf("unexpected username %s", got.Username)
	}

	if _, err := service.Profile(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAuthService_EnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds when table is empty", func(t *testing.T) {
		service, repo := newAuthFixture(t, nil)

		if err := service.EnsureBootstrapAdmin(ctx); err != nil {
			t.Fatalf("EnsureBootstrapAdmin failed: %v", err)
		}

		admin, err := repo.Admin().GetByUsername(ctx, nil, "admin")
		if err != nil {
			t.Fatalf("bootstrap admin missing: %v", err)
		}
		if !admin.ComparePassword("admin123") {
			t.Error("bootstrap password mismatch")
		}

		// Default credentials work for login
		if _, err := service.Login(ctx, &LoginRequest{Username: "admin", Password: "admin123"}, "10.0.0.1"); err != nil {
			t.Errorf("bootstrap login failed: %v", err)
		}
	})

	t.Run("does nothing when an admin exists", func(t *testing.T) {
		service, repo := newAuthFixture(t, nil)
		seedAdmin(t, repo, "reviewer", "s3cret-pass")

		if err := service.EnsureBootstrapAdmin(ctx); err != nil {
			t.Fatalf("EnsureBootstrapAdmin failed: %v", err)
		}
		if _, err := repo.Admin().GetByUsername(ctx, nil, "admin"); err == nil {
			t.Error("no bootstrap admin should be created")
		}
		count, _ := repo.Admin().Count(ctx, nil)
		if count != 1 {
			t.Errorf("expected 1 admin, got %d", count)
		}
	})
}
