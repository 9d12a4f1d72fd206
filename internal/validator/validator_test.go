package validator

import (
	"strings"
	"testing"
)

func validCreateRequest() RegistrationCreateRequest {
	return RegistrationCreateRequest{
		FullName:        "Amina Yusuf",
		UID:             "AAC-2031",
		Cluster:         "North",
		Institute:       "City University",
		PhoneNumber:     "+2348012345678",
		Email:           "amina@example.com",
		LeadershipRoles: "Student council president",
		YourPosition:    "President",
		NameOfEntity:    "Student Council",
		LinkedinAccount: "https://linkedin.com/in/amina",
		Terms:           "[true,true,true,true]",
	}
}

func TestValidator_RegistrationCreateRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		mutate    func(*RegistrationCreateRequest)
		wantField string
	}{
		{
			name:   "valid",
			mutate: func(r *RegistrationCreateRequest) {},
		},
		{
			name:      "missing full name",
			mutate:    func(r *RegistrationCreateRequest) { r.FullName = "" },
			wantField: "fullName",
		},
		{
			name:      "phone without country code",
			mutate:    func(r *RegistrationCreateRequest) { r.PhoneNumber = "08012345678" },
			wantField: "phoneNumber",
		},
		{
			name:      "phone with short subscriber number",
			mutate:    func(r *RegistrationCreateRequest) { r.PhoneNumber = "+234801234" },
			wantField: "phoneNumber",
		},
		{
			name:      "malformed email",
			mutate:    func(r *RegistrationCreateRequest) { r.Email = "amina-at-example" },
			wantField: "email",
		},
		{
			name:      "linkedin is not a url",
			mutate:    func(r *RegistrationCreateRequest) { r.LinkedinAccount = "linkedin amina" },
			wantField: "linkedinAccount",
		},
		{
			name:      "uid too long",
			mutate:    func(r *RegistrationCreateRequest) { r.UID = strings.Repeat("A", 51) },
			wantField: "uid",
		},
		{
			name:      "missing terms",
			mutate:    func(r *RegistrationCreateRequest) { r.Terms = "" },
			wantField: "terms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			errs := v.Validate(&req)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) == 0 {
				t.Fatal("expected a validation error")
			}
			found := false
			for _, field := range errs.Fields() {
				if field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field %s in %v", tt.wantField, errs.Fields())
			}
		})
	}
}

func TestValidator_StatusUpdateRequest(t *testing.T) {
	v := New()

	tests := []struct {
		status  string
		wantErr bool
	}{
		{status: "pending"},
		{status: "approved"},
		{status: "rejected"},
		{status: "", wantErr: true},
		{status: "archived", wantErr: true},
		{status: "Approved", wantErr: true},
	}
	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			errs := v.Validate(&StatusUpdateRequest{Status: tt.status})
			if gotErr := len(errs) > 0; gotErr != tt.wantErr {
				t.Errorf("status %q: wantErr=%v got %v", tt.status, tt.wantErr, errs)
			}
		})
	}
}

func TestValidator_EvaluationUpdateRequest(t *testing.T) {
	v := New()
	negative := -3
	selected := "selected"
	unknown := "maybe"

	t.Run("empty update is valid", func(t *testing.T) {
		if errs := v.Validate(&EvaluationUpdateRequest{}); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("out-of-range score passes through for clamping", func(t *testing.T) {
		if errs := v.Validate(&EvaluationUpdateRequest{Leadership: &negative}); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("known result accepted", func(t *testing.T) {
		if errs := v.Validate(&EvaluationUpdateRequest{Result: &selected}); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("unknown result rejected", func(t *testing.T) {
		if errs := v.Validate(&EvaluationUpdateRequest{Result: &unknown}); len(errs) == 0 {
			t.Error("expected a validation error")
		}
	})
}
