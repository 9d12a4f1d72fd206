package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestRegistration_TermsAccepted(t *testing.T) {
	tests := []struct {
		name  string
		terms string
		want  bool
	}{
		{name: "all accepted", terms: "[true,true,true,true]", want: true},
		{name: "one declined", terms: "[true,true,false,true]", want: false},
		{name: "too few", terms: "[true,true,true]", want: false},
		{name: "too many", terms: "[true,true,true,true,true]", want: false},
		{name: "not an array", terms: `{"accepted":true}`, want: false},
		{name: "empty", terms: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Registration{Terms: datatypes.JSON(tt.terms)}
			if got := r.TermsAccepted(); got != tt.want {
				t.Errorf("TermsAccepted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluation_ComputeTotal(t *testing.T) {
	e := &Evaluation{
		Leadership:      18,
		TimeManagement:  20,
		PriorExperience: 10,
		Discipline:      11,
		Academics:       12,
		Attitude:        13,
	}
	if got := e.ComputeTotal(); got != 84 {
		t.Errorf("ComputeTotal() = %d, want 84", got)
	}

	var zero Evaluation
	if got := zero.ComputeTotal(); got != 0 {
		t.Errorf("zero sheet total = %d, want 0", got)
	}
}

func TestCriteriaMax_CoversAllCriteria(t *testing.T) {
	total := 0
	for _, max := range CriteriaMax {
		total += max
	}
	if total != 100 {
		t.Errorf("criteria caps should sum to 100, got %d", total)
	}
}

func TestAdmin_PasswordRoundTrip(t *testing.T) {
	admin := &Admin{Username: "admin"}
	if err := admin.SetPassword("admin123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if admin.PasswordHash == "admin123" {
		t.Fatal("password stored in plaintext")
	}
	if !admin.ComparePassword("admin123") {
		t.Error("correct password rejected")
	}
	if admin.ComparePassword("admin124") {
		t.Error("wrong password accepted")
	}
}

func TestAdmin_BeforeSaveRequiresHash(t *testing.T) {
	admin := &Admin{Username: "admin"}
	if err := admin.BeforeSave(nil); err == nil {
		t.Error("expected an error for a missing password hash")
	}
	if err := admin.SetPassword("admin123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := admin.BeforeSave(nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
