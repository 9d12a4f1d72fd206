package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AAC-Team/registration-service/internal/models"
)

// ValidationError represents a single failed rule on one field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	fields := make([]string, len(ve))
	for i, e := range ve {
		fields[i] = e.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Fields returns the names of all offending fields, in order.
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, len(ve))
	for i, e := range ve {
		fields[i] = e.Field
	}
	return fields
}

// Phone numbers require a country-code prefix followed by a ten digit
// subscriber number.
var phonePattern = regexp.MustCompile(`^\+[0-9]{1,3}[0-9]{10}$`)

// Validator wraps go-playground validation with the intake rule set.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.registerRules()
	return v
}

// Validate validates a struct and converts failures into ValidationErrors.
// Returns nil when the struct passes.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, fe := range err.(validator.ValidationErrors) {
		errs = append(errs, ValidationError{
			Field:   fieldName(fe),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return errs
}

func (v *Validator) registerRules() {
	v.validate.RegisterValidation("intake_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	v.validate.RegisterValidation("registration_status", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(models.RegistrationStatus(fl.Field().String()))
	})

	v.validate.RegisterValidation("evaluation_result", func(fl validator.FieldLevel) bool {
		return models.ValidResult(models.EvaluationResult(fl.Field().String()))
	})
}

// fieldName lowers the Go field name into the camelCase spelling the client
// actually sent.
func fieldName(fe validator.FieldError) string {
	return lowerFirst(fe.Field())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s == "UID" {
		return "uid"
	}
	if s == "SOP" {
		return "sop"
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "intake_phone":
		return "must include a country code prefix followed by a 10 digit number"
	case "registration_status":
		return "must be one of pending, approved, rejected"
	case "evaluation_result":
		return "must be one of '', selected, notSelected"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
