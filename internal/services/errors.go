package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes by the handlers.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrRateLimited      = errors.New("rate limited")
	ErrPayloadTooLarge  = errors.New("payload too large")
)

// NotFoundError identifies which resource was missing.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFoundError(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError names the field that collided with an existing record.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a registration with this %s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func NewConflictError(field, value string) error {
	return &ConflictError{Field: field, Value: value}
}

// ValidationFailedError carries field-level details from the validator.
type ValidationFailedError struct {
	Details string
}

func (e *ValidationFailedError) Error() string {
	if e.Details == "" {
		return ErrValidationFailed.Error()
	}
	return e.Details
}

func (e *ValidationFailedError) Unwrap() error { return ErrValidationFailed }

func NewValidationFailedError(details string) error {
	return &ValidationFailedError{Details: details}
}

// AuthError is deliberately uniform: it never reveals whether the username or
// the password was wrong.
type AuthError struct{}

func (e *AuthError) Error() string { return "invalid credentials" }

func (e *AuthError) Unwrap() error { return ErrUnauthorized }

func NewAuthError() error { return &AuthError{} }

// RateLimitError reports how long the caller should back off.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many attempts, retry after %d seconds", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

func NewRateLimitError(retryAfter int) error {
	return &RateLimitError{RetryAfter: retryAfter}
}

// PayloadTooLargeError carries the limit that was exceeded.
type PayloadTooLargeError struct {
	Field string
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("%s exceeds the maximum size of %d bytes", e.Field, e.Limit)
}

func (e *PayloadTooLargeError) Unwrap() error { return ErrPayloadTooLarge }

func NewPayloadTooLargeError(field string, limit int64) error {
	return &PayloadTooLargeError{Field: field, Limit: limit}
}
