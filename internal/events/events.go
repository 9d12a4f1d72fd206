package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published by the registration service.
const (
	TypeRegistrationSubmitted     = "registration.submitted"
	TypeRegistrationStatusChanged = "registration.status_changed"
	TypeEvaluationRecorded        = "evaluation.recorded"
)

// Event is the envelope carried on every topic.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "registration-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// RegistrationSubmittedEvent is the payload for TypeRegistrationSubmitted.
type RegistrationSubmittedEvent struct {
	RegistrationID uint   `json:"registration_id"`
	FullName       string `json:"full_name"`
	UID            string `json:"uid"`
	Email          string `json:"email"`
	Institute      string `json:"institute"`
}

// RegistrationStatusChangedEvent is the payload for TypeRegistrationStatusChanged.
type RegistrationStatusChangedEvent struct {
	RegistrationID uint   `json:"registration_id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
}

// EvaluationRecordedEvent is the payload for TypeEvaluationRecorded.
type EvaluationRecordedEvent struct {
	RegistrationID uint   `json:"registration_id"`
	TotalScore     int    `json:"total_score"`
	Result         string `json:"result"`
}
