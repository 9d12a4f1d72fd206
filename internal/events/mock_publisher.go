package events

import (
	"context"
	"log/slog"
	"sync"
)

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	logger *slog.Logger
	closed bool
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	m.logger.DebugContext(ctx, "Mock event recorded",
		"event_id", event.ID,
		"event_type", event.Type)

	return nil
}

func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetPublishedEvents returns a snapshot of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

// ClearEvents drops all recorded events.
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// Closed reports whether Close has been called.
func (m *MockEventPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
