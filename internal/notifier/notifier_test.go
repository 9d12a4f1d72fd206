package notifier

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/AAC-Team/registration-service/internal/events"
)

// recordingMailer captures sent mail for assertions.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *recordingMailer) waitFor(t *testing.T, count int) []sentMail {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := m.all(); len(sent) >= count {
			return sent
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d mails, got %d", count, len(m.all()))
	return nil
}

func startNotifier(t *testing.T) (*events.Bus, *recordingMailer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	bus := events.NewBus(logger)
	t.Cleanup(func() { bus.Close() })

	mailer := &recordingMailer{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := New(bus.Subscriber(), mailer, logger).Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return bus, mailer
}

func TestNotifier_SubmissionConfirmation(t *testing.T) {
	bus, mailer := startNotifier(t)

	event := events.NewEvent(events.TypeRegistrationSubmitted, events.RegistrationSubmittedEvent{
		RegistrationID: 7,
		FullName:       "Amina Yusuf",
		UID:            "AAC-2031",
		Email:          "amina@example.com",
	})
	if err := bus.Publisher().Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	sent := mailer.waitFor(t, 1)
	if sent[0].To != "amina@example.com" {
		t.Errorf("unexpected recipient %s", sent[0].To)
	}
	if sent[0].Subject != "Registration received" {
		t.Errorf("unexpected subject %s", sent[0].Subject)
	}
}

func TestNotifier_StatusDecisions(t *testing.T) {
	bus, mailer := startNotifier(t)
	ctx := context.Background()

	publish := func(newStatus string) {
		t.Helper()
		event := events.NewEvent(events.TypeRegistrationStatusChanged, events.RegistrationStatusChangedEvent{
			RegistrationID: 7,
			FullName:       "Amina Yusuf",
			Email:          "amina@example.com",
			OldStatus:      "pending",
			NewStatus:      newStatus,
		})
		if err := bus.Publisher().Publish(ctx, event); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	// A move back to pending is not a decision and sends nothing
	publish("pending")
	publish("approved")
	publish("rejected")

	sent := mailer.waitFor(t, 2)
	if len(sent) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(sent))
	}
	for _, mail := range sent {
		if mail.Subject != "Registration status update" {
			t.Errorf("unexpected subject %s", mail.Subject)
		}
	}
}
