package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/AAC-Team/registration-service/internal/events"
)

// Notifier consumes registration events and sends the matching emails.
// Delivery failures are logged and the message is acked anyway: notification
// mail is best-effort and must never wedge the queue.
type Notifier struct {
	subscriber message.Subscriber
	mailer     Mailer
	logger     *slog.Logger
}

func New(subscriber message.Subscriber, mailer Mailer, logger *slog.Logger) *Notifier {
	return &Notifier{
		subscriber: subscriber,
		mailer:     mailer,
		logger:     logger,
	}
}

// Start subscribes to the registration topics and processes messages until ctx
// is cancelled.
func (n *Notifier) Start(ctx context.Context) error {
	submitted, err := n.subscriber.Subscribe(ctx, events.TypeRegistrationSubmitted)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.TypeRegistrationSubmitted, err)
	}

	statusChanged, err := n.subscriber.Subscribe(ctx, events.TypeRegistrationStatusChanged)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.TypeRegistrationStatusChanged, err)
	}

	go n.consume(ctx, submitted, n.handleSubmitted)
	go n.consume(ctx, statusChanged, n.handleStatusChanged)

	n.logger.Info("Notifier started")
	return nil
}

func (n *Notifier) consume(ctx context.Context, messages <-chan *message.Message, handle func(context.Context, *message.Message)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			handle(ctx, msg)
			msg.Ack()
		}
	}
}

// envelope mirrors events.Event with the payload kept raw for typed decoding.
type envelope struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (n *Notifier) handleSubmitted(ctx context.Context, msg *message.Message) {
	var env envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		n.logger.ErrorContext(ctx, "Failed to decode event", "message_id", msg.UUID, "error", err)
		return
	}

	var payload events.RegistrationSubmittedEvent
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		n.logger.ErrorContext(ctx, "Failed to decode submission payload", "event_id", env.ID, "error", err)
		return
	}

	subject := "Registration received"
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We have received your registration (UID %s). Our team will review "+
			"your application and you will be notified once a decision is made.\n\n"+
			"Best regards,\nThe Admissions Team",
		payload.FullName, payload.UID)

	if err := n.mailer.Send(ctx, payload.Email, subject, body); err != nil {
		n.logger.ErrorContext(ctx, "Failed to send confirmation mail",
			"registration_id", payload.RegistrationID,
			"error", err)
		return
	}

	n.logger.InfoContext(ctx, "Confirmation mail sent",
		"registration_id", payload.RegistrationID)
}

func (n *Notifier) handleStatusChanged(ctx context.Context, msg *message.Message) {
	var env envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		n.logger.ErrorContext(ctx, "Failed to decode event", "message_id", msg.UUID, "error", err)
		return
	}

	var payload events.RegistrationStatusChangedEvent
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		n.logger.ErrorContext(ctx, "Failed to decode status payload", "event_id", env.ID, "error", err)
		return
	}

	// Only decisions are worth a mail
	if payload.NewStatus != "approved" && payload.NewStatus != "rejected" {
		return
	}

	subject := "Registration status update"
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"The status of your registration has changed to: %s.\n\n"+
			"Best regards,\nThe Admissions Team",
		payload.FullName, payload.NewStatus)

	if err := n.mailer.Send(ctx, payload.Email, subject, body); err != nil {
		n.logger.ErrorContext(ctx, "Failed to send status mail",
			"registration_id", payload.RegistrationID,
			"error", err)
		return
	}

	n.logger.InfoContext(ctx, "Status mail sent",
		"registration_id", payload.RegistrationID,
		"status", payload.NewStatus)
}
