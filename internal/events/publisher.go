package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher publishes domain events. The topic is the event type.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// watermillPublisher adapts any watermill message.Publisher to EventPublisher.
type watermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func newWatermillPublisher(publisher message.Publisher, logger *slog.Logger) EventPublisher {
	return &watermillPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *watermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(event.Type, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "Event published",
		"event_id", event.ID,
		"event_type", event.Type)

	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}

// NewKafkaEventPublisher creates a Kafka-backed publisher for production use.
func NewKafkaEventPublisher(brokers []string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return newWatermillPublisher(publisher, logger), nil
}

// Bus is an in-process pub/sub used when no Kafka brokers are configured.
// The same instance backs both the publisher and any subscribers.
type Bus struct {
	channel *gochannel.GoChannel
	logger  *slog.Logger
}

// NewBus creates an in-process event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
		logger: logger,
	}
}

// Publisher returns the bus wrapped as an EventPublisher.
func (b *Bus) Publisher() EventPublisher {
	return newWatermillPublisher(b.channel, b.logger)
}

// Subscriber exposes the bus for consumers such as the notifier worker.
func (b *Bus) Subscriber() message.Subscriber {
	return b.channel
}

// Close shuts the underlying channel down.
func (b *Bus) Close() error {
	return b.channel.Close()
}
