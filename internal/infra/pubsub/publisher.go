package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/tracing"
	"github.com/KasumiMercury/primind-habit-reminder/internal/scheduler"
)

const (
	TopicReminderAbandoned = "reminder.abandoned"

	eventTypeReminderAbandoned = "reminder.abandoned"
)

type Publisher interface {
	scheduler.EventPublisher
	io.Closer
}

type ReminderAbandonedPayload struct {
	UserID      string    `json:"user_id"`
	Reason      string    `json:"reason"`
	LastError   string    `json:"last_error,omitempty"`
	AbandonedAt time.Time `json:"abandoned_at"`
}

// EventPublisher encodes reminder events onto a watermill publisher.
type EventPublisher struct {
	publisher message.Publisher
}

var _ Publisher = (*EventPublisher)(nil)

func NewEventPublisher(publisher message.Publisher) *EventPublisher {
	return &EventPublisher{publisher: publisher}
}

func (p *EventPublisher) PublishReminderAbandoned(ctx context.Context, event scheduler.AbandonedEvent) error {
	msg, err := newReminderAbandonedMessage(ctx, event)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(TopicReminderAbandoned, msg); err != nil {
		slog.Error("failed to publish reminder abandoned event",
			slog.String("user_id", event.UserID.String()),
			slog.String("error", err.Error()),
		)

		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("published reminder abandoned event",
		slog.String("user_id", event.UserID.String()),
		slog.String("message_id", msg.UUID),
	)

	return nil
}

func (p *EventPublisher) Close() error {
	return p.publisher.Close()
}

func newReminderAbandonedMessage(ctx context.Context, event scheduler.AbandonedEvent) (*message.Message, error) {
	payload, err := json.Marshal(ReminderAbandonedPayload{
		UserID:      event.UserID.String(),
		Reason:      string(event.Reason),
		LastError:   event.LastError,
		AbandonedAt: event.AbandonedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", eventTypeReminderAbandoned)
	msg.Metadata.Set("user_id", event.UserID.String())
	msg.Metadata.Set("reason", string(event.Reason))

	tracing.InjectToMap(ctx, msg.Metadata)

	return msg, nil
}
