package pubsub_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
	"github.com/KasumiMercury/primind-habit-reminder/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-habit-reminder/internal/scheduler"
)

func TestPublishReminderAbandonedSuccess(t *testing.T) {
	channel := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	messages, err := channel.Subscribe(context.Background(), pubsub.TopicReminderAbandoned)
	require.NoError(t, err)

	publisher := pubsub.NewEventPublisher(channel)
	defer func() {
		_ = publisher.Close()
	}()

	userID := domain.NewUserID()
	abandonedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	err = publisher.PublishReminderAbandoned(context.Background(), scheduler.AbandonedEvent{
		UserID:      userID,
		Reason:      scheduler.AbandonInvalidTarget,
		LastError:   "unregistered",
		AbandonedAt: abandonedAt,
	})
	require.NoError(t, err)

	var msg *message.Message
	select {
	case msg = <-messages:
	case <-time.After(time.Second):
		t.Fatal("abandoned event was not delivered")
	}
	msg.Ack()

	assert.Equal(t, "reminder.abandoned", msg.Metadata.Get("event_type"))
	assert.Equal(t, userID.String(), msg.Metadata.Get("user_id"))
	assert.Equal(t, "invalid_target", msg.Metadata.Get("reason"))

	var payload pubsub.ReminderAbandonedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	assert.Equal(t, userID.String(), payload.UserID)
	assert.Equal(t, "invalid_target", payload.Reason)
	assert.Equal(t, "unregistered", payload.LastError)
	assert.True(t, abandonedAt.Equal(payload.AbandonedAt))
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error {
	return nil
}

func TestPublishReminderAbandonedError(t *testing.T) {
	publisher := pubsub.NewEventPublisher(failingPublisher{})

	err := publisher.PublishReminderAbandoned(context.Background(), scheduler.AbandonedEvent{
		UserID: domain.NewUserID(),
		Reason: scheduler.AbandonRetriesExhausted,
	})

	assert.ErrorContains(t, err, "broker unavailable")
}
