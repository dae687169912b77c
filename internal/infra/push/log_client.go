package push

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
	"github.com/KasumiMercury/primind-habit-reminder/internal/scheduler"
)

// LogClient stands in for FCM when no credentials are configured. Every send
// is logged and reported as delivered.
type LogClient struct{}

var _ scheduler.DeliveryClient = LogClient{}

func NewLogClient() LogClient {
	return LogClient{}
}

func (LogClient) Send(_ context.Context, target domain.DeliveryTarget, payload scheduler.Payload) scheduler.Outcome {
	if target.IsZero() {
		return scheduler.PermanentInvalidTarget(domain.ErrEmptyDeliveryTarget)
	}

	messageID := "local-" + uuid.NewString()

	slog.Info("push delivery (log only)",
		slog.String("target", target.String()),
		slog.String("title", payload.Title),
		slog.String("user_id", payload.Data["userId"]),
		slog.String("message_id", messageID),
	)

	return scheduler.Delivered(messageID)
}
