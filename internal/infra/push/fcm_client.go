package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
	"github.com/KasumiMercury/primind-habit-reminder/internal/scheduler"
)

type messagingSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type FCMConfig struct {
	CredentialsFile string
	ProjectID       string
	SendRate        float64
	SendBurst       int
}

// FCMClient delivers reminders through Firebase Cloud Messaging.
type FCMClient struct {
	sender    messagingSender
	limiter   *rate.Limiter
	permanent func(error) bool
}

var _ scheduler.DeliveryClient = (*FCMClient)(nil)

func NewFCMClient(ctx context.Context, cfg FCMConfig) (*FCMClient, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}

	return newFCMClient(client, newLimiter(cfg.SendRate, cfg.SendBurst)), nil
}

func newFCMClient(sender messagingSender, limiter *rate.Limiter) *FCMClient {
	return &FCMClient{
		sender:    sender,
		limiter:   limiter,
		permanent: isPermanentTargetError,
	}
}

func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (c *FCMClient) Send(ctx context.Context, target domain.DeliveryTarget, payload scheduler.Payload) scheduler.Outcome {
	if target.IsZero() {
		return scheduler.PermanentInvalidTarget(domain.ErrEmptyDeliveryTarget)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return scheduler.TransientFailure(fmt.Errorf("send throttled: %w", err))
	}

	messageID, err := c.sender.Send(ctx, buildMessage(target, payload))
	if err != nil {
		if c.permanent(err) {
			slog.Warn("push target rejected",
				slog.String("target", target.String()),
				slog.String("error", err.Error()),
			)

			return scheduler.PermanentInvalidTarget(err)
		}

		return scheduler.TransientFailure(err)
	}

	slog.Debug("push sent",
		slog.String("target", target.String()),
		slog.String("message_id", messageID),
	)

	return scheduler.Delivered(messageID)
}

// isPermanentTargetError matches the FCM errors that mean the token will
// never work again. Everything else is worth another try.
func isPermanentTargetError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return messaging.IsUnregistered(err) ||
		messaging.IsSenderIDMismatch(err) ||
		errorutils.IsInvalidArgument(err)
}

func buildMessage(target domain.DeliveryTarget, payload scheduler.Payload) *messaging.Message {
	badge := 1

	return &messaging.Message{
		Token: target.Token(),
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:             scheduler.AndroidChannel,
				Priority:              messaging.PriorityMax,
				DefaultSound:          true,
				DefaultVibrateTimings: true,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}
}
