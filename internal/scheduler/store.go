package scheduler

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=scheduler

// SettingsStore is the slice of the settings repository a firing needs.
type SettingsStore interface {
	FindByUserID(ctx context.Context, userID domain.UserID) (*domain.ReminderSettings, error)
	// DisableAndPurgeTarget must leave the row alone and return
	// domain.ErrDeliveryTargetChanged when target is no longer the stored one.
	DisableAndPurgeTarget(ctx context.Context, userID domain.UserID, target domain.DeliveryTarget) error
}

type SettingsSource interface {
	FindEnabledUserIDs(ctx context.Context) ([]string, error)
}

type AbandonReason string

const (
	AbandonRetriesExhausted AbandonReason = "retries_exhausted"
	AbandonInvalidTarget    AbandonReason = "invalid_target"
)

type AbandonedEvent struct {
	UserID      domain.UserID
	Reason      AbandonReason
	LastError   string
	AbandonedAt time.Time
}

// EventPublisher receives reminder lifecycle events. Publishing is best
// effort: errors are logged and never change engine state.
type EventPublisher interface {
	PublishReminderAbandoned(ctx context.Context, event AbandonedEvent) error
}
