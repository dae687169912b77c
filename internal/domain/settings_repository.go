package domain

import (
	"context"
)

//go:generate mockgen -source=settings_repository.go -destination=settings_repository_mock.go -package=domain

type SettingsRepository interface {
	// FindByUserID returns ErrSettingsNotFound when the user has no record.
	FindByUserID(ctx context.Context, userID UserID) (*ReminderSettings, error)
	// FindEnabledUserIDs returns the raw ids of enabled rows, including ids
	// that no longer parse, so callers can account for every row.
	FindEnabledUserIDs(ctx context.Context) ([]string, error)
	Save(ctx context.Context, settings *ReminderSettings) error
	// DisableAndPurgeTarget disables the user and clears target only while it
	// is still the stored target. ErrDeliveryTargetChanged means a different
	// target was stored in the meantime and nothing was written.
	DisableAndPurgeTarget(ctx context.Context, userID UserID, target DeliveryTarget) error
}
