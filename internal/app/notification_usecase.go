package app

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

//go:generate mockgen -source=notification_usecase.go -destination=notification_usecase_mock.go -package=app

type NotificationUseCase interface {
	GetSettings(ctx context.Context, input GetSettingsInput) (SettingsOutput, error)
	UpdateSettings(ctx context.Context, input UpdateSettingsInput) (SettingsOutput, error)
	RegisterToken(ctx context.Context, input RegisterTokenInput) (SettingsOutput, error)
}

// ReminderScheduler is the engine surface the use cases drive after every
// settings write. Resync re-reads the stored row itself, so concurrent writes
// for one user always leave the job matching the last committed row.
type ReminderScheduler interface {
	Resync(ctx context.Context, userID domain.UserID) (bool, error)
	NextFire(userID domain.UserID) (time.Time, bool)
}
