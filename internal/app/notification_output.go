package app

import (
	"time"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

type SettingsOutput struct {
	UserID            string
	Enabled           bool
	ReminderTime      string
	Timezone          string
	HasDeliveryTarget bool
	NextFireAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func FromEntity(settings *domain.ReminderSettings, nextFireAt *time.Time) SettingsOutput {
	return SettingsOutput{
		UserID:            settings.UserID().String(),
		Enabled:           settings.Enabled(),
		ReminderTime:      settings.ReminderTime(),
		Timezone:          settings.Timezone(),
		HasDeliveryTarget: settings.HasDeliveryTarget(),
		NextFireAt:        nextFireAt,
		CreatedAt:         settings.CreatedAt(),
		UpdatedAt:         settings.UpdatedAt(),
	}
}
