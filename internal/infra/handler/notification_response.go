package handler

import (
	"time"

	"github.com/KasumiMercury/primind-habit-reminder/internal/app"
)

type SettingsResponse struct {
	UserID            string     `json:"user_id"`
	Enabled           bool       `json:"enabled"`
	ReminderTime      string     `json:"reminder_time"`
	Timezone          string     `json:"timezone"`
	HasDeliveryTarget bool       `json:"has_delivery_target"`
	NextFireAt        *time.Time `json:"next_fire_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func FromDTO(output app.SettingsOutput) SettingsResponse {
	return SettingsResponse{
		UserID:            output.UserID,
		Enabled:           output.Enabled,
		ReminderTime:      output.ReminderTime,
		Timezone:          output.Timezone,
		HasDeliveryTarget: output.HasDeliveryTarget,
		NextFireAt:        output.NextFireAt,
		CreatedAt:         output.CreatedAt,
		UpdatedAt:         output.UpdatedAt,
	}
}
