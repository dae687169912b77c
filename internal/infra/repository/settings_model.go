package repository

import (
	"time"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

type SettingsModel struct {
	UserID         string    `gorm:"column:user_id;type:uuid;primaryKey"`
	Enabled        bool      `gorm:"column:enabled;type:boolean;not null;default:true;index:idx_reminder_settings_enabled"`
	ReminderTime   string    `gorm:"column:reminder_time;type:varchar(5);not null"`
	Timezone       string    `gorm:"column:timezone;type:varchar(64);not null;default:'UTC'"`
	DeliveryTarget *string   `gorm:"column:delivery_target;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (SettingsModel) TableName() string {
	return "reminder_settings"
}

// ToEntity does not validate reminder_time or timezone; rows written by
// older clients are surfaced as-is and rejected when scheduled.
func (m *SettingsModel) ToEntity() (*domain.ReminderSettings, error) {
	userID, err := domain.UserIDFromString(m.UserID)
	if err != nil {
		return nil, err
	}

	var target domain.DeliveryTarget
	if m.DeliveryTarget != nil && *m.DeliveryTarget != "" {
		target, err = domain.NewDeliveryTarget(*m.DeliveryTarget)
		if err != nil {
			return nil, err
		}
	}

	return domain.Reconstitute(
		userID,
		m.Enabled,
		m.ReminderTime,
		m.Timezone,
		target,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func FromEntity(e *domain.ReminderSettings) *SettingsModel {
	var target *string
	if e.HasDeliveryTarget() {
		token := e.DeliveryTarget().Token()
		target = &token
	}

	return &SettingsModel{
		UserID:         e.UserID().String(),
		Enabled:        e.Enabled(),
		ReminderTime:   e.ReminderTime(),
		Timezone:       e.Timezone(),
		DeliveryTarget: target,
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
	}
}
