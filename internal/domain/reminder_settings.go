package domain

import (
	"time"
)

const DefaultReminderTime = "20:00"

// ReminderSettings is the persisted per-user reminder configuration.
// reminderTime and timezone are kept as stored so that malformed rows can be
// reconstituted and rejected by the scheduler instead of by the store.
type ReminderSettings struct {
	userID         UserID
	enabled        bool
	reminderTime   string
	timezone       string
	deliveryTarget DeliveryTarget
	createdAt      time.Time
	updatedAt      time.Time
}

func NewDefaultSettings(userID UserID) *ReminderSettings {
	now := time.Now()

	return &ReminderSettings{
		userID:       userID,
		enabled:      true,
		reminderTime: DefaultReminderTime,
		timezone:     DefaultTimezone,
		createdAt:    now,
		updatedAt:    now,
	}
}

func Reconstitute(
	userID UserID,
	enabled bool,
	reminderTime string,
	timezone string,
	deliveryTarget DeliveryTarget,
	createdAt time.Time,
	updatedAt time.Time,
) *ReminderSettings {
	return &ReminderSettings{
		userID:         userID,
		enabled:        enabled,
		reminderTime:   reminderTime,
		timezone:       timezone,
		deliveryTarget: deliveryTarget,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (s *ReminderSettings) UpdateSchedule(enabled bool, reminderTime ReminderTime, tz Timezone) {
	s.enabled = enabled
	s.reminderTime = reminderTime.String()
	s.timezone = tz.Name()
	s.updatedAt = time.Now()
}

func (s *ReminderSettings) SetDeliveryTarget(target DeliveryTarget) {
	s.deliveryTarget = target
	s.updatedAt = time.Now()
}

// PurgeDeliveryTarget drops the target and disables the reminder, leaving
// the record in the state that matches "no active timer".
func (s *ReminderSettings) PurgeDeliveryTarget() {
	s.deliveryTarget = DeliveryTarget{}
	s.enabled = false
	s.updatedAt = time.Now()
}

func (s *ReminderSettings) HasDeliveryTarget() bool {
	return !s.deliveryTarget.IsZero()
}

// IsSchedulable reports whether a timer should exist for this user.
func (s *ReminderSettings) IsSchedulable() bool {
	return s.enabled && s.HasDeliveryTarget()
}

func (s *ReminderSettings) UserID() UserID {
	return s.userID
}

func (s *ReminderSettings) Enabled() bool {
	return s.enabled
}

func (s *ReminderSettings) ReminderTime() string {
	return s.reminderTime
}

func (s *ReminderSettings) Timezone() string {
	if s.timezone == "" {
		return DefaultTimezone
	}

	return s.timezone
}

func (s *ReminderSettings) DeliveryTarget() DeliveryTarget {
	return s.deliveryTarget
}

func (s *ReminderSettings) CreatedAt() time.Time {
	return s.createdAt
}

func (s *ReminderSettings) UpdatedAt() time.Time {
	return s.updatedAt
}
