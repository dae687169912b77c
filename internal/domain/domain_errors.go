package domain

import "errors"

var (
	ErrSettingsNotFound = errors.New("reminder settings not found")

	ErrInvalidReminderTime = errors.New("invalid reminder time: expected HH:MM")
	ErrHourOutOfRange      = errors.New("reminder hour must be within 0-23")
	ErrMinuteOutOfRange    = errors.New("reminder minute must be within 0-59")

	ErrInvalidTimezone = errors.New("invalid timezone: expected IANA name")

	ErrEmptyDeliveryTarget = errors.New("delivery target cannot be empty")
	ErrNoDeliveryTarget    = errors.New("no delivery target registered")

	ErrDeliveryTargetChanged = errors.New("delivery target changed since it was read")
)
