package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ReminderTime is a wall-clock time of day with minute precision.
type ReminderTime struct {
	hour   int
	minute int
}

func NewReminderTime(hour, minute int) (ReminderTime, error) {
	if hour < 0 || hour > 23 {
		return ReminderTime{}, fmt.Errorf("%w: %d", ErrHourOutOfRange, hour)
	}

	if minute < 0 || minute > 59 {
		return ReminderTime{}, fmt.Errorf("%w: %d", ErrMinuteOutOfRange, minute)
	}

	return ReminderTime{hour: hour, minute: minute}, nil
}

// ParseReminderTime accepts "H:MM" and "HH:MM" made of ASCII digits only.
func ParseReminderTime(s string) (ReminderTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || parts[0] == "" || len(parts[0]) > 2 || len(parts[1]) != 2 ||
		!allDigits(parts[0]) || !allDigits(parts[1]) {
		return ReminderTime{}, fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return ReminderTime{}, fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return ReminderTime{}, fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}

	return NewReminderTime(h, m)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func (t ReminderTime) Hour() int {
	return t.hour
}

func (t ReminderTime) Minute() int {
	return t.minute
}

func (t ReminderTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

func (t ReminderTime) Equals(other ReminderTime) bool {
	return t.hour == other.hour && t.minute == other.minute
}

// CronSpec returns a five-field daily cron expression pinned to tz.
func (t ReminderTime) CronSpec(tz Timezone) string {
	return fmt.Sprintf("CRON_TZ=%s %d %d * * *", tz.Name(), t.minute, t.hour)
}
