package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultTimezone = "UTC"

type Timezone struct {
	loc *time.Location
}

// ParseTimezone resolves an IANA zone name. An empty name resolves to UTC.
func ParseTimezone(name string) (Timezone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UTC(), nil
	}

	// Local depends on the host and cannot be carried in a cron spec.
	if strings.EqualFold(name, "local") {
		return Timezone{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return Timezone{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}

	return Timezone{loc: loc}, nil
}

func UTC() Timezone {
	return Timezone{loc: time.UTC}
}

func (tz Timezone) Name() string {
	return tz.Location().String()
}

func (tz Timezone) Location() *time.Location {
	if tz.loc == nil {
		return time.UTC
	}

	return tz.loc
}

func (tz Timezone) Equals(other Timezone) bool {
	return tz.Name() == other.Name()
}
