package scheduler

import (
	"time"

	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/metrics"
)

const (
	DefaultRetryDelay      = 5 * time.Minute
	DefaultDeliveryTimeout = 30 * time.Second
)

type Option func(*Scheduler)

func WithRetryDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

func WithDeliveryTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.deliveryTimeout = d
		}
	}
}

// WithClock replaces the time source used for next-fire calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Scheduler) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.ReminderMetrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithMaxConsecutiveFailures sets how many transient failures in a row
// abandon a user. Values below 1 keep MaxConsecutiveFailures.
func WithMaxConsecutiveFailures(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.tracker = NewRetryTrackerWithLimit(n)
		}
	}
}
