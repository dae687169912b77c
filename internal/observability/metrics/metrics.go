package metrics

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const namespace = "habit_reminder"

// ReminderMetrics instruments the reminder engine. A nil receiver is a no-op
// so components can run without metrics in tests.
type ReminderMetrics struct {
	activeJobs       metric.Int64Gauge
	deliveries       metric.Int64Counter
	deliveryDuration metric.Float64Histogram
	abandoned        metric.Int64Counter
	retriesScheduled metric.Int64Counter
	skippedFirings   metric.Int64Counter
	bootstrapArmed   metric.Int64Gauge
}

func NewReminderMetrics(meter metric.Meter) (*ReminderMetrics, error) {
	var (
		m    ReminderMetrics
		err  error
		errs []error
	)

	m.activeJobs, err = meter.Int64Gauge(namespace+".active_jobs",
		metric.WithDescription("Number of armed daily reminder jobs."))
	errs = append(errs, err)

	m.deliveries, err = meter.Int64Counter(namespace+".deliveries",
		metric.WithDescription("Push delivery attempts by outcome."))
	errs = append(errs, err)

	m.deliveryDuration, err = meter.Float64Histogram(namespace+".delivery_duration",
		metric.WithDescription("Latency of a single push delivery attempt."),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.abandoned, err = meter.Int64Counter(namespace+".abandoned",
		metric.WithDescription("Reminders disabled after exhausted retries or an invalid target."))
	errs = append(errs, err)

	m.retriesScheduled, err = meter.Int64Counter(namespace+".retries_scheduled",
		metric.WithDescription("One-shot retry timers armed after a transient failure."))
	errs = append(errs, err)

	m.skippedFirings, err = meter.Int64Counter(namespace+".skipped_firings",
		metric.WithDescription("Firings that ended without a delivery attempt."))
	errs = append(errs, err)

	m.bootstrapArmed, err = meter.Int64Gauge(namespace+".bootstrap_armed_jobs",
		metric.WithDescription("Jobs armed by the last startup bootstrap."))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &m, nil
}

// The engine records from cron callbacks and timers with no request in
// scope, so reminder instruments use a background context.
func (m *ReminderMetrics) SetActiveJobs(n int) {
	if m == nil {
		return
	}

	m.activeJobs.Record(context.Background(), int64(n))
}

func (m *ReminderMetrics) ObserveDelivery(outcome string, d time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.deliveries.Add(context.Background(), 1, attrs)
	m.deliveryDuration.Record(context.Background(), d.Seconds())
}

func (m *ReminderMetrics) IncAbandoned(reason string) {
	if m == nil {
		return
	}

	m.abandoned.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *ReminderMetrics) IncRetryScheduled() {
	if m == nil {
		return
	}

	m.retriesScheduled.Add(context.Background(), 1)
}

func (m *ReminderMetrics) IncSkipped(reason string) {
	if m == nil {
		return
	}

	m.skippedFirings.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *ReminderMetrics) SetBootstrapArmed(n int) {
	if m == nil {
		return
	}

	m.bootstrapArmed.Record(context.Background(), int64(n))
}

type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter(namespace+".http_requests",
		metric.WithDescription("HTTP requests by method, route and status."))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(namespace+".http_request_duration",
		metric.WithDescription("HTTP request latency by method and route."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}, nil
}

func (m *HTTPMetrics) Record(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}

	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}
