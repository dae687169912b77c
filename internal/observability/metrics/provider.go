package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
)

const meterName = "github.com/KasumiMercury/primind-habit-reminder"

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// Provider owns the meter provider and the instruments built on it. Every
// provider serves /metrics from its own Prometheus registry; the gcloud build
// also pushes to Cloud Monitoring.
type Provider struct {
	mp  *sdkmetric.MeterProvider
	reg *prometheus.Registry

	Reminder *ReminderMetrics
	HTTP     *HTTPMetrics
}

func newResource(cfg Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)
}

func newProvider(cfg Config, readers ...sdkmetric.Reader) (*Provider, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(reg),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithResource(newResource(cfg)),
		sdkmetric.WithReader(exporter),
	}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	meter := mp.Meter(meterName)

	reminder, err := NewReminderMetrics(meter)
	if err != nil {
		return nil, errors.Join(err, mp.Shutdown(context.Background()))
	}

	httpMetrics, err := NewHTTPMetrics(meter)
	if err != nil {
		return nil, errors.Join(err, mp.Shutdown(context.Background()))
	}

	return &Provider{
		mp:       mp,
		reg:      reg,
		Reminder: reminder,
		HTTP:     httpMetrics,
	}, nil
}

func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.mp
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

func (p *Provider) Gatherer() prometheus.Gatherer {
	return p.reg
}

// Shutdown flushes pending exports. Instruments keep working as no-ops
// afterwards.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}
