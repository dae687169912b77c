package observability

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"

	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/tracing"
)

type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	LogLevel      string
	GCPProjectID  string
	OTLPEndpoint  string
	SamplingRate  float64
	DefaultModule logging.Module
}

type Resources struct {
	Tracer  *tracing.Provider
	Metrics *metrics.Provider
}

// Init installs the default slog logger, the global tracer provider and
// propagator, and the global meter provider.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	slog.SetDefault(slog.New(logging.NewHandler(os.Stdout, logging.Config{
		Level:         cfg.LogLevel,
		Service:       cfg.ServiceInfo,
		Environment:   cfg.Environment,
		GCPProjectID:  cfg.GCPProjectID,
		DefaultModule: cfg.DefaultModule,
	})))

	tp, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:    cfg.ServiceInfo.Name,
		ServiceVersion: cfg.ServiceInfo.Version,
		Environment:    string(cfg.Environment),
		OTLPEndpoint:   cfg.OTLPEndpoint,
		GCPProjectID:   cfg.GCPProjectID,
		SamplingRate:   cfg.SamplingRate,
	})
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp.TracerProvider())
	tracing.SetupPropagator()

	mp, err := metrics.NewProvider(ctx, metrics.Config{
		ServiceName:    cfg.ServiceInfo.Name,
		ServiceVersion: cfg.ServiceInfo.Version,
		Environment:    string(cfg.Environment),
	})
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}

	otel.SetMeterProvider(mp.MeterProvider())

	return &Resources{
		Tracer:  tp,
		Metrics: mp,
	}, nil
}

func (r *Resources) Shutdown(ctx context.Context) error {
	var errs []error

	if r.Tracer != nil {
		if err := r.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if r.Metrics != nil {
		if err := r.Metrics.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
