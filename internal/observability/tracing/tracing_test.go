package tracing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/tracing"
)

func TestInjectAndExtractRoundTrip(t *testing.T) {
	tracing.SetupPropagator()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	carrier := map[string]string{}
	tracing.InjectToMap(ctx, carrier)
	require.Contains(t, carrier, "traceparent")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", carrier["traceparent"])

	extracted := tracing.ExtractFromHTTPRequest(context.Background(), req)

	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
}
