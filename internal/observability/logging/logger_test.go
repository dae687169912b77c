package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "WARN", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "info", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.ParseLevel(tt.input))
		})
	}
}

func TestContextHandlerAddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.NewHandler(&buf, logging.Config{
		Level:         "debug",
		Service:       logging.ServiceInfo{Name: "habit-reminder", Version: "test"},
		Environment:   logging.EnvDev,
		DefaultModule: logging.Module("reminder"),
	}))

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	ctx = logging.WithRequestID(ctx, "req-1")
	ctx = logging.WithModule(ctx, logging.Module("http"))

	logger.InfoContext(ctx, "hello", slog.String("user_id", "u-1"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "habit-reminder", record["service"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "http", record["module"])
	assert.Equal(t, "u-1", record["user_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
}

func TestContextHandlerFallsBackToDefaultModule(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.NewHandler(&buf, logging.Config{
		Level:         "info",
		DefaultModule: logging.Module("reminder"),
	}))

	logger.Debug("filtered")
	logger.Info("kept")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "reminder", record["module"])
	assert.NotContains(t, record, "request_id")
}

func TestValidateAndExtractRequestID(t *testing.T) {
	valid := uuid.NewString()

	assert.Equal(t, valid, logging.ValidateAndExtractRequestID(valid))

	generated := logging.ValidateAndExtractRequestID("not-a-uuid")
	parsed, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	assert.NotEmpty(t, logging.ValidateAndExtractRequestID(""))
}
