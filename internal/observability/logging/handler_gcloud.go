//go:build gcloud

package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	gcpTraceKey        = "logging.googleapis.com/trace"
	gcpSpanKey         = "logging.googleapis.com/spanId"
	gcpTraceSampledKey = "logging.googleapis.com/trace_sampled"
)

// platformAttrs adds the Cloud Logging trace fields so scheduler firings and
// HTTP requests group under their trace in the console. Logs outside a span
// (cron bookkeeping, bootstrap) carry none.
func platformAttrs(ctx context.Context, projectID string) []slog.Attr {
	if projectID == "" {
		return nil
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}

	return []slog.Attr{
		slog.String(gcpTraceKey, gcpTraceName(projectID, sc.TraceID())),
		slog.String(gcpSpanKey, sc.SpanID().String()),
		slog.Bool(gcpTraceSampledKey, sc.IsSampled()),
	}
}

func gcpTraceName(projectID string, traceID trace.TraceID) string {
	return fmt.Sprintf("projects/%s/traces/%s", projectID, traceID.String())
}
