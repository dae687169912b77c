//go:build gcloud

package metrics

import (
	"context"
	"fmt"
	"os"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func NewProvider(_ context.Context, cfg Config) (*Provider, error) {
	if os.Getenv("OTEL_EXPORTER_DISABLED") == "true" {
		return newNoopProvider(cfg)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	exporter, err := mexporter.New(mexporter.WithProjectID(projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud monitoring exporter: %w", err)
	}

	return newProvider(cfg, sdkmetric.NewPeriodicReader(exporter))
}

// newNoopProvider keeps /metrics but pushes nothing to Cloud Monitoring.
func newNoopProvider(cfg Config) (*Provider, error) {
	return newProvider(cfg)
}
