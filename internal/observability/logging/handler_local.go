//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

func platformAttrs(context.Context, string) []slog.Attr {
	return nil
}
