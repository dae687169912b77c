package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/metrics"
)

// JobScheduler re-reads one user's settings and arms or drops the job.
type JobScheduler interface {
	Resync(ctx context.Context, userID domain.UserID) (bool, error)
}

// Loader re-arms jobs for every enabled user after a restart.
type Loader struct {
	source    SettingsSource
	scheduler JobScheduler
	metrics   *metrics.ReminderMetrics
}

func NewLoader(source SettingsSource, scheduler JobScheduler, m *metrics.ReminderMetrics) *Loader {
	return &Loader{
		source:    source,
		scheduler: scheduler,
		metrics:   m,
	}
}

// LoadAll arms each enabled user that has a delivery target and returns how
// many jobs were armed. The listing only supplies ids: every user is re-read
// under the scheduler's user lock, so a settings write that lands while the
// loader runs is never overwritten by the listing. Per-user failures are
// logged and skipped; only a failure to list users is returned.
func (l *Loader) LoadAll(ctx context.Context) (int, error) {
	rawIDs, err := l.source.FindEnabledUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list enabled reminder settings: %w", err)
	}

	armed := 0
	skipped := 0

	for _, rawID := range rawIDs {
		if err := ctx.Err(); err != nil {
			return armed, fmt.Errorf("bootstrap interrupted: %w", err)
		}

		userID, err := domain.UserIDFromString(rawID)
		if err == nil {
			var ok bool
			ok, err = l.scheduler.Resync(ctx, userID)
			if ok {
				armed++
			}
		}

		if err != nil {
			l.logSkipped(&BootstrapItemError{UserID: rawID, Err: err})
			skipped++
		}
	}

	l.metrics.SetBootstrapArmed(armed)

	slog.Info("reminders bootstrapped",
		slog.Int("armed", armed),
		slog.Int("skipped", skipped),
		slog.Int("scanned", len(rawIDs)),
	)

	return armed, nil
}

func (l *Loader) logSkipped(itemErr *BootstrapItemError) {
	field := ""

	var invalid *InvalidScheduleError
	if errors.As(itemErr, &invalid) {
		field = invalid.Field
	}

	slog.Warn("skipping reminder during bootstrap",
		slog.String("user_id", itemErr.UserID),
		slog.String("field", field),
		slog.String("error", itemErr.Error()),
	)
}
