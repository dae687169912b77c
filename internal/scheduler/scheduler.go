package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/metrics"
)

const (
	triggerDaily = "daily"
	triggerRetry = "retry"

	abandonWriteTimeout = 10 * time.Second
)

var tracer = otel.Tracer("github.com/KasumiMercury/primind-habit-reminder/internal/scheduler")

type ScheduleRequest struct {
	UserID         domain.UserID
	ReminderTime   string
	Timezone       string
	DeliveryTarget string
}

// ScheduledJob is a read-only snapshot of an armed job.
type ScheduledJob struct {
	UserID       domain.UserID
	ReminderTime domain.ReminderTime
	Timezone     domain.Timezone
	CronSpec     string
	RetryPending bool
}

type job struct {
	userID       domain.UserID
	reminderTime domain.ReminderTime
	timezone     domain.Timezone
	spec         string
	schedule     cron.Schedule
	entryID      cron.EntryID

	// guarded by the user lock
	retry    *time.Timer
	retryGen uint64

	inFlight atomic.Bool
}

type Scheduler struct {
	store     SettingsStore
	client    DeliveryClient
	tracker   *RetryTracker
	publisher EventPublisher
	metrics   *metrics.ReminderMetrics

	parser cron.Parser
	cron   *cron.Cron

	retryDelay      time.Duration
	deliveryTimeout time.Duration
	now             func() time.Time

	locks keyedMutex

	mu   sync.RWMutex
	jobs map[domain.UserID]*job

	runMu   sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

func New(store SettingsStore, client DeliveryClient, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		store:           store,
		client:          client,
		tracker:         NewRetryTracker(),
		parser:          cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		retryDelay:      DefaultRetryDelay,
		deliveryTimeout: DefaultDeliveryTimeout,
		now:             time.Now,
		jobs:            make(map[domain.UserID]*job),
		ctx:             ctx,
		cancel:          cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cron = cron.New(
		cron.WithParser(s.parser),
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{})),
	)

	return s
}

func (s *Scheduler) Start() {
	s.cron.Start()

	slog.Info("reminder scheduler started",
		slog.Int("jobs", s.Len()),
		slog.Duration("retry_delay", s.retryDelay),
	)
}

// Stop halts the cron loop, disarms pending retries and waits for in-flight
// deliveries until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.runMu.Lock()
	if s.stopped {
		s.runMu.Unlock()

		return nil
	}
	s.stopped = true
	s.runMu.Unlock()

	s.cancel()
	cronDone := s.cron.Stop()

	s.mu.RLock()
	users := make([]domain.UserID, 0, len(s.jobs))
	for userID := range s.jobs {
		users = append(users, userID)
	}
	s.mu.RUnlock()

	for _, userID := range users {
		unlock := s.locks.Lock(userID.String())
		s.mu.RLock()
		j := s.jobs[userID]
		s.mu.RUnlock()
		if j != nil {
			stopRetry(j)
		}
		unlock()
	}

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("reminder scheduler stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("reminder scheduler stop: %w", ctx.Err())
	}
}

// Schedule arms a daily job for the user from the request, replacing any
// existing one. Settings writes go through Resync instead, which reads the
// stored row under the same lock.
func (s *Scheduler) Schedule(req ScheduleRequest) error {
	j, err := s.newJob(req)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(j.userID.String())
	defer unlock()

	s.armLocked(j)

	return nil
}

// Resync makes the user's job match the stored settings: armed when the row
// is enabled with a target, absent otherwise. The read happens under the
// user lock, so the last Resync after a write always sees that write. It
// reports whether a job is armed afterwards. A job already armed for the
// same time and zone is left running with its retry state.
func (s *Scheduler) Resync(ctx context.Context, userID domain.UserID) (bool, error) {
	if userID.IsZero() {
		return false, &InvalidScheduleError{Field: "user_id", Err: domain.ErrInvalidUserID}
	}

	unlock := s.locks.Lock(userID.String())
	defer unlock()

	settings, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			s.removeLocked(userID)

			return false, nil
		}

		return false, fmt.Errorf("failed to read reminder settings: %w", err)
	}

	if !settings.IsSchedulable() {
		s.removeLocked(userID)

		return false, nil
	}

	j, err := s.newJob(ScheduleRequest{
		UserID:         userID,
		ReminderTime:   settings.ReminderTime(),
		Timezone:       settings.Timezone(),
		DeliveryTarget: settings.DeliveryTarget().Token(),
	})
	if err != nil {
		s.removeLocked(userID)

		return false, err
	}

	s.mu.RLock()
	current := s.jobs[userID]
	s.mu.RUnlock()

	if current != nil && current.spec == j.spec {
		return true, nil
	}

	s.armLocked(j)

	return true, nil
}

func (s *Scheduler) newJob(req ScheduleRequest) (*job, error) {
	if req.UserID.IsZero() {
		return nil, &InvalidScheduleError{Field: "user_id", Err: domain.ErrInvalidUserID}
	}

	userKey := req.UserID.String()

	reminderTime, err := domain.ParseReminderTime(req.ReminderTime)
	if err != nil {
		return nil, &InvalidScheduleError{UserID: userKey, Field: "reminder_time", Err: err}
	}

	tz, err := domain.ParseTimezone(req.Timezone)
	if err != nil {
		return nil, &InvalidScheduleError{UserID: userKey, Field: "timezone", Err: err}
	}

	if _, err := domain.NewDeliveryTarget(req.DeliveryTarget); err != nil {
		return nil, &InvalidScheduleError{UserID: userKey, Field: "delivery_target", Err: err}
	}

	spec := reminderTime.CronSpec(tz)

	schedule, err := s.parser.Parse(spec)
	if err != nil {
		return nil, &InvalidScheduleError{UserID: userKey, Field: "cron_spec", Err: err}
	}

	return &job{
		userID:       req.UserID,
		reminderTime: reminderTime,
		timezone:     tz,
		spec:         spec,
		schedule:     schedule,
	}, nil
}

// armLocked must be called with the user lock held.
func (s *Scheduler) armLocked(j *job) {
	s.mu.Lock()
	old, replaced := s.jobs[j.userID]
	if replaced {
		s.disarm(old)
	}
	j.entryID = s.cron.Schedule(j.schedule, cron.FuncJob(func() {
		s.fire(j, triggerDaily)
	}))
	s.jobs[j.userID] = j
	active := len(s.jobs)
	s.mu.Unlock()

	if replaced {
		s.tracker.Reset(j.userID)
	}

	s.metrics.SetActiveJobs(active)

	slog.Info("reminder scheduled",
		slog.String("user_id", j.userID.String()),
		slog.String("reminder_time", j.reminderTime.String()),
		slog.String("timezone", j.timezone.Name()),
		slog.Bool("replaced", replaced),
	)
}

// Cancel removes the user's job and any pending retry. It reports whether a
// job existed; cancelling an unknown user is a no-op.
func (s *Scheduler) Cancel(userID domain.UserID) bool {
	unlock := s.locks.Lock(userID.String())
	defer unlock()

	return s.removeLocked(userID)
}

func (s *Scheduler) NextFire(userID domain.UserID) (time.Time, bool) {
	s.mu.RLock()
	j, ok := s.jobs[userID]
	s.mu.RUnlock()

	if !ok {
		return time.Time{}, false
	}

	return j.schedule.Next(s.now()), true
}

func (s *Scheduler) Job(userID domain.UserID) (ScheduledJob, bool) {
	unlock := s.locks.Lock(userID.String())
	defer unlock()

	s.mu.RLock()
	j, ok := s.jobs[userID]
	s.mu.RUnlock()

	if !ok {
		return ScheduledJob{}, false
	}

	return ScheduledJob{
		UserID:       j.userID,
		ReminderTime: j.reminderTime,
		Timezone:     j.timezone,
		CronSpec:     j.spec,
		RetryPending: j.retry != nil,
	}, true
}

func (s *Scheduler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.jobs)
}

// removeLocked must be called with the user lock held.
func (s *Scheduler) removeLocked(userID domain.UserID) bool {
	s.mu.Lock()
	j, ok := s.jobs[userID]
	if ok {
		delete(s.jobs, userID)
		s.disarm(j)
	}
	active := len(s.jobs)
	s.mu.Unlock()

	if !ok {
		return false
	}

	s.tracker.Reset(userID)
	s.metrics.SetActiveJobs(active)

	slog.Info("reminder cancelled", slog.String("user_id", userID.String()))

	return true
}

func (s *Scheduler) disarm(j *job) {
	s.cron.Remove(j.entryID)
	stopRetry(j)
}

func stopRetry(j *job) {
	if j.retry != nil {
		j.retry.Stop()
		j.retry = nil
	}
	j.retryGen++
}

func (s *Scheduler) isCurrent(j *job) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.jobs[j.userID] == j
}

func (s *Scheduler) begin() (context.Context, bool) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.stopped {
		return nil, false
	}

	s.wg.Add(1)

	return s.ctx, true
}

// fire runs one delivery attempt for the job. The daily entry and the retry
// timer both land here.
func (s *Scheduler) fire(j *job, trigger string) {
	ctx, ok := s.begin()
	if !ok {
		return
	}
	defer s.wg.Done()

	userKey := j.userID.String()

	if !s.isCurrent(j) {
		slog.Debug("firing for stale reminder ignored",
			slog.String("user_id", userKey),
			slog.String("trigger", trigger),
		)

		return
	}

	if !j.inFlight.CompareAndSwap(false, true) {
		s.metrics.IncSkipped("in_flight")
		slog.Warn("delivery already in flight, skipping firing",
			slog.String("user_id", userKey),
			slog.String("trigger", trigger),
		)

		return
	}
	defer j.inFlight.Store(false)

	ctx, span := tracer.Start(ctx, "reminder.fire",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("user_id", userKey),
			attribute.String("trigger", trigger),
			attribute.String("reminder_time", j.reminderTime.String()),
			attribute.String("timezone", j.timezone.Name()),
		),
	)
	defer span.End()

	outcome, target, attempted := s.attempt(ctx, j, trigger)
	if !attempted {
		return
	}

	span.SetAttributes(attribute.String("outcome", outcome.Kind.String()))
	if outcome.Kind != OutcomeDelivered {
		span.SetStatus(codes.Error, outcome.ReasonString())
	}

	s.handleOutcome(ctx, j, target, outcome)
}

// attempt also returns the target the send went to, so an abandon purges
// exactly that target.
func (s *Scheduler) attempt(ctx context.Context, j *job, trigger string) (Outcome, domain.DeliveryTarget, bool) {
	userKey := j.userID.String()

	settings, err := s.store.FindByUserID(ctx, j.userID)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			s.metrics.IncSkipped("not_found")
			slog.Warn("reminder settings missing, cancelling job",
				slog.String("user_id", userKey),
			)
			s.cancelIfCurrent(j)

			return Outcome{}, domain.DeliveryTarget{}, false
		}

		s.metrics.IncSkipped("store_error")
		slog.Error("failed to read reminder settings",
			slog.String("user_id", userKey),
			slog.String("trigger", trigger),
			slog.String("error", err.Error()),
		)

		return Outcome{}, domain.DeliveryTarget{}, false
	}

	if reason, ok := skipReason(j, settings); !ok {
		s.metrics.IncSkipped(reason)
		slog.Debug("firing skipped",
			slog.String("user_id", userKey),
			slog.String("trigger", trigger),
			slog.String("reason", reason),
		)

		return Outcome{}, domain.DeliveryTarget{}, false
	}

	payload := NewDailyReminderPayload(j.userID, j.reminderTime, j.timezone)

	sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()

	target := settings.DeliveryTarget()

	start := time.Now()
	outcome := s.client.Send(sendCtx, target, payload)
	s.metrics.ObserveDelivery(outcome.Kind.String(), time.Since(start))

	slog.Info("reminder delivery attempted",
		slog.String("user_id", userKey),
		slog.String("trigger", trigger),
		slog.String("outcome", outcome.Kind.String()),
		slog.String("reason", outcome.ReasonString()),
	)

	return outcome, target, true
}

// skipReason reports whether the stored settings still call for the firing
// this job was armed for.
func skipReason(j *job, settings *domain.ReminderSettings) (string, bool) {
	if !settings.Enabled() {
		return "disabled", false
	}

	stored, err := domain.ParseReminderTime(settings.ReminderTime())
	if err != nil || !stored.Equals(j.reminderTime) {
		return "time_mismatch", false
	}

	if !settings.HasDeliveryTarget() {
		return "no_target", false
	}

	return "", true
}

func (s *Scheduler) cancelIfCurrent(j *job) {
	unlock := s.locks.Lock(j.userID.String())
	defer unlock()

	if s.isCurrent(j) {
		s.removeLocked(j.userID)
	}
}

func (s *Scheduler) handleOutcome(ctx context.Context, j *job, target domain.DeliveryTarget, outcome Outcome) {
	userKey := j.userID.String()

	unlock := s.locks.Lock(userKey)

	if !s.isCurrent(j) {
		unlock()
		slog.Info("discarding delivery outcome for cancelled reminder",
			slog.String("user_id", userKey),
			slog.String("outcome", outcome.Kind.String()),
		)

		return
	}

	action := s.tracker.RecordOutcome(j.userID, outcome)

	var event *AbandonedEvent

	switch {
	case action == ActionAbandon:
		event = s.abandonLocked(ctx, j, target, outcome)
	case outcome.Kind == OutcomeDelivered:
		stopRetry(j)
	default:
		s.armRetryLocked(j)
	}

	unlock()

	if event != nil {
		s.publishAbandoned(ctx, *event)
	}
}

func (s *Scheduler) armRetryLocked(j *job) {
	stopRetry(j)

	gen := j.retryGen
	j.retry = time.AfterFunc(s.retryDelay, func() {
		s.fireRetry(j, gen)
	})

	s.metrics.IncRetryScheduled()

	slog.Info("reminder retry scheduled",
		slog.String("user_id", j.userID.String()),
		slog.Int("consecutive_failures", s.tracker.Failures(j.userID)),
		slog.Duration("delay", s.retryDelay),
	)
}

func (s *Scheduler) fireRetry(j *job, gen uint64) {
	unlock := s.locks.Lock(j.userID.String())
	armed := s.isCurrent(j) && j.retryGen == gen
	if armed {
		j.retry = nil
	}
	unlock()

	if !armed {
		return
	}

	s.fire(j, triggerRetry)
}

// abandonLocked disables the user in the store and removes the job. The job
// is removed even when the store write fails. When the user registered a new
// target after the failed send, nothing is purged and the job keeps running
// against the new target.
func (s *Scheduler) abandonLocked(ctx context.Context, j *job, target domain.DeliveryTarget, outcome Outcome) *AbandonedEvent {
	reason := AbandonRetriesExhausted
	if outcome.Kind == OutcomePermanentInvalidTarget {
		reason = AbandonInvalidTarget
	}

	userKey := j.userID.String()

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abandonWriteTimeout)
	defer cancel()

	err := s.store.DisableAndPurgeTarget(writeCtx, j.userID, target)
	switch {
	case errors.Is(err, domain.ErrDeliveryTargetChanged):
		stopRetry(j)
		s.tracker.Reset(j.userID)

		slog.Info("delivery target replaced since the failed send, not abandoning",
			slog.String("user_id", userKey),
			slog.String("reason", string(reason)),
		)

		return nil
	case err != nil && !errors.Is(err, domain.ErrSettingsNotFound):
		slog.Error("failed to purge delivery target after abandon",
			slog.String("user_id", userKey),
			slog.String("error", err.Error()),
		)
	}

	s.removeLocked(j.userID)
	s.metrics.IncAbandoned(string(reason))

	slog.Warn("reminder abandoned",
		slog.String("user_id", userKey),
		slog.String("reason", string(reason)),
		slog.String("last_error", outcome.ReasonString()),
	)

	return &AbandonedEvent{
		UserID:      j.userID,
		Reason:      reason,
		LastError:   outcome.ReasonString(),
		AbandonedAt: s.now().UTC(),
	}
}

func (s *Scheduler) publishAbandoned(ctx context.Context, event AbandonedEvent) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishReminderAbandoned(context.WithoutCancel(ctx), event); err != nil {
		slog.Warn("failed to publish reminder abandoned event",
			slog.String("user_id", event.UserID.String()),
			slog.String("error", err.Error()),
		)
	}
}
