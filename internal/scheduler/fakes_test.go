package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

type fakeStore struct {
	mu       sync.Mutex
	settings map[domain.UserID]*domain.ReminderSettings
	purged   []domain.UserID
	findErr  error
	purgeErr error

	// beforePurge runs inside DisableAndPurgeTarget before the target check.
	beforePurge func(f *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[domain.UserID]*domain.ReminderSettings)}
}

func (f *fakeStore) put(s *domain.ReminderSettings) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.putLocked(s)
}

func (f *fakeStore) putLocked(s *domain.ReminderSettings) {
	f.settings[s.UserID()] = s
}

func (f *fakeStore) FindByUserID(_ context.Context, userID domain.UserID) (*domain.ReminderSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}

	s, ok := f.settings[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}

	return s, nil
}

func (f *fakeStore) DisableAndPurgeTarget(_ context.Context, userID domain.UserID, target domain.DeliveryTarget) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.purged = append(f.purged, userID)

	if f.purgeErr != nil {
		return f.purgeErr
	}

	if f.beforePurge != nil {
		f.beforePurge(f)
	}

	s, ok := f.settings[userID]
	if !ok {
		return domain.ErrSettingsNotFound
	}

	if !s.DeliveryTarget().Equals(target) {
		return domain.ErrDeliveryTargetChanged
	}

	s.PurgeDeliveryTarget()

	return nil
}

func (f *fakeStore) purgedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.purged)
}

// scriptedClient returns queued outcomes in order and Delivered once the
// queue is empty. Tokens registered with block wait until released.
type scriptedClient struct {
	mu       sync.Mutex
	outcomes []Outcome
	calls    map[string]int
	gates    map[string]chan Outcome
	started  chan string
}

func newScriptedClient(outcomes ...Outcome) *scriptedClient {
	return &scriptedClient{
		outcomes: outcomes,
		calls:    make(map[string]int),
		gates:    make(map[string]chan Outcome),
		started:  make(chan string, 16),
	}
}

func (c *scriptedClient) block(token string) chan<- Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	gate := make(chan Outcome)
	c.gates[token] = gate

	return gate
}

func (c *scriptedClient) Send(ctx context.Context, target domain.DeliveryTarget, _ Payload) Outcome {
	c.mu.Lock()
	c.calls[target.Token()]++
	gate := c.gates[target.Token()]

	outcome := Delivered("msg")
	if len(c.outcomes) > 0 {
		outcome = c.outcomes[0]
		c.outcomes = c.outcomes[1:]
	}
	c.mu.Unlock()

	if gate == nil {
		return outcome
	}

	c.started <- target.Token()

	select {
	case o := <-gate:
		return o
	case <-ctx.Done():
		return TransientFailure(ctx.Err())
	}
}

func (c *scriptedClient) callCount(token string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls[token]
}

func enabledSettings(t *testing.T, userID domain.UserID, reminderTime, tz, token string) *domain.ReminderSettings {
	t.Helper()

	var target domain.DeliveryTarget
	if token != "" {
		var err error
		target, err = domain.NewDeliveryTarget(token)
		require.NoError(t, err)
	}

	return domain.Reconstitute(userID, true, reminderTime, tz, target, time.Now(), time.Now())
}

func scheduleRequest(userID domain.UserID, reminderTime, tz, token string) ScheduleRequest {
	return ScheduleRequest{
		UserID:         userID,
		ReminderTime:   reminderTime,
		Timezone:       tz,
		DeliveryTarget: token,
	}
}

func currentJob(t *testing.T, s *Scheduler, userID domain.UserID) *job {
	t.Helper()

	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[userID]
	require.True(t, ok, "no job armed for %s", userID)

	return j
}
