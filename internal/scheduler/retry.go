package scheduler

import (
	"sync"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

// MaxConsecutiveFailures is the number of transient failures in a row after
// which a user is abandoned.
const MaxConsecutiveFailures = 3

type Action int

const (
	ActionNone Action = iota
	ActionAbandon
)

func (a Action) String() string {
	if a == ActionAbandon {
		return "abandon"
	}

	return "none"
}

type RetryTracker struct {
	mu       sync.Mutex
	limit    int
	failures map[domain.UserID]int
}

func NewRetryTracker() *RetryTracker {
	return NewRetryTrackerWithLimit(MaxConsecutiveFailures)
}

func NewRetryTrackerWithLimit(limit int) *RetryTracker {
	if limit < 1 {
		limit = 1
	}

	return &RetryTracker{
		limit:    limit,
		failures: make(map[domain.UserID]int),
	}
}

// RecordOutcome folds one delivery outcome into the user's failure count.
// The count is cleared whenever the result is ActionAbandon.
func (t *RetryTracker) RecordOutcome(userID domain.UserID, outcome Outcome) Action {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch outcome.Kind {
	case OutcomeDelivered:
		delete(t.failures, userID)

		return ActionNone
	case OutcomePermanentInvalidTarget:
		delete(t.failures, userID)

		return ActionAbandon
	default:
		n := t.failures[userID] + 1
		if n >= t.limit {
			delete(t.failures, userID)

			return ActionAbandon
		}

		t.failures[userID] = n

		return ActionNone
	}
}

func (t *RetryTracker) Failures(userID domain.UserID) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.failures[userID]
}

func (t *RetryTracker) Reset(userID domain.UserID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.failures, userID)
}
