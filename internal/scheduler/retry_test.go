package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

func TestRetryTrackerRecordOutcome(t *testing.T) {
	transient := TransientFailure(errors.New("timeout"))
	permanent := PermanentInvalidTarget(errors.New("unregistered"))
	delivered := Delivered("m-1")

	tests := []struct {
		name             string
		outcomes         []Outcome
		expectedActions  []Action
		expectedFailures int
	}{
		{
			name:             "delivered keeps count at zero",
			outcomes:         []Outcome{delivered},
			expectedActions:  []Action{ActionNone},
			expectedFailures: 0,
		},
		{
			name:             "two transient failures keep going",
			outcomes:         []Outcome{transient, transient},
			expectedActions:  []Action{ActionNone, ActionNone},
			expectedFailures: 2,
		},
		{
			name:             "third transient failure abandons and resets",
			outcomes:         []Outcome{transient, transient, transient},
			expectedActions:  []Action{ActionNone, ActionNone, ActionAbandon},
			expectedFailures: 0,
		},
		{
			name:             "delivered in between resets the streak",
			outcomes:         []Outcome{transient, transient, delivered, transient, transient},
			expectedActions:  []Action{ActionNone, ActionNone, ActionNone, ActionNone, ActionNone},
			expectedFailures: 2,
		},
		{
			name:             "permanent failure abandons immediately",
			outcomes:         []Outcome{transient, permanent},
			expectedActions:  []Action{ActionNone, ActionAbandon},
			expectedFailures: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewRetryTracker()
			userID := domain.NewUserID()

			actions := make([]Action, 0, len(tt.outcomes))
			for _, o := range tt.outcomes {
				actions = append(actions, tracker.RecordOutcome(userID, o))
			}

			assert.Equal(t, tt.expectedActions, actions)
			assert.Equal(t, tt.expectedFailures, tracker.Failures(userID))
		})
	}
}

func TestRetryTrackerIsolatesUsers(t *testing.T) {
	tracker := NewRetryTracker()
	a := domain.NewUserID()
	b := domain.NewUserID()
	transient := TransientFailure(errors.New("timeout"))

	tracker.RecordOutcome(a, transient)
	tracker.RecordOutcome(a, transient)
	tracker.RecordOutcome(b, transient)

	assert.Equal(t, 2, tracker.Failures(a))
	assert.Equal(t, 1, tracker.Failures(b))

	tracker.Reset(a)

	assert.Equal(t, 0, tracker.Failures(a))
	assert.Equal(t, 1, tracker.Failures(b))
}

func TestRetryTrackerWithLimit(t *testing.T) {
	tracker := NewRetryTrackerWithLimit(0)
	userID := domain.NewUserID()

	assert.Equal(t, ActionAbandon, tracker.RecordOutcome(userID, TransientFailure(errors.New("x"))))
}
