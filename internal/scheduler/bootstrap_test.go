package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

func TestLoadAllSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSettingsSource(ctrl)
	store := newFakeStore()

	valid := domain.NewUserID()
	disabled := domain.NewUserID()
	malformed := domain.NewUserID()
	noTarget := domain.NewUserID()
	badZone := domain.NewUserID()

	store.put(enabledSettings(t, valid, "08:00", "Europe/Berlin", "token-a"))
	store.put(domain.Reconstitute(disabled, false, "09:00", "UTC", mustTarget(t, "token-b"), time.Now(), time.Now()))
	store.put(enabledSettings(t, malformed, "25:99", "UTC", "token-c"))
	store.put(enabledSettings(t, noTarget, "10:00", "UTC", ""))
	store.put(enabledSettings(t, badZone, "10:00", "Nowhere/Special", "token-d"))

	source.EXPECT().
		FindEnabledUserIDs(gomock.Any()).
		Return([]string{
			valid.String(),
			disabled.String(),
			malformed.String(),
			noTarget.String(),
			badZone.String(),
			"not-a-uuid",
		}, nil)

	s := New(store, newScriptedClient())
	loader := NewLoader(source, s, nil)

	armed, err := loader.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, armed)
	assert.Equal(t, 1, s.Len())

	snapshot, ok := s.Job(valid)
	require.True(t, ok)
	assert.Equal(t, "CRON_TZ=Europe/Berlin 0 8 * * *", snapshot.CronSpec)

	for _, userID := range []domain.UserID{disabled, malformed, noTarget, badZone} {
		_, ok := s.Job(userID)
		assert.False(t, ok)
	}
}

func TestLoadAllRereadsSettingsChangedAfterListing(t *testing.T) {
	tests := []struct {
		name          string
		update        func(t *testing.T, userID domain.UserID) *domain.ReminderSettings
		expectedArmed int
		expectedSpec  string
	}{
		{
			name: "disabled after listing",
			update: func(t *testing.T, userID domain.UserID) *domain.ReminderSettings {
				return domain.Reconstitute(userID, false, "08:00", "UTC", mustTarget(t, "token"), time.Now(), time.Now())
			},
			expectedArmed: 0,
		},
		{
			name: "time changed after listing",
			update: func(t *testing.T, userID domain.UserID) *domain.ReminderSettings {
				return enabledSettings(t, userID, "21:45", "UTC", "token")
			},
			expectedArmed: 1,
			expectedSpec:  "CRON_TZ=UTC 45 21 * * *",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := NewMockSettingsSource(ctrl)
			store := newFakeStore()

			userID := domain.NewUserID()
			store.put(enabledSettings(t, userID, "08:00", "UTC", "token"))

			source.EXPECT().
				FindEnabledUserIDs(gomock.Any()).
				DoAndReturn(func(_ context.Context) ([]string, error) {
					ids := []string{userID.String()}
					store.put(tt.update(t, userID))

					return ids, nil
				})

			s := New(store, newScriptedClient())

			armed, err := NewLoader(source, s, nil).LoadAll(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expectedArmed, armed)
			assert.Equal(t, tt.expectedArmed, s.Len())

			snapshot, ok := s.Job(userID)
			if tt.expectedArmed == 0 {
				assert.False(t, ok)

				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.expectedSpec, snapshot.CronSpec)
		})
	}
}

func TestLoadAllSkipsUnreadableSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSettingsSource(ctrl)
	store := newFakeStore()
	store.findErr = errors.New("connection reset")

	source.EXPECT().
		FindEnabledUserIDs(gomock.Any()).
		Return([]string{domain.NewUserID().String()}, nil)

	s := New(store, newScriptedClient())

	armed, err := NewLoader(source, s, nil).LoadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, armed)
	assert.Equal(t, 0, s.Len())
}

func TestLoadAllEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSettingsSource(ctrl)
	source.EXPECT().FindEnabledUserIDs(gomock.Any()).Return(nil, nil)

	armed, err := NewLoader(source, New(newFakeStore(), newScriptedClient()), nil).LoadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, armed)
}

func TestLoadAllError(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSettingsSource(ctrl)

	dbErr := errors.New("connection refused")
	source.EXPECT().FindEnabledUserIDs(gomock.Any()).Return(nil, dbErr)

	armed, err := NewLoader(source, New(newFakeStore(), newScriptedClient()), nil).LoadAll(context.Background())

	require.ErrorIs(t, err, dbErr)
	assert.Equal(t, 0, armed)
}

func TestLoadAllStopsWhenContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockSettingsSource(ctrl)
	store := newFakeStore()

	userID := domain.NewUserID()
	store.put(enabledSettings(t, userID, "08:00", "UTC", "token"))

	source.EXPECT().
		FindEnabledUserIDs(gomock.Any()).
		Return([]string{userID.String()}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	armed, err := NewLoader(source, New(store, newScriptedClient()), nil).LoadAll(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, armed)
}
