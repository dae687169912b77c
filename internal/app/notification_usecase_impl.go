package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
	"github.com/KasumiMercury/primind-habit-reminder/internal/scheduler"
)

type notificationUseCaseImpl struct {
	repo      domain.SettingsRepository
	scheduler ReminderScheduler
}

func NewNotificationUseCase(repo domain.SettingsRepository, scheduler ReminderScheduler) NotificationUseCase {
	return &notificationUseCaseImpl{
		repo:      repo,
		scheduler: scheduler,
	}
}

func (uc *notificationUseCaseImpl) GetSettings(ctx context.Context, input GetSettingsInput) (SettingsOutput, error) {
	userID, err := domain.UserIDFromString(input.UserID)
	if err != nil {
		return SettingsOutput{}, NewValidationError("user_id", err.Error())
	}

	settings, err := uc.repo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrSettingsNotFound) {
			slog.Error("failed to get reminder settings",
				"error", err,
				"user_id", input.UserID,
			)

			return SettingsOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		settings = domain.NewDefaultSettings(userID)
		if err := uc.repo.Save(ctx, settings); err != nil {
			slog.Error("failed to create default reminder settings",
				"error", err,
				"user_id", input.UserID,
			)

			return SettingsOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		slog.Info("default reminder settings created",
			"user_id", input.UserID,
		)
	}

	return FromEntity(settings, uc.nextFire(userID)), nil
}

func (uc *notificationUseCaseImpl) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (SettingsOutput, error) {
	userID, err := domain.UserIDFromString(input.UserID)
	if err != nil {
		return SettingsOutput{}, NewValidationError("user_id", err.Error())
	}

	settings, err := uc.loadOrDefault(ctx, userID)
	if err != nil {
		return SettingsOutput{}, err
	}

	enabled := settings.Enabled()
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	rawTime := settings.ReminderTime()
	if input.ReminderTime != nil {
		rawTime = *input.ReminderTime
	}

	reminderTime, err := domain.ParseReminderTime(rawTime)
	if err != nil {
		return SettingsOutput{}, NewValidationError("reminder_time", err.Error())
	}

	rawZone := settings.Timezone()
	if input.Timezone != nil {
		rawZone = *input.Timezone
	}

	tz, err := domain.ParseTimezone(rawZone)
	if err != nil {
		return SettingsOutput{}, NewValidationError("timezone", err.Error())
	}

	settings.UpdateSchedule(enabled, reminderTime, tz)

	return uc.saveAndSync(ctx, settings)
}

func (uc *notificationUseCaseImpl) RegisterToken(ctx context.Context, input RegisterTokenInput) (SettingsOutput, error) {
	userID, err := domain.UserIDFromString(input.UserID)
	if err != nil {
		return SettingsOutput{}, NewValidationError("user_id", err.Error())
	}

	target, err := domain.NewDeliveryTarget(input.FCMToken)
	if err != nil {
		return SettingsOutput{}, NewValidationError("fcm_token", err.Error())
	}

	settings, err := uc.loadOrDefault(ctx, userID)
	if err != nil {
		return SettingsOutput{}, err
	}

	settings.SetDeliveryTarget(target)

	return uc.saveAndSync(ctx, settings)
}

func (uc *notificationUseCaseImpl) loadOrDefault(ctx context.Context, userID domain.UserID) (*domain.ReminderSettings, error) {
	settings, err := uc.repo.FindByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}

	if errors.Is(err, domain.ErrSettingsNotFound) {
		return domain.NewDefaultSettings(userID), nil
	}

	slog.Error("failed to load reminder settings",
		"error", err,
		"user_id", userID.String(),
	)

	return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
}

// saveAndSync persists the settings and then asks the scheduler to follow
// the stored row: a schedulable user gets a (re)armed job, anyone else loses
// theirs.
func (uc *notificationUseCaseImpl) saveAndSync(ctx context.Context, settings *domain.ReminderSettings) (SettingsOutput, error) {
	userID := settings.UserID()

	if err := uc.repo.Save(ctx, settings); err != nil {
		slog.Error("failed to save reminder settings",
			"error", err,
			"user_id", userID.String(),
		)

		return SettingsOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	armed, err := uc.scheduler.Resync(ctx, userID)
	if err != nil {
		var invalid *scheduler.InvalidScheduleError
		if errors.As(err, &invalid) {
			return SettingsOutput{}, NewValidationError(invalid.Field, invalid.Err.Error())
		}

		slog.Error("failed to sync reminder job",
			"error", err,
			"user_id", userID.String(),
		)

		return SettingsOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if !armed {
		return FromEntity(settings, nil), nil
	}

	return FromEntity(settings, uc.nextFire(userID)), nil
}

func (uc *notificationUseCaseImpl) nextFire(userID domain.UserID) *time.Time {
	next, ok := uc.scheduler.NextFire(userID)
	if !ok {
		return nil
	}

	next = next.UTC()

	return &next
}
