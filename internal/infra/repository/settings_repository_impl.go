package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

type settingsRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) domain.SettingsRepository {
	return &settingsRepositoryImpl{
		db: db,
	}
}

func (r *settingsRepositoryImpl) FindByUserID(ctx context.Context, userID domain.UserID) (*domain.ReminderSettings, error) {
	slog.Debug("finding reminder settings by user ID",
		"user_id", userID.String(),
	)

	var m SettingsModel

	result := r.db.WithContext(ctx).Where("user_id = ?", userID.String()).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("reminder settings not found",
				"user_id", userID.String(),
			)

			return nil, domain.ErrSettingsNotFound
		}

		slog.Error("failed to find reminder settings",
			"user_id", userID.String(),
			"error", result.Error,
		)

		return nil, result.Error
	}

	return m.ToEntity()
}

func (r *settingsRepositoryImpl) FindEnabledUserIDs(ctx context.Context) ([]string, error) {
	var userIDs []string

	result := r.db.WithContext(ctx).
		Model(&SettingsModel{}).
		Where("enabled = ?", true).
		Order("user_id ASC").
		Pluck("user_id", &userIDs)
	if result.Error != nil {
		slog.Error("failed to list enabled reminder settings",
			"error", result.Error,
		)

		return nil, result.Error
	}

	slog.Debug("enabled reminder settings found",
		"count", len(userIDs),
	)

	return userIDs, nil
}

func (r *settingsRepositoryImpl) Save(ctx context.Context, settings *domain.ReminderSettings) error {
	slog.Debug("saving reminder settings",
		"user_id", settings.UserID().String(),
	)

	m := FromEntity(settings)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "reminder_time", "timezone", "delivery_target", "updated_at",
			}),
		}).
		Create(m)
	if result.Error != nil {
		slog.Error("failed to save reminder settings",
			"user_id", settings.UserID().String(),
			"error", result.Error,
		)

		return result.Error
	}

	return nil
}

func (r *settingsRepositoryImpl) DisableAndPurgeTarget(ctx context.Context, userID domain.UserID, target domain.DeliveryTarget) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m SettingsModel

		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID.String()).
			First(&m)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domain.ErrSettingsNotFound
			}

			return result.Error
		}

		settings, err := m.ToEntity()
		if err != nil {
			return err
		}

		if !settings.DeliveryTarget().Equals(target) {
			return domain.ErrDeliveryTargetChanged
		}

		settings.PurgeDeliveryTarget()
		purged := FromEntity(settings)

		result = tx.Model(purged).
			Select("enabled", "delivery_target", "updated_at").
			Where("delivery_target = ?", target.Token()).
			Updates(purged)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return domain.ErrDeliveryTargetChanged
		}

		return nil
	})

	switch {
	case err == nil:
		slog.Info("reminder disabled and delivery target purged",
			"user_id", userID.String(),
		)

		return nil
	case errors.Is(err, domain.ErrSettingsNotFound), errors.Is(err, domain.ErrDeliveryTargetChanged):
		slog.Debug("reminder settings left untouched by purge",
			"user_id", userID.String(),
			"reason", err.Error(),
		)

		return err
	default:
		slog.Error("failed to disable reminder settings",
			"user_id", userID.String(),
			"error", err,
		)

		return err
	}
}
