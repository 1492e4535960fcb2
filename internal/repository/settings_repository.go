package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"affiliate-engine/internal/models"
)

// ListSettings returns every stored settings row
func (r *Repository) ListSettings(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// SettingsMap returns the stored settings as key/value pairs
func (r *Repository) SettingsMap(ctx context.Context) (map[string]string, error) {
	rows, err := r.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// UpsertSettings writes the given keys in a single transaction
func (r *Repository) UpsertSettings(ctx context.Context, values map[string]string, updatedBy uint) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.Setting, 0, len(values))
	for key, value := range values {
		rows = append(rows, models.Setting{Key: key, Value: value, UpdatedBy: &updatedBy, UpdatedAt: now})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).Create(&rows).Error
	})
}

// CreateAdminLog records a back-office action
func (r *Repository) CreateAdminLog(ctx context.Context, entry *models.AdminLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAdminLogs returns the most recent back-office actions
func (r *Repository) ListAdminLogs(ctx context.Context, limit int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
