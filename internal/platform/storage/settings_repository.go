package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// settingsRowID pins the single settings row.
const settingsRowID = 1

// SettingsRepository persists the single-row store settings.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a settings repository instance.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get loads the settings, creating the default row on first access.
func (r *SettingsRepository) Get(ctx context.Context) (*StoreSettings, error) {
	const op = "settings.get"
	var settings StoreSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = StoreSettings{ID: settingsRowID}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "create default settings", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "load settings", err)
	}
	return &settings, nil
}

// Update applies partial fields and returns the fresh row.
func (r *SettingsRepository) Update(ctx context.Context, fields map[string]any) (*StoreSettings, error) {
	const op = "settings.update"
	if _, err := r.Get(ctx); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Model(&StoreSettings{}).
		Where("id = ?", settingsRowID).Updates(fields).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "update settings", err)
	}
	return r.Get(ctx)
}

// MaintenanceMode reports the flag; storage failures read as off so the
// storefront stays reachable.
func (r *SettingsRepository) MaintenanceMode(ctx context.Context) bool {
	settings, err := r.Get(ctx)
	if err != nil {
		return false
	}
	return settings.MaintenanceMode
}
