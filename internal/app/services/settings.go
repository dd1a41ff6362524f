package services

import (
	"context"

	evbus "github.com/asaskevich/EventBus"

	"github.com/codegoddy/skincare/internal/domain/broadcast"
	"github.com/codegoddy/skincare/internal/platform/storage"
)

// SettingsService owns the store settings, maintenance mode included.
type SettingsService struct {
	settings *storage.SettingsRepository
	bus      evbus.Bus
}

// NewSettingsService wires store settings management.
func NewSettingsService(settings *storage.SettingsRepository, bus evbus.Bus) *SettingsService {
	return &SettingsService{settings: settings, bus: bus}
}

// Get loads the settings.
func (s *SettingsService) Get(ctx context.Context) (*storage.StoreSettings, error) {
	return s.settings.Get(ctx)
}

// Update applies partial fields and announces the change. Admin operation.
func (s *SettingsService) Update(ctx context.Context, fields map[string]any) (*storage.StoreSettings, error) {
	updated, err := s.settings.Update(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(broadcast.EventSettingsUpdated, broadcast.SettingsEvent{
		Type:        broadcast.EventSettingsUpdated,
		Maintenance: updated.MaintenanceMode,
	})
	return updated, nil
}

// MaintenanceMode reports the flag; failures read as off.
func (s *SettingsService) MaintenanceMode(ctx context.Context) bool {
	return s.settings.MaintenanceMode(ctx)
}
