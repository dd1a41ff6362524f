package services

import (
	"context"

	evbus "github.com/asaskevich/EventBus"

	"github.com/codegoddy/skincare/internal/domain/broadcast"
	"github.com/codegoddy/skincare/internal/platform/storage"
)

// CatalogService owns product mutations and announces them on the bus so
// live subscribers see catalog changes as they land.
type CatalogService struct {
	products *storage.ProductRepository
	bus      evbus.Bus
}

// NewCatalogService wires the catalog mutations.
func NewCatalogService(products *storage.ProductRepository, bus evbus.Bus) *CatalogService {
	return &CatalogService{products: products, bus: bus}
}

// List returns products matching the filter plus the unpaged total.
func (s *CatalogService) List(ctx context.Context, filter storage.ProductFilter) ([]storage.Product, int64, error) {
	return s.products.List(ctx, filter)
}

// Get loads one product.
func (s *CatalogService) Get(ctx context.Context, id string) (*storage.Product, error) {
	return s.products.Get(ctx, id)
}

// Create inserts the product and announces it.
func (s *CatalogService) Create(ctx context.Context, product *storage.Product) error {
	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.bus.Publish(broadcast.EventProductCreated, broadcast.ProductEvent{
		Type:    broadcast.EventProductCreated,
		ID:      product.ID,
		Product: product,
	})
	return nil
}

// Update applies partial fields and announces the result.
func (s *CatalogService) Update(ctx context.Context, id string, fields map[string]any) (*storage.Product, error) {
	product, err := s.products.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(broadcast.EventProductUpdated, broadcast.ProductEvent{
		Type:    broadcast.EventProductUpdated,
		ID:      product.ID,
		Product: product,
	})
	return product, nil
}

// Delete removes the product and announces the removal.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(broadcast.EventProductDeleted, broadcast.ProductEvent{
		Type: broadcast.EventProductDeleted,
		ID:   id,
	})
	return nil
}
