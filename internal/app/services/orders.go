package services

import (
	"context"
	"math"

	evbus "github.com/asaskevich/EventBus"
	"gorm.io/datatypes"

	"github.com/codegoddy/skincare/internal/domain/broadcast"
	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
	"github.com/codegoddy/skincare/internal/platform/storage"
)

// OrderService places orders with totals derived from the store settings
// and announces lifecycle changes.
type OrderService struct {
	orders   *storage.OrderRepository
	settings *storage.SettingsRepository
	bus      evbus.Bus
}

// NewOrderService wires order placement and lifecycle.
func NewOrderService(orders *storage.OrderRepository, settings *storage.SettingsRepository, bus evbus.Bus) *OrderService {
	return &OrderService{orders: orders, settings: settings, bus: bus}
}

// Place creates an order for the user. Subtotal comes from the items; tax
// and shipping come from the store settings, with shipping waived above the
// free-shipping threshold.
func (s *OrderService) Place(ctx context.Context, userID string, items []storage.OrderItem, shippingAddress datatypes.JSON) (*storage.Order, error) {
	const op = "orders.Place"
	if len(items) == 0 {
		return nil, platformerrors.New(platformerrors.KindValidation, op, "order needs at least one item")
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Price < 0 {
			return nil, platformerrors.New(platformerrors.KindValidation, op, "invalid order item")
		}
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	shipping := cfg.ShippingFee
	if cfg.FreeShippingThreshold != nil && subtotal >= *cfg.FreeShippingThreshold {
		shipping = 0
	}
	tax := round2(subtotal * cfg.TaxRate / 100)

	order := &storage.Order{
		UserID:          userID,
		Status:          storage.OrderStatusPending,
		Subtotal:        round2(subtotal),
		Shipping:        shipping,
		Tax:             tax,
		Total:           round2(subtotal + shipping + tax),
		ShippingAddress: shippingAddress,
		Items:           items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.bus.Publish(broadcast.EventOrderCreated, broadcast.OrderEvent{
		Type:    broadcast.EventOrderCreated,
		OrderID: order.ID,
		UserID:  userID,
		Status:  order.Status,
	})
	return order, nil
}

// Get loads one order, refusing access to other users' orders unless the
// caller is staff.
func (s *OrderService) Get(ctx context.Context, id, userID string, staff bool) (*storage.Order, error) {
	const op = "orders.Get"
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff && order.UserID != userID {
		return nil, platformerrors.New(platformerrors.KindNotFound, op, "order not found")
	}
	return order, nil
}

// ListMine returns the user's orders.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]storage.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns every order. Admin operation.
func (s *OrderService) ListAll(ctx context.Context) ([]storage.Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus transitions the order and announces the change. Admin
// operation.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*storage.Order, error) {
	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(broadcast.EventOrderStatusChanged, broadcast.OrderEvent{
		Type:    broadcast.EventOrderStatusChanged,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
	})
	return order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
