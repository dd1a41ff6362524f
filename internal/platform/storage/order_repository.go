package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// OrderRepository persists orders and their items.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository instance.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order with its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *Order) error {
	const op = "order.create"
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, op, "create order", err)
	}
	return nil
}

// Get loads one order with items.
func (r *OrderRepository) Get(ctx context.Context, id string) (*Order, error) {
	const op = "order.get"
	var order Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.New(platformerrors.KindNotFound, op, "order not found")
	}
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "load order", err)
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	const op = "order.list_by_user"
	var orders []Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "list orders", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first. Admin operation.
func (r *OrderRepository) ListAll(ctx context.Context) ([]Order, error) {
	const op = "order.list_all"
	var orders []Order
	err := r.db.WithContext(ctx).Preload("Items").Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "list orders", err)
	}
	return orders, nil
}

// UpdateStatus transitions the order status and returns the fresh row.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	const op = "order.update_status"
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
	default:
		return nil, platformerrors.New(platformerrors.KindValidation, op, "invalid order status: "+status)
	}

	res := r.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "update order", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, platformerrors.New(platformerrors.KindNotFound, op, "order not found")
	}
	return r.Get(ctx, id)
}
