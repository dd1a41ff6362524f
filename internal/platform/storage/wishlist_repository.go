package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// WishlistRepository persists per-user wishlists.
type WishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a wishlist repository instance.
func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add inserts the item; adding a product twice is a conflict.
func (r *WishlistRepository) Add(ctx context.Context, item *WishlistItem) error {
	const op = "wishlist.add"
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.New(platformerrors.KindConflict, op, "product already in wishlist")
		}
		return platformerrors.Wrap(platformerrors.KindStorage, op, "add wishlist item", err)
	}
	return nil
}

// List returns a user's wishlist, newest first.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]WishlistItem, error) {
	const op = "wishlist.list"
	var items []WishlistItem
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at desc").Find(&items).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "list wishlist", err)
	}
	return items, nil
}

// Remove deletes one item by product id.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	const op = "wishlist.remove"
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&WishlistItem{})
	if res.Error != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, op, "remove wishlist item", res.Error)
	}
	if res.RowsAffected == 0 {
		return platformerrors.New(platformerrors.KindNotFound, op, "wishlist item not found")
	}
	return nil
}

// Clear removes all of a user's items.
func (r *WishlistRepository) Clear(ctx context.Context, userID string) error {
	const op = "wishlist.clear"
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&WishlistItem{}).Error; err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, op, "clear wishlist", err)
	}
	return nil
}
