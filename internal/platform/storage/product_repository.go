package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Search      string
	ProductType string
	ActiveOnly  bool
	Limit       int
	Offset      int
}

// ProductRepository persists the catalog.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository instance.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product, assigning an id when absent.
func (r *ProductRepository) Create(ctx context.Context, product *Product) error {
	const op = "product.create"
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, op, "create product", err)
	}
	return nil
}

// Get loads one product.
func (r *ProductRepository) Get(ctx context.Context, id string) (*Product, error) {
	const op = "product.get"
	var product Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, platformerrors.New(platformerrors.KindNotFound, op, "product not found")
	}
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "load product", err)
	}
	return &product, nil
}

// List returns products matching the filter plus the unpaged total.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]Product, int64, error) {
	const op = "product.list"
	q := r.db.WithContext(ctx).Model(&Product{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.ProductType != "" {
		q = q.Where("product_type = ?", filter.ProductType)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.Wrap(platformerrors.KindStorage, op, "count products", err)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var products []Product
	if err := q.Order("created_at desc").Find(&products).Error; err != nil {
		return nil, 0, platformerrors.Wrap(platformerrors.KindStorage, op, "list products", err)
	}
	return products, total, nil
}

// Update applies partial fields and returns the fresh row.
func (r *ProductRepository) Update(ctx context.Context, id string, fields map[string]any) (*Product, error) {
	const op = "product.update"
	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, platformerrors.New(platformerrors.KindNotFound, op, "product not found")
	}
	return r.Get(ctx, id)
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const op = "product.delete"
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, op, "delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return platformerrors.New(platformerrors.KindNotFound, op, "product not found")
	}
	return nil
}
