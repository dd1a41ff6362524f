package storage

import (
	"time"

	"gorm.io/datatypes"
)

// Profile mirrors the identity provider's subject with the locally managed
// role. The primary key is the provider's subject id.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `gorm:"not null;default:customer" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is one catalog entry.
type Product struct {
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `json:"description,omitempty"`
	Price          float64        `gorm:"not null" json:"price"`
	ComparePrice   *float64       `json:"compare_price,omitempty"`
	Images         datatypes.JSON `json:"images,omitempty"`
	ProductType    string         `gorm:"index" json:"product_type,omitempty"`
	SkinConcerns   datatypes.JSON `json:"skin_concerns,omitempty"`
	SkinTypes      datatypes.JSON `json:"skin_types,omitempty"`
	KeyIngredients datatypes.JSON `json:"key_ingredients,omitempty"`
	UsageTime      string         `json:"usage_time,omitempty"`
	Stock          int            `json:"stock"`
	InStock        bool           `gorm:"default:true" json:"in_stock"`
	IsActive       bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Order statuses walk pending -> processing -> shipped -> delivered, with
// cancelled as a terminal side exit.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is one placed order with its line items.
type Order struct {
	ID              string         `gorm:"primaryKey;size:64" json:"id"`
	UserID          string         `gorm:"index;not null" json:"user_id"`
	Status          string         `gorm:"not null;default:pending" json:"status"`
	Subtotal        float64        `json:"subtotal"`
	Shipping        float64        `json:"shipping"`
	Tax             float64        `json:"tax"`
	Total           float64        `json:"total"`
	ShippingAddress datatypes.JSON `json:"shipping_address,omitempty"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OrderItem is one line of an order, denormalized so the order survives
// later catalog edits.
type OrderItem struct {
	ID        string  `gorm:"primaryKey;size:64" json:"id"`
	OrderID   string  `gorm:"index;not null" json:"-"`
	ProductID string  `gorm:"not null" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Type      string  `json:"type,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `gorm:"default:1" json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// WishlistItem is one saved product for a user. Product fields are
// denormalized the same way order items are.
type WishlistItem struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"index:idx_wishlist_user_product,unique;not null" json:"-"`
	ProductID string    `gorm:"index:idx_wishlist_user_product,unique;not null" json:"product_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	InStock   bool      `gorm:"default:true" json:"in_stock"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreSettings is the single-row store configuration.
type StoreSettings struct {
	ID                    uint      `gorm:"primaryKey" json:"-"`
	StoreName             string    `gorm:"default:Skincare Store" json:"store_name"`
	StoreEmail            string    `json:"store_email,omitempty"`
	StorePhone            string    `json:"store_phone,omitempty"`
	StoreAddress          string    `json:"store_address,omitempty"`
	Currency              string    `gorm:"default:USD" json:"currency"`
	CurrencySymbol        string    `gorm:"default:$" json:"currency_symbol"`
	TaxRate               float64   `json:"tax_rate"`
	ShippingFee           float64   `json:"shipping_fee"`
	FreeShippingThreshold *float64  `json:"free_shipping_threshold,omitempty"`
	MaintenanceMode       bool      `gorm:"default:false" json:"maintenance_mode"`
	UpdatedAt             time.Time `json:"updated_at"`
}
