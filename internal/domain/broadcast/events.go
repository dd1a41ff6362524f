package broadcast

// Hub topics. Subscribers pick one at connect time.
const (
	TopicProducts = "products"
	TopicOrders   = "orders"
	TopicAdmin    = "admin"
)

// Event types carried in the "type" field of every broadcast frame.
const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"

	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"

	EventSettingsUpdated = "settings_updated"
)

// ProductEvent notifies product catalog changes. Deletes carry only the id.
type ProductEvent struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Product any    `json:"product,omitempty"`
}

// OrderEvent notifies order lifecycle changes.
type OrderEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

// SettingsEvent notifies store settings changes, maintenance mode included.
type SettingsEvent struct {
	Type        string `json:"type"`
	Maintenance bool   `json:"maintenance"`
}
