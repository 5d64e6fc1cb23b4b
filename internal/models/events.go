package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderCancelled     = "ORDER_CANCELLED"
	EventTypeOrderDeleted       = "ORDER_DELETED"
	EventTypeReceiptUploaded    = "RECEIPT_UPLOADED"
	EventTypeReceiptDeleted     = "RECEIPT_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when checkout produces an order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID        int64           `json:"order_id"`
	TrackingNumber string          `json:"tracking_number"`
	UserID         *int64          `json:"user_id,omitempty"`
	GuestEmail     *string         `json:"guest_email,omitempty"`
	TotalAmount    int64           `json:"total_amount"`
	Items          []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published on every accepted status transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    int64  `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// OrderCancelledEvent published when an order reaches cancelled
type OrderCancelledEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// OrderDeletedEvent published after an admin cascade delete
type OrderDeletedEvent struct {
	BaseEvent
	OrderID        int64  `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
}

// ReceiptUploadedEvent published when a receipt is attached or replaced
type ReceiptUploadedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	ReceiptID int64  `json:"receipt_id"`
	FilePath  string `json:"file_path"`
	Replaced  bool   `json:"replaced"`
}

// ReceiptDeletedEvent published when a receipt is removed
type ReceiptDeletedEvent struct {
	BaseEvent
	OrderID   int64 `json:"order_id"`
	ReceiptID int64 `json:"receipt_id"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}
