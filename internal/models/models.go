package models

import "time"

// Product represents a product in the catalog
type Product struct {
	ID                 int64     `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Slug               string    `db:"slug" json:"slug"`
	Price              int64     `db:"price" json:"price"`
	OriginalPrice      *int64    `db:"original_price" json:"original_price,omitempty"`
	DiscountPercentage *int      `db:"discount_percentage" json:"discount_percentage,omitempty"`
	Stock              int       `db:"stock" json:"stock"`
	CategoryID         *int64    `db:"category_id" json:"category_id,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// ProductImage is one image row belonging to a product. Position 0 is the
// primary image.
type ProductImage struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	URL       string    `db:"url" json:"url"`
	Position  int       `db:"position" json:"position"`
	IsPrimary bool      `db:"-" json:"is_primary"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Category groups products and carries at most one image.
type Category struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Slug     string  `db:"slug" json:"slug"`
	ImageURL *string `db:"image_url" json:"image_url,omitempty"`
}

// HeroSlide is one entry of the storefront hero carousel.
type HeroSlide struct {
	ID       int64   `db:"id" json:"id"`
	Title    string  `db:"title" json:"title"`
	ImageURL *string `db:"image_url" json:"image_url,omitempty"`
}

// User is a registered customer referenced by orders via user_id.
type User struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

// Order represents a customer order. Guest orders have no user and carry
// a guest email instead.
type Order struct {
	ID                 int64     `db:"id" json:"id"`
	TrackingNumber     string    `db:"tracking_number" json:"tracking_number"`
	UserID             *int64    `db:"user_id" json:"user_id,omitempty"`
	GuestEmail         *string   `db:"guest_email" json:"guest_email,omitempty"`
	Status             string    `db:"status" json:"status"`
	PaymentStatus      string    `db:"payment_status" json:"payment_status"`
	PaymentMethod      string    `db:"payment_method" json:"payment_method"`
	TotalAmount        int64     `db:"total_amount" json:"total_amount"`
	ShippingAddress    string    `db:"shipping_address" json:"shipping_address"`
	ShippingCity       string    `db:"shipping_city" json:"shipping_city"`
	ShippingPostalCode string    `db:"shipping_postal_code" json:"shipping_postal_code"`
	ShippingCountry    string    `db:"shipping_country" json:"shipping_country"`
	ContactPhone       string    `db:"contact_phone" json:"contact_phone"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is one line of an order. UnitPrice snapshots the product price
// at order time and never tracks later price changes.
type OrderItem struct {
	ID        int64 `db:"id" json:"id"`
	OrderID   int64 `db:"order_id" json:"order_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
	UnitPrice int64 `db:"unit_price" json:"unit_price"`

	// Joined product columns, filled on reads.
	ProductName *string `db:"product_name" json:"product_name,omitempty"`
	ProductSlug *string `db:"product_slug" json:"product_slug,omitempty"`
}

// OrderReceipt is the customer-uploaded PDF proof of bank transfer.
// At most one exists per order.
type OrderReceipt struct {
	ID             int64     `db:"id" json:"id"`
	OrderID        int64     `db:"order_id" json:"order_id"`
	TrackingNumber string    `db:"tracking_number" json:"tracking_number"`
	FilePath       string    `db:"file_path" json:"file_path"`
	FileName       string    `db:"file_name" json:"file_name"`
	OriginalName   string    `db:"original_name" json:"original_name"`
	ContentType    string    `db:"content_type" json:"content_type"`
	UploadedAt     time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// DetailedOrder bundles an order with its items and optional receipt for
// admin and tracking views.
type DetailedOrder struct {
	Order
	Items     []OrderItem   `json:"items"`
	Receipt   *OrderReceipt `json:"receipt,omitempty"`
	UserName  *string       `json:"user_name,omitempty"`
	UserEmail *string       `json:"user_email,omitempty"`
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// OrderEvent is one audit-trail row written by the event worker.
type OrderEvent struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	EventType string    `db:"event_type" json:"event_type"`
	Payload   []byte    `db:"payload" json:"payload"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
