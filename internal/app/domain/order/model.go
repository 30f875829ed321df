package order

import (
	"time"

	"github.com/ombrage/campground/internal/app/domain/product"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusReceived  Status = "received"
	StatusPreparing Status = "preparing"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is a product order placed against a booking. Orders are always
// written and read together with their items.
type Order struct {
	ID        string    `json:"order_id" db:"order_id"`
	BookingID string    `json:"booking_id" db:"booking_id"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Items     []Item    `json:"order_items" db:"-"`
}

// Item is a single order line.
type Item struct {
	ID        string           `json:"order_item_id" db:"order_item_id"`
	OrderID   string           `json:"order_id" db:"order_id"`
	ProductID string           `json:"product_id" db:"product_id"`
	Quantity  int              `json:"quantity" db:"quantity"`
	Product   *product.Product `json:"product,omitempty" db:"-"`
}
