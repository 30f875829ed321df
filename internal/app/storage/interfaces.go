package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/domain/event"
	"github.com/ombrage/campground/internal/app/domain/inventory"
	"github.com/ombrage/campground/internal/app/domain/order"
	"github.com/ombrage/campground/internal/app/domain/product"
	"github.com/ombrage/campground/internal/app/domain/user"
)

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore persists staff users. Deletion is a soft delete performed through
// UpdateUser.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByPhone(ctx context.Context, phone string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// CampsiteStore persists campsites.
type CampsiteStore interface {
	CreateCampsite(ctx context.Context, cs campsite.Campsite) (campsite.Campsite, error)
	UpdateCampsite(ctx context.Context, cs campsite.Campsite) (campsite.Campsite, error)
	GetCampsite(ctx context.Context, id string) (campsite.Campsite, error)
	ListCampsites(ctx context.Context) ([]campsite.Campsite, error)
	DeleteCampsite(ctx context.Context, id string) error
	CampsiteExists(ctx context.Context, id string) (bool, error)
}

// BookingStore persists bookings and answers the booking-invariant queries.
// Soft deletion goes through UpdateBooking.
type BookingStore interface {
	CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error)
	UpdateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error)
	GetBooking(ctx context.Context, id string) (booking.WithCampsite, error)
	ListActiveBookings(ctx context.Context) ([]booking.WithCampsite, error)
	BookingExists(ctx context.Context, id string) (bool, error)
	BookingNumberExists(ctx context.Context, number string) (bool, error)

	// FindOverlapping returns the active bookings for the campsite whose
	// [start_date, end_date) interval intersects [start, end).
	FindOverlapping(ctx context.Context, campsiteID string, start, end time.Time) ([]booking.Booking, error)

	// FindBookingByNameAndNumber looks up an active booking by guest name and
	// confirmation number, for guest authentication.
	FindBookingByNameAndNumber(ctx context.Context, resName, number string) (booking.Booking, error)

	// SetBookingLastInventory points the booking at its most recent inventory.
	SetBookingLastInventory(ctx context.Context, bookingID, inventoryID string) error
	// DetachBookingLastInventory clears the pointer on every booking that
	// references the inventory.
	DetachBookingLastInventory(ctx context.Context, inventoryID string) error
}

// InventoryStore persists inventories and their items.
type InventoryStore interface {
	CreateInventory(ctx context.Context, inv inventory.Inventory) (inventory.Inventory, error)
	// UpdateInventory rewrites the inventory row; when replaceItems is true the
	// items are replaced wholesale with inv.Items.
	UpdateInventory(ctx context.Context, inv inventory.Inventory, replaceItems bool) (inventory.Inventory, error)
	// DeleteInventory removes the inventory and its items after detaching any
	// booking pointer referencing it, as a single transaction.
	DeleteInventory(ctx context.Context, id string) error
	GetInventory(ctx context.Context, id string) (inventory.WithMeta, error)
	ListInventories(ctx context.Context) ([]inventory.WithMeta, error)
	ListInventoriesByBooking(ctx context.Context, bookingID string) ([]inventory.WithMeta, error)

	// LastInventoryForCampsite returns the most recently created inventory for
	// the campsite, skipping excludeID when non-empty. ErrNotFound means the
	// campsite has no inventory history.
	LastInventoryForCampsite(ctx context.Context, campsiteID, excludeID string) (inventory.Inventory, error)
}

// OrderStore persists orders together with their items.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	// UpdateOrder rewrites the order row; when replaceItems is true the items
	// are replaced wholesale with o.Items.
	UpdateOrder(ctx context.Context, o order.Order, replaceItems bool) (order.Order, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
	ListOrdersByBooking(ctx context.Context, bookingID string) ([]order.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// ProductStore persists products.
type ProductStore interface {
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (product.Product, error)
	GetProduct(ctx context.Context, id string) (product.Product, error)
	ListProducts(ctx context.Context) ([]product.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// FindAvailableProducts returns the subset of ids that exist and are
	// currently available.
	FindAvailableProducts(ctx context.Context, ids []string) ([]product.Product, error)
}

// EventStore persists events.
type EventStore interface {
	CreateEvent(ctx context.Context, ev event.Event) (event.Event, error)
	UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error)
	GetEvent(ctx context.Context, id string) (event.Event, error)
	ListEvents(ctx context.Context) ([]event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
