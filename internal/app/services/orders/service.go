// Package orders implements shop orders placed against a booking.
package orders

import (
	"context"
	"errors"

	"github.com/ombrage/campground/internal/app/domain/order"
	"github.com/ombrage/campground/internal/app/storage"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

// Service coordinates order operations.
type Service struct {
	orders   storage.OrderStore
	bookings storage.BookingStore
	products storage.ProductStore
	logger   *logger.Logger
}

// New creates an order service.
func New(orders storage.OrderStore, bookings storage.BookingStore, products storage.ProductStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{orders: orders, bookings: bookings, products: products, logger: log}
}

// ItemParams is a requested order line.
type ItemParams struct {
	ProductID string
	Quantity  int
}

// CreateParams carries the fields accepted when creating an order.
type CreateParams struct {
	BookingID string
	Items     []ItemParams
}

// Create validates the booking and the requested products and records the
// order with its items.
func (s *Service) Create(ctx context.Context, params CreateParams) (order.Order, error) {
	if params.BookingID == "" {
		return order.Order{}, apperrors.Validation("booking_id is required")
	}
	exists, err := s.bookings.BookingExists(ctx, params.BookingID)
	if err != nil {
		return order.Order{}, apperrors.Internal(err)
	}
	if !exists {
		return order.Order{}, apperrors.Validation("booking does not exist")
	}

	items, err := s.validateItems(ctx, params.Items)
	if err != nil {
		return order.Order{}, err
	}

	created, err := s.orders.CreateOrder(ctx, order.Order{
		BookingID: params.BookingID,
		Status:    order.StatusReceived,
		Items:     items,
	})
	if err != nil {
		return order.Order{}, apperrors.Internal(err)
	}

	s.logger.WithField("order_id", created.ID).
		WithField("booking_id", created.BookingID).
		WithField("items", len(created.Items)).
		Info("order created")
	return created, nil
}

// UpdateParams carries the fields accepted when updating an order. A nil
// Items slice leaves the existing lines untouched; a non-nil slice replaces
// them entirely.
type UpdateParams struct {
	Status order.Status
	Items  []ItemParams
}

// Update changes the status of an order and optionally replaces its items.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (order.Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	status := current.Status
	if params.Status != "" {
		if !params.Status.Valid() {
			return order.Order{}, apperrors.Validation("invalid order status")
		}
		status = params.Status
	}

	replaceItems := params.Items != nil
	items := current.Items
	if replaceItems {
		items, err = s.validateItems(ctx, params.Items)
		if err != nil {
			return order.Order{}, err
		}
	}

	updated := current
	updated.Status = status
	updated.Items = items

	result, err := s.orders.UpdateOrder(ctx, updated, replaceItems)
	if err != nil {
		return order.Order{}, apperrors.Internal(err)
	}

	s.logger.WithField("order_id", id).WithField("status", string(status)).Info("order updated")
	return result, nil
}

// Get returns an order with its items and product details.
func (s *Service) Get(ctx context.Context, id string) (order.Order, error) {
	got, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return order.Order{}, apperrors.NotFound("order")
		}
		return order.Order{}, apperrors.Internal(err)
	}
	return got, nil
}

// List returns all orders, most recent first.
func (s *Service) List(ctx context.Context) ([]order.Order, error) {
	list, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// ListByBooking returns the orders placed against a booking.
func (s *Service) ListByBooking(ctx context.Context, bookingID string) ([]order.Order, error) {
	list, err := s.orders.ListOrdersByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// Delete removes an order and its items.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("order")
		}
		return apperrors.Internal(err)
	}
	s.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

func (s *Service) validateItems(ctx context.Context, items []ItemParams) ([]order.Item, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("order must contain at least one item")
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			return nil, apperrors.Validation("item product_id is required")
		}
		if it.Quantity <= 0 {
			return nil, apperrors.Validation("item quantity must be positive")
		}
		if seen[it.ProductID] {
			return nil, apperrors.Validation("duplicate product in order")
		}
		seen[it.ProductID] = true
		ids = append(ids, it.ProductID)
	}

	available, err := s.products.FindAvailableProducts(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(available) != len(ids) {
		return nil, apperrors.Validation("one or more products are unknown or unavailable")
	}

	result := make([]order.Item, 0, len(items))
	for _, it := range items {
		result = append(result, order.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return result, nil
}
