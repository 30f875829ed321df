package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/domain/event"
	"github.com/ombrage/campground/internal/app/domain/inventory"
	"github.com/ombrage/campground/internal/app/domain/order"
	"github.com/ombrage/campground/internal/app/domain/product"
	"github.com/ombrage/campground/internal/app/domain/user"
	"github.com/ombrage/campground/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local
// development.
type Store struct {
	mu             sync.RWMutex
	nextID         int64
	users          map[string]user.User
	campsites      map[string]campsite.Campsite
	bookings       map[string]booking.Booking
	inventories    map[string]inventory.Inventory
	inventoryOrder []string
	orders         map[string]order.Order
	products       map[string]product.Product
	events         map[string]event.Event
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.CampsiteStore = (*Store)(nil)
var _ storage.BookingStore = (*Store)(nil)
var _ storage.InventoryStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.EventStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:      1,
		users:       make(map[string]user.User),
		campsites:   make(map[string]campsite.Campsite),
		bookings:    make(map[string]booking.Booking),
		inventories: make(map[string]inventory.Inventory),
		orders:      make(map[string]order.Order),
		products:    make(map[string]product.Product),
		events:      make(map[string]event.Event),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = s.nextIDLocked()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s already exists", u.ID)
	}
	u.CreatedAt = time.Now().UTC()

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	u.CreatedAt = original.CreatedAt

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, fmt.Errorf("user with email %s: %w", email, storage.ErrNotFound)
}

func (s *Store) GetUserByPhone(_ context.Context, phone string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Phone != "" && u.Phone == phone {
			return u, nil
		}
	}
	return user.User{}, fmt.Errorf("user with phone %s: %w", phone, storage.ErrNotFound)
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	return result, nil
}

// CampsiteStore implementation ------------------------------------------------

func (s *Store) CreateCampsite(_ context.Context, cs campsite.Campsite) (campsite.Campsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cs.ID == "" {
		cs.ID = s.nextIDLocked()
	} else if _, exists := s.campsites[cs.ID]; exists {
		return campsite.Campsite{}, fmt.Errorf("campsite %s already exists", cs.ID)
	}
	cs.CreatedAt = time.Now().UTC()

	s.campsites[cs.ID] = cs
	return cs, nil
}

func (s *Store) UpdateCampsite(_ context.Context, cs campsite.Campsite) (campsite.Campsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.campsites[cs.ID]
	if !ok {
		return campsite.Campsite{}, fmt.Errorf("campsite %s: %w", cs.ID, storage.ErrNotFound)
	}
	cs.CreatedAt = original.CreatedAt

	s.campsites[cs.ID] = cs
	return cs, nil
}

func (s *Store) GetCampsite(_ context.Context, id string) (campsite.Campsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, ok := s.campsites[id]
	if !ok {
		return campsite.Campsite{}, fmt.Errorf("campsite %s: %w", id, storage.ErrNotFound)
	}
	return cs, nil
}

func (s *Store) ListCampsites(_ context.Context) ([]campsite.Campsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]campsite.Campsite, 0, len(s.campsites))
	for _, cs := range s.campsites {
		result = append(result, cs)
	}
	return result, nil
}

func (s *Store) DeleteCampsite(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campsites[id]; !ok {
		return fmt.Errorf("campsite %s: %w", id, storage.ErrNotFound)
	}
	delete(s.campsites, id)
	return nil
}

func (s *Store) CampsiteExists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.campsites[id]
	return ok, nil
}

// BookingStore implementation -------------------------------------------------

func (s *Store) CreateBooking(_ context.Context, b booking.Booking) (booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = s.nextIDLocked()
	} else if _, exists := s.bookings[b.ID]; exists {
		return booking.Booking{}, fmt.Errorf("booking %s already exists", b.ID)
	}
	b.CreatedAt = time.Now().UTC()

	s.bookings[b.ID] = b
	return b, nil
}

func (s *Store) UpdateBooking(_ context.Context, b booking.Booking) (booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.bookings[b.ID]
	if !ok {
		return booking.Booking{}, fmt.Errorf("booking %s: %w", b.ID, storage.ErrNotFound)
	}
	b.CreatedAt = original.CreatedAt

	s.bookings[b.ID] = b
	return b, nil
}

func (s *Store) GetBooking(_ context.Context, id string) (booking.WithCampsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return booking.WithCampsite{}, fmt.Errorf("booking %s: %w", id, storage.ErrNotFound)
	}
	return s.withCampsiteLocked(b), nil
}

func (s *Store) ListActiveBookings(_ context.Context) ([]booking.WithCampsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]booking.WithCampsite, 0)
	for _, b := range s.bookings {
		if !b.Deleted() {
			result = append(result, s.withCampsiteLocked(b))
		}
	}
	return result, nil
}

func (s *Store) BookingExists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bookings[id]
	return ok, nil
}

func (s *Store) BookingNumberExists(_ context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.BookingNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FindOverlapping(_ context.Context, campsiteID string, start, end time.Time) ([]booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]booking.Booking, 0)
	for _, b := range s.bookings {
		if b.CampsiteID == campsiteID && !b.Deleted() && b.Overlaps(start, end) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (s *Store) FindBookingByNameAndNumber(_ context.Context, resName, number string) (booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if !b.Deleted() && b.ResName == resName && b.BookingNumber == number {
			return b, nil
		}
	}
	return booking.Booking{}, fmt.Errorf("booking for %s/%s: %w", resName, number, storage.ErrNotFound)
}

func (s *Store) SetBookingLastInventory(_ context.Context, bookingID, inventoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", bookingID, storage.ErrNotFound)
	}
	b.InventoryID = inventoryID
	s.bookings[bookingID] = b
	return nil
}

func (s *Store) DetachBookingLastInventory(_ context.Context, inventoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range s.bookings {
		if b.InventoryID == inventoryID {
			b.InventoryID = ""
			s.bookings[id] = b
		}
	}
	return nil
}

func (s *Store) withCampsiteLocked(b booking.Booking) booking.WithCampsite {
	out := booking.WithCampsite{Booking: b}
	if cs, ok := s.campsites[b.CampsiteID]; ok {
		out.CampsiteName = cs.Name
	}
	return out
}

// InventoryStore implementation -----------------------------------------------

func (s *Store) CreateInventory(_ context.Context, inv inventory.Inventory) (inventory.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.ID == "" {
		inv.ID = s.nextIDLocked()
	} else if _, exists := s.inventories[inv.ID]; exists {
		return inventory.Inventory{}, fmt.Errorf("inventory %s already exists", inv.ID)
	}
	inv.CreatedAt = time.Now().UTC()
	inv.Items = s.cloneItemsLocked(inv.ID, inv.Items)

	s.inventories[inv.ID] = inv
	s.inventoryOrder = append(s.inventoryOrder, inv.ID)
	return cloneInventory(inv), nil
}

func (s *Store) UpdateInventory(_ context.Context, inv inventory.Inventory, replaceItems bool) (inventory.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.inventories[inv.ID]
	if !ok {
		return inventory.Inventory{}, fmt.Errorf("inventory %s: %w", inv.ID, storage.ErrNotFound)
	}
	inv.CreatedAt = original.CreatedAt
	if replaceItems {
		inv.Items = s.cloneItemsLocked(inv.ID, inv.Items)
	} else {
		inv.Items = original.Items
	}

	s.inventories[inv.ID] = inv
	return cloneInventory(inv), nil
}

func (s *Store) DeleteInventory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventories[id]; !ok {
		return fmt.Errorf("inventory %s: %w", id, storage.ErrNotFound)
	}
	for bid, b := range s.bookings {
		if b.InventoryID == id {
			b.InventoryID = ""
			s.bookings[bid] = b
		}
	}
	delete(s.inventories, id)
	for i, invID := range s.inventoryOrder {
		if invID == id {
			s.inventoryOrder = append(s.inventoryOrder[:i], s.inventoryOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) GetInventory(_ context.Context, id string) (inventory.WithMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.inventories[id]
	if !ok {
		return inventory.WithMeta{}, fmt.Errorf("inventory %s: %w", id, storage.ErrNotFound)
	}
	return s.withMetaLocked(inv), nil
}

func (s *Store) ListInventories(_ context.Context) ([]inventory.WithMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]inventory.WithMeta, 0, len(s.inventoryOrder))
	for i := len(s.inventoryOrder) - 1; i >= 0; i-- {
		result = append(result, s.withMetaLocked(s.inventories[s.inventoryOrder[i]]))
	}
	return result, nil
}

func (s *Store) ListInventoriesByBooking(_ context.Context, bookingID string) ([]inventory.WithMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]inventory.WithMeta, 0)
	for i := len(s.inventoryOrder) - 1; i >= 0; i-- {
		inv := s.inventories[s.inventoryOrder[i]]
		if inv.BookingID == bookingID {
			result = append(result, s.withMetaLocked(inv))
		}
	}
	return result, nil
}

func (s *Store) LastInventoryForCampsite(_ context.Context, campsiteID, excludeID string) (inventory.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// inventoryOrder preserves creation order, so the scan from the end
	// resolves created_at ties the same way the SQL ordering does.
	for i := len(s.inventoryOrder) - 1; i >= 0; i-- {
		inv := s.inventories[s.inventoryOrder[i]]
		if inv.CampsiteID == campsiteID && inv.ID != excludeID {
			return cloneInventory(inv), nil
		}
	}
	return inventory.Inventory{}, fmt.Errorf("inventory for campsite %s: %w", campsiteID, storage.ErrNotFound)
}

func (s *Store) withMetaLocked(inv inventory.Inventory) inventory.WithMeta {
	out := inventory.WithMeta{Inventory: cloneInventory(inv), ItemsCount: len(inv.Items)}
	if inv.BookingID != "" {
		if b, ok := s.bookings[inv.BookingID]; ok {
			out.Booking = &inventory.BookingRef{BookingID: b.ID, ResName: b.ResName}
		}
	}
	if cs, ok := s.campsites[inv.CampsiteID]; ok {
		out.CampsiteName = cs.Name
	}
	return out
}

func (s *Store) cloneItemsLocked(inventoryID string, items []inventory.Item) []inventory.Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]inventory.Item, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = s.nextIDLocked()
		}
		it.InventoryID = inventoryID
		out = append(out, it)
	}
	return out
}

func cloneInventory(inv inventory.Inventory) inventory.Inventory {
	inv.Items = append([]inventory.Item(nil), inv.Items...)
	return inv
}

// OrderStore implementation ---------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = s.nextIDLocked()
	} else if _, exists := s.orders[o.ID]; exists {
		return order.Order{}, fmt.Errorf("order %s already exists", o.ID)
	}
	if o.Status == "" {
		o.Status = order.StatusReceived
	}
	o.CreatedAt = time.Now().UTC()
	o.Items = s.cloneOrderItemsLocked(o.ID, o.Items)

	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) UpdateOrder(_ context.Context, o order.Order, replaceItems bool) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.orders[o.ID]
	if !ok {
		return order.Order{}, fmt.Errorf("order %s: %w", o.ID, storage.ErrNotFound)
	}
	o.CreatedAt = original.CreatedAt
	if replaceItems {
		o.Items = s.cloneOrderItemsLocked(o.ID, o.Items)
	} else {
		o.Items = original.Items
	}

	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) GetOrder(_ context.Context, id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %s: %w", id, storage.ErrNotFound)
	}
	return s.withProductsLocked(o), nil
}

func (s *Store) ListOrders(_ context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, s.withProductsLocked(o))
	}
	return result, nil
}

func (s *Store) ListOrdersByBooking(_ context.Context, bookingID string) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.BookingID == bookingID {
			result = append(result, s.withProductsLocked(o))
		}
	}
	return result, nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, storage.ErrNotFound)
	}
	delete(s.orders, id)
	return nil
}

func (s *Store) withProductsLocked(o order.Order) order.Order {
	o = cloneOrder(o)
	for i := range o.Items {
		if p, ok := s.products[o.Items[i].ProductID]; ok {
			cp := p
			o.Items[i].Product = &cp
		}
	}
	return o
}

func (s *Store) cloneOrderItemsLocked(orderID string, items []order.Item) []order.Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]order.Item, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = s.nextIDLocked()
		}
		it.OrderID = orderID
		it.Product = nil
		out = append(out, it)
	}
	return out
}

func cloneOrder(o order.Order) order.Order {
	o.Items = append([]order.Item(nil), o.Items...)
	return o
}

// ProductStore implementation -------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	} else if _, exists := s.products[p.ID]; exists {
		return product.Product{}, fmt.Errorf("product %s already exists", p.ID)
	}
	p.CreatedAt = time.Now().UTC()

	s.products[p.ID] = p
	return p, nil
}

func (s *Store) UpdateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.products[p.ID]
	if !ok {
		return product.Product{}, fmt.Errorf("product %s: %w", p.ID, storage.ErrNotFound)
	}
	p.CreatedAt = original.CreatedAt

	s.products[p.ID] = p
	return p, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return product.Product{}, fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListProducts(_ context.Context) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]product.Product, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, p)
	}
	return result, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) FindAvailableProducts(_ context.Context, ids []string) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.Available {
			result = append(result, p)
		}
	}
	return result, nil
}

// EventStore implementation ---------------------------------------------------

func (s *Store) CreateEvent(_ context.Context, ev event.Event) (event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.ID == "" {
		ev.ID = s.nextIDLocked()
	} else if _, exists := s.events[ev.ID]; exists {
		return event.Event{}, fmt.Errorf("event %s already exists", ev.ID)
	}
	ev.CreatedAt = time.Now().UTC()

	s.events[ev.ID] = ev
	return ev, nil
}

func (s *Store) UpdateEvent(_ context.Context, ev event.Event) (event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.events[ev.ID]
	if !ok {
		return event.Event{}, fmt.Errorf("event %s: %w", ev.ID, storage.ErrNotFound)
	}
	ev.CreatedAt = original.CreatedAt

	s.events[ev.ID] = ev
	return ev, nil
}

func (s *Store) GetEvent(_ context.Context, id string) (event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return event.Event{}, fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	return ev, nil
}

func (s *Store) ListEvents(_ context.Context) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]event.Event, 0, len(s.events))
	for _, ev := range s.events {
		result = append(result, ev)
	}
	return result, nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
	}
	delete(s.events, id)
	return nil
}
