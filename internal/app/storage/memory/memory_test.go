package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/domain/inventory"
	"github.com/ombrage/campground/internal/app/domain/order"
	"github.com/ombrage/campground/internal/app/domain/product"
	"github.com/ombrage/campground/internal/app/domain/user"
	"github.com/ombrage/campground/internal/app/storage"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return parsed
}

func TestFindOverlapping(t *testing.T) {
	ctx := context.Background()
	store := New()

	site, err := store.CreateCampsite(ctx, campsite.Campsite{Name: "Emplacement 12", Type: "tent"})
	if err != nil {
		t.Fatalf("create campsite: %v", err)
	}

	existing, err := store.CreateBooking(ctx, booking.Booking{
		CampsiteID:    site.ID,
		Email:         "camper@example.com",
		StartDate:     date(t, "2025-09-01"),
		EndDate:       date(t, "2025-09-05"),
		ResName:       "Dupont",
		BookingNumber: "A100",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	overlapping, err := store.FindOverlapping(ctx, site.ID, date(t, "2025-09-04"), date(t, "2025-09-06"))
	if err != nil {
		t.Fatalf("find overlapping: %v", err)
	}
	if len(overlapping) != 1 {
		t.Fatalf("expected 1 overlapping booking, got %d", len(overlapping))
	}

	// A stay starting on the existing checkout day does not overlap.
	touching, err := store.FindOverlapping(ctx, site.ID, date(t, "2025-09-05"), date(t, "2025-09-07"))
	if err != nil {
		t.Fatalf("find touching: %v", err)
	}
	if len(touching) != 0 {
		t.Fatalf("expected no overlap for back-to-back stay, got %d", len(touching))
	}

	// Soft-deleted bookings no longer block the range.
	now := time.Now().UTC()
	existing.DeleteDate = &now
	if _, err := store.UpdateBooking(ctx, existing); err != nil {
		t.Fatalf("soft delete booking: %v", err)
	}
	overlapping, err = store.FindOverlapping(ctx, site.ID, date(t, "2025-09-04"), date(t, "2025-09-06"))
	if err != nil {
		t.Fatalf("find overlapping after delete: %v", err)
	}
	if len(overlapping) != 0 {
		t.Fatalf("expected deleted booking to be ignored, got %d results", len(overlapping))
	}
}

func TestListActiveBookingsEnrichment(t *testing.T) {
	ctx := context.Background()
	store := New()

	site, err := store.CreateCampsite(ctx, campsite.Campsite{Name: "Bord de rivière", Type: "tent"})
	if err != nil {
		t.Fatalf("create campsite: %v", err)
	}
	active, err := store.CreateBooking(ctx, booking.Booking{CampsiteID: site.ID, ResName: "Martin", BookingNumber: "B200"})
	if err != nil {
		t.Fatalf("create active booking: %v", err)
	}
	deleted, err := store.CreateBooking(ctx, booking.Booking{CampsiteID: site.ID, ResName: "Durand", BookingNumber: "B201"})
	if err != nil {
		t.Fatalf("create second booking: %v", err)
	}
	now := time.Now().UTC()
	deleted.DeleteDate = &now
	if _, err := store.UpdateBooking(ctx, deleted); err != nil {
		t.Fatalf("soft delete booking: %v", err)
	}

	list, err := store.ListActiveBookings(ctx)
	if err != nil {
		t.Fatalf("list active bookings: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 active booking, got %d", len(list))
	}
	if list[0].ID != active.ID {
		t.Fatalf("expected booking %s, got %s", active.ID, list[0].ID)
	}
	if list[0].CampsiteName != "Bord de rivière" {
		t.Fatalf("expected campsite name to be joined, got %q", list[0].CampsiteName)
	}

	// Deleted bookings remain reachable by id.
	got, err := store.GetBooking(ctx, deleted.ID)
	if err != nil {
		t.Fatalf("get deleted booking: %v", err)
	}
	if !got.Deleted() {
		t.Fatal("expected booking to carry its delete date")
	}
}

func TestLastInventoryForCampsite(t *testing.T) {
	ctx := context.Background()
	store := New()

	site, err := store.CreateCampsite(ctx, campsite.Campsite{Name: "Emplacement 3"})
	if err != nil {
		t.Fatalf("create campsite: %v", err)
	}

	first, err := store.CreateInventory(ctx, inventory.Inventory{CampsiteID: site.ID, Type: inventory.TypeArrival})
	if err != nil {
		t.Fatalf("create first inventory: %v", err)
	}
	second, err := store.CreateInventory(ctx, inventory.Inventory{CampsiteID: site.ID, Type: inventory.TypeDeparture})
	if err != nil {
		t.Fatalf("create second inventory: %v", err)
	}

	last, err := store.LastInventoryForCampsite(ctx, site.ID, "")
	if err != nil {
		t.Fatalf("last inventory: %v", err)
	}
	if last.ID != second.ID {
		t.Fatalf("expected most recent inventory %s, got %s", second.ID, last.ID)
	}

	// Excluding the latest falls back to the previous one.
	last, err = store.LastInventoryForCampsite(ctx, site.ID, second.ID)
	if err != nil {
		t.Fatalf("last inventory with exclusion: %v", err)
	}
	if last.ID != first.ID {
		t.Fatalf("expected inventory %s, got %s", first.ID, last.ID)
	}

	if _, err := store.LastInventoryForCampsite(ctx, "unknown", ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found for unknown campsite, got %v", err)
	}
}

func TestDeleteInventoryDetachesBookings(t *testing.T) {
	ctx := context.Background()
	store := New()

	site, err := store.CreateCampsite(ctx, campsite.Campsite{Name: "Emplacement 7"})
	if err != nil {
		t.Fatalf("create campsite: %v", err)
	}
	b, err := store.CreateBooking(ctx, booking.Booking{CampsiteID: site.ID, ResName: "Petit", BookingNumber: "C300"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	inv, err := store.CreateInventory(ctx, inventory.Inventory{
		CampsiteID: site.ID,
		BookingID:  b.ID,
		Type:       inventory.TypeArrival,
		Items:      []inventory.Item{{Name: "table", Quantity: 1, Condition: "good"}},
	})
	if err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	if err := store.SetBookingLastInventory(ctx, b.ID, inv.ID); err != nil {
		t.Fatalf("set last inventory: %v", err)
	}

	if err := store.DeleteInventory(ctx, inv.ID); err != nil {
		t.Fatalf("delete inventory: %v", err)
	}

	got, err := store.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.InventoryID != "" {
		t.Fatalf("expected booking pointer cleared, got %q", got.InventoryID)
	}
	if _, err := store.GetInventory(ctx, inv.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected inventory gone, got %v", err)
	}
}

func TestOrderItemReplacement(t *testing.T) {
	ctx := context.Background()
	store := New()

	bread, err := store.CreateProduct(ctx, product.Product{Name: "Baguette", Price: 1.2, Available: true})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	croissant, err := store.CreateProduct(ctx, product.Product{Name: "Croissant", Price: 1.1, Available: true})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	b, err := store.CreateBooking(ctx, booking.Booking{ResName: "Roy", BookingNumber: "D400"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	o, err := store.CreateOrder(ctx, order.Order{
		BookingID: b.ID,
		Items:     []order.Item{{ProductID: bread.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.Status != order.StatusReceived {
		t.Fatalf("expected default status %q, got %q", order.StatusReceived, o.Status)
	}

	o.Items = []order.Item{{ProductID: croissant.ID, Quantity: 3}}
	updated, err := store.UpdateOrder(ctx, o, true)
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if len(updated.Items) != 1 || updated.Items[0].ProductID != croissant.ID {
		t.Fatalf("expected items replaced, got %+v", updated.Items)
	}

	got, err := store.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Items[0].Product == nil || got.Items[0].Product.Name != "Croissant" {
		t.Fatalf("expected product joined onto item, got %+v", got.Items[0].Product)
	}
}

func TestFindAvailableProducts(t *testing.T) {
	ctx := context.Background()
	store := New()

	available, err := store.CreateProduct(ctx, product.Product{Name: "Glace", Available: true})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	unavailable, err := store.CreateProduct(ctx, product.Product{Name: "Pizza", Available: false})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	found, err := store.FindAvailableProducts(ctx, []string{available.ID, unavailable.ID, "missing"})
	if err != nil {
		t.Fatalf("find available products: %v", err)
	}
	if len(found) != 1 || found[0].ID != available.ID {
		t.Fatalf("expected only the available product, got %+v", found)
	}
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	store := New()

	created, err := store.CreateUser(ctx, user.User{
		FirstName: "Claire",
		LastName:  "Moreau",
		Email:     "claire@example.com",
		Phone:     "+33600000001",
		Role:      user.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "CLAIRE@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, byEmail.ID)
	}

	byPhone, err := store.GetUserByPhone(ctx, "+33600000001")
	if err != nil {
		t.Fatalf("get user by phone: %v", err)
	}
	if byPhone.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, byPhone.ID)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); err == nil {
		t.Fatal("expected error for unknown email")
	}
}

