package inventories

import (
	"context"
	"testing"
	"time"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/domain/inventory"
	"github.com/ombrage/campground/internal/app/storage/memory"
	apperrors "github.com/ombrage/campground/internal/errors"
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	siteID  string
	booking booking.Booking
}

func newFixture(t *testing.T, opts Options) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	svc := New(store, store, store, opts, nil)

	site, err := store.CreateCampsite(ctx, campsite.Campsite{Name: "Emplacement 3"})
	if err != nil {
		t.Fatalf("create campsite: %v", err)
	}
	b, err := store.CreateBooking(ctx, booking.Booking{
		CampsiteID:    site.ID,
		Email:         "camper@example.com",
		StartDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		ResName:       "Dupont",
		BookingNumber: "A100",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return fixture{svc: svc, store: store, siteID: site.ID, booking: b}
}

func TestCreateInventoryDerivesCampsiteFromBooking(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateParams{
		BookingID: f.booking.ID,
		Type:      inventory.TypeArrival,
		Items:     []inventory.Item{{Name: "table", Quantity: 1, Condition: "good"}},
	})
	if err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	if created.CampsiteID != f.siteID {
		t.Fatalf("expected campsite derived from booking, got %q", created.CampsiteID)
	}
	if created.Booking == nil || created.Booking.ResName != "Dupont" {
		t.Fatalf("expected booking metadata, got %+v", created.Booking)
	}
	if created.ItemsCount != 1 {
		t.Fatalf("expected one item, got %d", created.ItemsCount)
	}

	// Creation under a booking records it as the booking's last inventory.
	b, err := f.store.GetBooking(ctx, f.booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if b.InventoryID != created.ID {
		t.Fatalf("expected booking pointer %s, got %q", created.ID, b.InventoryID)
	}
}

func TestCreateInventoryAlternation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival}); err != nil {
		t.Fatalf("create arrival: %v", err)
	}

	_, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival})
	se := apperrors.GetServiceError(err)
	if se == nil || se.HTTPStatus != 400 {
		t.Fatalf("expected 400 for repeated arrival, got %v", err)
	}

	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeDeparture}); err != nil {
		t.Fatalf("create departure: %v", err)
	}
	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival}); err != nil {
		t.Fatalf("arrival after departure: %v", err)
	}
}

func TestCreateInventoryValidation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: "picnic"}); err == nil {
		t.Fatal("expected invalid type rejection")
	}
	if _, err := f.svc.Create(ctx, CreateParams{Type: inventory.TypeArrival}); err == nil {
		t.Fatal("expected rejection without campsite or booking")
	}
	if _, err := f.svc.Create(ctx, CreateParams{BookingID: "missing", Type: inventory.TypeArrival}); err == nil {
		t.Fatal("expected rejection for unknown booking")
	}
	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: "missing", Type: inventory.TypeArrival}); err == nil {
		t.Fatal("expected rejection for unknown campsite")
	}
}

func TestUpdateInventoryAttachAndDetach(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival})
	if err != nil {
		t.Fatalf("create inventory: %v", err)
	}

	// Attach to the booking.
	bookingID := f.booking.ID
	updated, err := f.svc.Update(ctx, created.ID, UpdateParams{
		CampsiteID: f.siteID,
		BookingID:  &bookingID,
		Type:       inventory.TypeArrival,
	})
	if err != nil {
		t.Fatalf("attach booking: %v", err)
	}
	if updated.BookingID != bookingID {
		t.Fatalf("expected booking attached, got %q", updated.BookingID)
	}
	b, _ := f.store.GetBooking(ctx, bookingID)
	if b.InventoryID != created.ID {
		t.Fatalf("expected booking pointer refreshed, got %q", b.InventoryID)
	}

	// Detach again: the pointer must be cleared too.
	updated, err = f.svc.Update(ctx, created.ID, UpdateParams{
		CampsiteID:    f.siteID,
		DetachBooking: true,
		Type:          inventory.TypeArrival,
	})
	if err != nil {
		t.Fatalf("detach booking: %v", err)
	}
	if updated.BookingID != "" {
		t.Fatalf("expected booking detached, got %q", updated.BookingID)
	}
	b, _ = f.store.GetBooking(ctx, bookingID)
	if b.InventoryID != "" {
		t.Fatalf("expected booking pointer cleared, got %q", b.InventoryID)
	}
}

func TestUpdateInventorySkipsAlternationByDefault(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival}); err != nil {
		t.Fatalf("create arrival: %v", err)
	}
	dep, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeDeparture})
	if err != nil {
		t.Fatalf("create departure: %v", err)
	}

	// Flipping the departure into a second arrival is not rechecked.
	if _, err := f.svc.Update(ctx, dep.ID, UpdateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival}); err != nil {
		t.Fatalf("update without recheck should succeed: %v", err)
	}
}

func TestUpdateInventoryRechecksAlternationWhenEnabled(t *testing.T) {
	f := newFixture(t, Options{RecheckAlternationOnUpdate: true})
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival}); err != nil {
		t.Fatalf("create arrival: %v", err)
	}
	dep, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeDeparture})
	if err != nil {
		t.Fatalf("create departure: %v", err)
	}

	if _, err := f.svc.Update(ctx, dep.ID, UpdateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival}); err == nil {
		t.Fatal("expected alternation rejection on update")
	}
}

func TestDeleteInventoryClearsBookingPointer(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	created, err := f.svc.Create(ctx, CreateParams{BookingID: f.booking.ID, Type: inventory.TypeArrival})
	if err != nil {
		t.Fatalf("create inventory: %v", err)
	}

	if err := f.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete inventory: %v", err)
	}

	b, err := f.store.GetBooking(ctx, f.booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if b.InventoryID != "" {
		t.Fatalf("expected booking pointer cleared, got %q", b.InventoryID)
	}

	_, err = f.svc.Get(ctx, created.ID)
	se := apperrors.GetServiceError(err)
	if se == nil || se.HTTPStatus != 404 {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func TestListInventoriesByBooking(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, CreateParams{BookingID: f.booking.ID, Type: inventory.TypeArrival}); err != nil {
		t.Fatalf("create arrival: %v", err)
	}
	if _, err := f.svc.Create(ctx, CreateParams{BookingID: f.booking.ID, Type: inventory.TypeDeparture}); err != nil {
		t.Fatalf("create departure: %v", err)
	}
	if _, err := f.svc.Create(ctx, CreateParams{CampsiteID: f.siteID, Type: inventory.TypeArrival}); err != nil {
		t.Fatalf("create unattached arrival: %v", err)
	}

	list, err := f.svc.ListByBooking(ctx, f.booking.ID)
	if err != nil {
		t.Fatalf("list by booking: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 inventories for booking, got %d", len(list))
	}
}
