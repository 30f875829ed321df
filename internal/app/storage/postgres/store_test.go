package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFromDB(sqlx.NewDb(db, "postgres")), mock
}

func TestFindOverlappingQuery(t *testing.T) {
	store, mock := newMockStore(t)

	start := time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"booking_id", "campsite_id", "user_id", "email", "phone",
		"start_date", "end_date", "res_name", "booking_number", "inventory_id",
		"created_at", "delete_date",
	}).AddRow("b1", "c1", nil, "camper@example.com", nil,
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		"Dupont", "A100", nil, time.Now(), nil)

	mock.ExpectQuery(`SELECT .+ FROM bookings b\s+WHERE b\.campsite_id = \$1\s+AND b\.delete_date IS NULL\s+AND b\.start_date < \$3\s+AND b\.end_date > \$2`).
		WithArgs("c1", start, end).
		WillReturnRows(rows)

	found, err := store.FindOverlapping(context.Background(), "c1", start, end)
	if err != nil {
		t.Fatalf("find overlapping: %v", err)
	}
	if len(found) != 1 || found[0].ID != "b1" {
		t.Fatalf("unexpected result: %+v", found)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateBookingNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE bookings`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdateBooking(context.Background(), booking.Booking{ID: "missing", CampsiteID: "c1"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteInventoryDetachesInTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings SET inventory_id = NULL WHERE inventory_id = \$1`).
		WithArgs("inv1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM inventory_items WHERE inventory_id = \$1`).
		WithArgs("inv1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM inventories WHERE inventory_id = \$1`).
		WithArgs("inv1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.DeleteInventory(context.Background(), "inv1"); err != nil {
		t.Fatalf("delete inventory: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCampsiteExistsQuery(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM campsites WHERE campsite_id = \$1\)`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.CampsiteExists(context.Background(), "c1")
	if err != nil {
		t.Fatalf("campsite exists: %v", err)
	}
	if !exists {
		t.Fatal("expected campsite to exist")
	}
}

// Integration tests run only when CAMPGROUND_TEST_DSN points at a database
// with the migrations applied.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	_ = godotenv.Load()
	dsn := os.Getenv("CAMPGROUND_TEST_DSN")
	if dsn == "" {
		t.Skip("CAMPGROUND_TEST_DSN not set")
	}
	store, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIntegrationBookingRoundTrip(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	site, err := store.CreateCampsite(ctx, campsite.Campsite{Name: "itest-site"})
	if err != nil {
		t.Fatalf("create campsite: %v", err)
	}
	defer store.DeleteCampsite(ctx, site.ID)

	created, err := store.CreateBooking(ctx, booking.Booking{
		CampsiteID:    site.ID,
		Email:         "itest@example.com",
		StartDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		ResName:       "ITest",
		BookingNumber: "IT-1",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	got, err := store.GetBooking(ctx, created.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.CampsiteName != "itest-site" {
		t.Fatalf("expected joined campsite name, got %q", got.CampsiteName)
	}

	now := time.Now().UTC()
	created.DeleteDate = &now
	if _, err := store.UpdateBooking(ctx, created); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	active, err := store.ListActiveBookings(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, b := range active {
		if b.ID == created.ID {
			t.Fatal("soft-deleted booking still listed as active")
		}
	}
}
