package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/storage/memory"
	apperrors "github.com/ombrage/campground/internal/errors"
)

func newTestService(t *testing.T, opts Options) (*Service, *memory.Store, string) {
	t.Helper()
	store := memory.New()
	svc := New(store, store, opts, nil)

	site, err := store.CreateCampsite(context.Background(), campsite.Campsite{Name: "Emplacement 12", Type: "tent"})
	if err != nil {
		t.Fatalf("create campsite: %v", err)
	}
	return svc, store, site.ID
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return parsed
}

func validParams(campsiteID, number string, start, end time.Time) CreateParams {
	return CreateParams{
		CampsiteID:    campsiteID,
		Email:         "camper@example.com",
		StartDate:     start,
		EndDate:       end,
		ResName:       "Dupont",
		BookingNumber: number,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _, siteID := newTestService(t, Options{})
	ctx := context.Background()

	created, err := svc.Create(ctx, validParams(siteID, "A100", date(t, "2025-09-01"), date(t, "2025-09-05")))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if created.CampsiteName != "Emplacement 12" {
		t.Fatalf("expected campsite name on response, got %q", created.CampsiteName)
	}
	if created.Deleted() {
		t.Fatal("fresh booking must not carry a delete date")
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	svc, _, siteID := newTestService(t, Options{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, validParams(siteID, "A100", date(t, "2025-09-01"), date(t, "2025-09-05"))); err != nil {
		t.Fatalf("create first booking: %v", err)
	}

	_, err := svc.Create(ctx, validParams(siteID, "A101", date(t, "2025-09-04"), date(t, "2025-09-06")))
	if err == nil {
		t.Fatal("expected overlap rejection")
	}
	se := apperrors.GetServiceError(err)
	if se == nil || se.HTTPStatus != 400 {
		t.Fatalf("expected 400 validation error, got %v", err)
	}

	// Checkout and checkin on the same day is allowed.
	if _, err := svc.Create(ctx, validParams(siteID, "A102", date(t, "2025-09-05"), date(t, "2025-09-07"))); err != nil {
		t.Fatalf("back-to-back booking should be allowed: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, siteID := newTestService(t, Options{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateParams)
		want   string
	}{
		{"inverted dates", func(p *CreateParams) {
			p.StartDate = date(t, "2025-09-05")
			p.EndDate = date(t, "2025-09-01")
		}, "end_date"},
		{"equal dates", func(p *CreateParams) {
			p.StartDate = date(t, "2025-09-01")
			p.EndDate = date(t, "2025-09-01")
		}, "end_date"},
		{"no contact", func(p *CreateParams) { p.Email = "" }, "email or phone"},
		{"missing number", func(p *CreateParams) { p.BookingNumber = "" }, "booking_number"},
		{"number too long", func(p *CreateParams) { p.BookingNumber = "12345678901" }, "at most"},
		{"unknown campsite", func(p *CreateParams) { p.CampsiteID = "nope" }, "campsite"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams(siteID, "A100", date(t, "2025-09-01"), date(t, "2025-09-05"))
			tc.mutate(&params)
			_, err := svc.Create(ctx, params)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateBookingDuplicateNumber(t *testing.T) {
	svc, _, siteID := newTestService(t, Options{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, validParams(siteID, "A100", date(t, "2025-09-01"), date(t, "2025-09-05"))); err != nil {
		t.Fatalf("create first booking: %v", err)
	}
	if _, err := svc.Create(ctx, validParams(siteID, "A100", date(t, "2025-10-01"), date(t, "2025-10-05"))); err == nil {
		t.Fatal("expected duplicate booking number rejection")
	}
}

func TestSoftDeleteKeepsBookingReadable(t *testing.T) {
	svc, _, siteID := newTestService(t, Options{})
	ctx := context.Background()

	created, err := svc.Create(ctx, validParams(siteID, "A100", date(t, "2025-09-01"), date(t, "2025-09-05")))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	deleted, err := svc.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete booking: %v", err)
	}
	if !deleted.Deleted() {
		t.Fatal("expected delete date to be set")
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deleted booking must not be listed, got %d", len(list))
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get deleted booking: %v", err)
	}
	if !got.Deleted() {
		t.Fatal("expected deleted booking to stay readable by id")
	}

	// The freed dates become bookable again.
	if _, err := svc.Create(ctx, validParams(siteID, "A101", date(t, "2025-09-02"), date(t, "2025-09-04"))); err != nil {
		t.Fatalf("rebooking freed dates should succeed: %v", err)
	}
}

func TestUpdateBookingSkipsOverlapCheckByDefault(t *testing.T) {
	svc, _, siteID := newTestService(t, Options{})
	ctx := context.Background()

	first, err := svc.Create(ctx, validParams(siteID, "A100", date(t, "2025-09-01"), date(t, "2025-09-05")))
	if err != nil {
		t.Fatalf("create first booking: %v", err)
	}
	second, err := svc.Create(ctx, validParams(siteID, "A101", date(t, "2025-09-10"), date(t, "2025-09-12")))
	if err != nil {
		t.Fatalf("create second booking: %v", err)
	}
	_ = first

	// Moving the second booking onto the first's dates is not rechecked.
	_, err = svc.Update(ctx, second.ID, UpdateParams{
		CampsiteID:    siteID,
		Email:         "camper@example.com",
		StartDate:     date(t, "2025-09-02"),
		EndDate:       date(t, "2025-09-04"),
		ResName:       "Dupont",
		BookingNumber: "A101",
	})
	if err != nil {
		t.Fatalf("update without revalidation should succeed: %v", err)
	}
}

func TestUpdateBookingRevalidatesOverlapWhenEnabled(t *testing.T) {
	svc, _, siteID := newTestService(t, Options{RevalidateOverlapOnUpdate: true})
	ctx := context.Background()

	if _, err := svc.Create(ctx, validParams(siteID, "A100", date(t, "2025-09-01"), date(t, "2025-09-05"))); err != nil {
		t.Fatalf("create first booking: %v", err)
	}
	second, err := svc.Create(ctx, validParams(siteID, "A101", date(t, "2025-09-10"), date(t, "2025-09-12")))
	if err != nil {
		t.Fatalf("create second booking: %v", err)
	}

	_, err = svc.Update(ctx, second.ID, UpdateParams{
		CampsiteID:    siteID,
		Email:         "camper@example.com",
		StartDate:     date(t, "2025-09-02"),
		EndDate:       date(t, "2025-09-04"),
		ResName:       "Dupont",
		BookingNumber: "A101",
	})
	if err == nil {
		t.Fatal("expected overlap rejection on update")
	}

	// Shifting a booking inside its own range never conflicts with itself.
	_, err = svc.Update(ctx, second.ID, UpdateParams{
		CampsiteID:    siteID,
		Email:         "camper@example.com",
		StartDate:     date(t, "2025-09-10"),
		EndDate:       date(t, "2025-09-13"),
		ResName:       "Dupont",
		BookingNumber: "A101",
	})
	if err != nil {
		t.Fatalf("extending own range should succeed: %v", err)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	_, err := svc.Get(context.Background(), "missing")
	se := apperrors.GetServiceError(err)
	if se == nil || se.HTTPStatus != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}
