package guestauth

import (
	"context"
	"testing"
	"time"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/storage/memory"
	"github.com/ombrage/campground/internal/auth"
	apperrors "github.com/ombrage/campground/internal/errors"
)

func TestGuestLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tokens := auth.NewTokenIssuer("staff-secret", "guest-secret", time.Hour, time.Hour)
	svc := New(store, tokens, nil)

	b, err := store.CreateBooking(ctx, booking.Booking{
		CampsiteID:    "c1",
		ResName:       "Dupont",
		BookingNumber: "A100",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	result, err := svc.Login(ctx, "Dupont", "A100")
	if err != nil {
		t.Fatalf("guest login: %v", err)
	}
	if result.BookingID != b.ID || result.CampsiteID != "c1" {
		t.Fatalf("unexpected result: %+v", result)
	}

	claims, err := tokens.ParseGuest(result.Token)
	if err != nil {
		t.Fatalf("parse guest token: %v", err)
	}
	if claims.Scope != auth.ScopeGuest {
		t.Fatalf("expected guest scope, got %q", claims.Scope)
	}
	if claims.BookingID != b.ID || claims.CampsiteID != "c1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// Guest tokens never verify as staff tokens.
	if _, err := tokens.ParseStaff(result.Token); err == nil {
		t.Fatal("guest token must not pass staff verification")
	}
}

func TestGuestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tokens := auth.NewTokenIssuer("staff-secret", "guest-secret", time.Hour, time.Hour)
	svc := New(store, tokens, nil)

	if _, err := store.CreateBooking(ctx, booking.Booking{ResName: "Dupont", BookingNumber: "A100"}); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	_, err := svc.Login(ctx, "Dupont", "WRONG")
	se := apperrors.GetServiceError(err)
	if se == nil || se.HTTPStatus != 401 {
		t.Fatalf("expected 401, got %v", err)
	}

	if _, err := svc.Login(ctx, "", "A100"); err == nil {
		t.Fatal("expected validation error for missing res_name")
	}
}

func TestGuestLoginIgnoresDeletedBookings(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tokens := auth.NewTokenIssuer("staff-secret", "guest-secret", time.Hour, time.Hour)
	svc := New(store, tokens, nil)

	b, err := store.CreateBooking(ctx, booking.Booking{ResName: "Dupont", BookingNumber: "A100"})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	now := time.Now().UTC()
	b.DeleteDate = &now
	if _, err := store.UpdateBooking(ctx, b); err != nil {
		t.Fatalf("soft delete booking: %v", err)
	}

	_, err = svc.Login(ctx, "Dupont", "A100")
	se := apperrors.GetServiceError(err)
	if se == nil || se.HTTPStatus != 401 {
		t.Fatalf("expected 401 for deleted booking, got %v", err)
	}
}
