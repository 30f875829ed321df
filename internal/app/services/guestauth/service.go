// Package guestauth implements the passwordless guest login flow: campers
// authenticate with the name on their reservation and its booking number.
package guestauth

import (
	"context"
	"errors"
	"time"

	"github.com/ombrage/campground/internal/app/storage"
	"github.com/ombrage/campground/internal/auth"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

// Service issues guest tokens against active bookings.
type Service struct {
	bookings storage.BookingStore
	tokens   *auth.TokenIssuer
	logger   *logger.Logger
}

// New creates a guest auth service.
func New(bookings storage.BookingStore, tokens *auth.TokenIssuer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("guestauth")
	}
	return &Service{bookings: bookings, tokens: tokens, logger: log}
}

// LoginResult is returned on a successful guest login.
type LoginResult struct {
	Token      string
	ExpiresAt  time.Time
	BookingID  string
	CampsiteID string
}

// Login matches the reservation name and booking number against active
// bookings and returns a guest-scoped token bound to the matched booking.
func (s *Service) Login(ctx context.Context, resName, bookingNumber string) (LoginResult, error) {
	if resName == "" || bookingNumber == "" {
		return LoginResult{}, apperrors.Validation("res_name and booking_number are required")
	}

	b, err := s.bookings.FindBookingByNameAndNumber(ctx, resName, bookingNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return LoginResult{}, apperrors.Unauthorized("invalid reservation credentials")
		}
		return LoginResult{}, apperrors.Internal(err)
	}

	token, expires, err := s.tokens.IssueGuest(b.ID, b.CampsiteID)
	if err != nil {
		return LoginResult{}, apperrors.Internal(err)
	}

	s.logger.WithField("booking_id", b.ID).Info("guest logged in")
	return LoginResult{Token: token, ExpiresAt: expires, BookingID: b.ID, CampsiteID: b.CampsiteID}, nil
}
