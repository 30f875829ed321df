// Package bookings implements reservation management: creation with
// availability checks, listing, soft deletion and guest-facing lookups.
package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/ombrage/campground/internal/app/domain/booking"
	"github.com/ombrage/campground/internal/app/storage"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

const maxBookingNumberLength = 10

// Options tunes behaviors that are off by default.
type Options struct {
	// RevalidateOverlapOnUpdate re-runs the availability check when the
	// campsite or the dates of an existing booking change.
	RevalidateOverlapOnUpdate bool
}

// Service coordinates booking operations.
type Service struct {
	bookings  storage.BookingStore
	campsites storage.CampsiteStore
	opts      Options
	logger    *logger.Logger
}

// New creates a booking service.
func New(bookings storage.BookingStore, campsites storage.CampsiteStore, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("bookings")
	}
	return &Service{bookings: bookings, campsites: campsites, opts: opts, logger: log}
}

// CreateParams carries the fields accepted when creating a booking.
type CreateParams struct {
	CampsiteID    string
	UserID        string
	Email         string
	Phone         string
	StartDate     time.Time
	EndDate       time.Time
	ResName       string
	BookingNumber string
}

// Create validates availability and records a new booking.
func (s *Service) Create(ctx context.Context, params CreateParams) (booking.WithCampsite, error) {
	if err := s.validateFields(params.CampsiteID, params.Email, params.Phone, params.StartDate, params.EndDate, params.BookingNumber); err != nil {
		return booking.WithCampsite{}, err
	}

	exists, err := s.campsites.CampsiteExists(ctx, params.CampsiteID)
	if err != nil {
		return booking.WithCampsite{}, apperrors.Internal(err)
	}
	if !exists {
		return booking.WithCampsite{}, apperrors.Validation("campsite does not exist")
	}

	taken, err := s.bookings.BookingNumberExists(ctx, params.BookingNumber)
	if err != nil {
		return booking.WithCampsite{}, apperrors.Internal(err)
	}
	if taken {
		return booking.WithCampsite{}, apperrors.Validation("booking number is already in use")
	}

	if err := s.checkAvailability(ctx, params.CampsiteID, params.StartDate, params.EndDate); err != nil {
		return booking.WithCampsite{}, err
	}

	created, err := s.bookings.CreateBooking(ctx, booking.Booking{
		CampsiteID:    params.CampsiteID,
		UserID:        params.UserID,
		Email:         params.Email,
		Phone:         params.Phone,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		ResName:       params.ResName,
		BookingNumber: params.BookingNumber,
	})
	if err != nil {
		return booking.WithCampsite{}, apperrors.Internal(err)
	}

	s.logger.WithField("booking_id", created.ID).
		WithField("campsite_id", created.CampsiteID).
		Info("booking created")
	return s.Get(ctx, created.ID)
}

// UpdateParams carries the fields accepted when updating a booking.
type UpdateParams struct {
	CampsiteID    string
	UserID        string
	Email         string
	Phone         string
	StartDate     time.Time
	EndDate       time.Time
	ResName       string
	BookingNumber string
}

// Update replaces the mutable fields of an existing booking.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (booking.WithCampsite, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return booking.WithCampsite{}, err
	}

	if err := s.validateFields(params.CampsiteID, params.Email, params.Phone, params.StartDate, params.EndDate, params.BookingNumber); err != nil {
		return booking.WithCampsite{}, err
	}

	exists, err := s.campsites.CampsiteExists(ctx, params.CampsiteID)
	if err != nil {
		return booking.WithCampsite{}, apperrors.Internal(err)
	}
	if !exists {
		return booking.WithCampsite{}, apperrors.Validation("campsite does not exist")
	}

	if params.BookingNumber != current.BookingNumber {
		taken, err := s.bookings.BookingNumberExists(ctx, params.BookingNumber)
		if err != nil {
			return booking.WithCampsite{}, apperrors.Internal(err)
		}
		if taken {
			return booking.WithCampsite{}, apperrors.Validation("booking number is already in use")
		}
	}

	rangeChanged := params.CampsiteID != current.CampsiteID ||
		!params.StartDate.Equal(current.StartDate) ||
		!params.EndDate.Equal(current.EndDate)
	if s.opts.RevalidateOverlapOnUpdate && rangeChanged {
		if err := s.checkAvailabilityExcluding(ctx, params.CampsiteID, params.StartDate, params.EndDate, id); err != nil {
			return booking.WithCampsite{}, err
		}
	}

	updated := current.Booking
	updated.CampsiteID = params.CampsiteID
	updated.UserID = params.UserID
	updated.Email = params.Email
	updated.Phone = params.Phone
	updated.StartDate = params.StartDate
	updated.EndDate = params.EndDate
	updated.ResName = params.ResName
	updated.BookingNumber = params.BookingNumber

	if _, err := s.bookings.UpdateBooking(ctx, updated); err != nil {
		return booking.WithCampsite{}, apperrors.Internal(err)
	}

	s.logger.WithField("booking_id", id).Info("booking updated")
	return s.Get(ctx, id)
}

// Get returns a booking by id, including soft-deleted ones.
func (s *Service) Get(ctx context.Context, id string) (booking.WithCampsite, error) {
	got, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return booking.WithCampsite{}, apperrors.NotFound("booking")
		}
		return booking.WithCampsite{}, apperrors.Internal(err)
	}
	return got, nil
}

// List returns all bookings that have not been soft-deleted.
func (s *Service) List(ctx context.Context) ([]booking.WithCampsite, error) {
	list, err := s.bookings.ListActiveBookings(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// Delete soft-deletes a booking by stamping its delete date. The record
// stays retrievable by id.
func (s *Service) Delete(ctx context.Context, id string) (booking.WithCampsite, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return booking.WithCampsite{}, err
	}

	now := time.Now().UTC()
	updated := current.Booking
	updated.DeleteDate = &now
	if _, err := s.bookings.UpdateBooking(ctx, updated); err != nil {
		return booking.WithCampsite{}, apperrors.Internal(err)
	}

	s.logger.WithField("booking_id", id).Info("booking deleted")
	return s.Get(ctx, id)
}

// FindByNameAndNumber looks up an active booking by reservation name and
// booking number. Used by the guest login flow.
func (s *Service) FindByNameAndNumber(ctx context.Context, resName, number string) (booking.Booking, error) {
	if resName == "" || number == "" {
		return booking.Booking{}, apperrors.Validation("res_name and booking_number are required")
	}
	got, err := s.bookings.FindBookingByNameAndNumber(ctx, resName, number)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return booking.Booking{}, apperrors.NotFound("booking")
		}
		return booking.Booking{}, apperrors.Internal(err)
	}
	return got, nil
}

func (s *Service) validateFields(campsiteID, email, phone string, start, end time.Time, number string) error {
	if campsiteID == "" {
		return apperrors.Validation("campsite_id is required")
	}
	if start.IsZero() || end.IsZero() {
		return apperrors.Validation("start_date and end_date are required")
	}
	if !end.After(start) {
		return apperrors.Validation("end_date must be after start_date")
	}
	if email == "" && phone == "" {
		return apperrors.Validation("either email or phone is required")
	}
	if number == "" {
		return apperrors.Validation("booking_number is required")
	}
	if len(number) > maxBookingNumberLength {
		return apperrors.Validationf("booking_number must be at most %d characters", maxBookingNumberLength)
	}
	return nil
}

func (s *Service) checkAvailability(ctx context.Context, campsiteID string, start, end time.Time) error {
	return s.checkAvailabilityExcluding(ctx, campsiteID, start, end, "")
}

func (s *Service) checkAvailabilityExcluding(ctx context.Context, campsiteID string, start, end time.Time, excludeID string) error {
	overlapping, err := s.bookings.FindOverlapping(ctx, campsiteID, start, end)
	if err != nil {
		return apperrors.Internal(err)
	}
	for _, b := range overlapping {
		if b.ID != excludeID {
			return apperrors.Validation("campsite is already booked for the requested dates")
		}
	}
	return nil
}
