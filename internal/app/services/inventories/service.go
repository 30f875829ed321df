// Package inventories implements arrival/departure inventory management,
// including the alternation rule enforced per campsite.
package inventories

import (
	"context"
	"errors"

	"github.com/ombrage/campground/internal/app/domain/inventory"
	"github.com/ombrage/campground/internal/app/storage"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

// Options tunes behaviors that are off by default.
type Options struct {
	// RecheckAlternationOnUpdate re-runs the alternation check when the
	// type or campsite of an existing inventory changes.
	RecheckAlternationOnUpdate bool
}

// Service coordinates inventory operations.
type Service struct {
	inventories storage.InventoryStore
	bookings    storage.BookingStore
	campsites   storage.CampsiteStore
	opts        Options
	logger      *logger.Logger
}

// New creates an inventory service.
func New(inventories storage.InventoryStore, bookings storage.BookingStore, campsites storage.CampsiteStore, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("inventories")
	}
	return &Service{inventories: inventories, bookings: bookings, campsites: campsites, opts: opts, logger: log}
}

// CreateParams carries the fields accepted when creating an inventory.
type CreateParams struct {
	CampsiteID string
	BookingID  string
	Type       inventory.Type
	Comment    string
	Items      []inventory.Item
}

// Create records a new inventory. When no campsite is given the booking's
// campsite is used. Consecutive inventories on a campsite must alternate
// between arrival and departure.
func (s *Service) Create(ctx context.Context, params CreateParams) (inventory.WithMeta, error) {
	if !params.Type.Valid() {
		return inventory.WithMeta{}, apperrors.Validation("type must be arrival or departure")
	}

	campsiteID := params.CampsiteID
	if params.BookingID != "" {
		b, err := s.bookings.GetBooking(ctx, params.BookingID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return inventory.WithMeta{}, apperrors.Validation("booking does not exist")
			}
			return inventory.WithMeta{}, apperrors.Internal(err)
		}
		if campsiteID == "" {
			campsiteID = b.CampsiteID
		}
	}
	if campsiteID == "" {
		return inventory.WithMeta{}, apperrors.Validation("campsite_id is required when no booking is given")
	}

	exists, err := s.campsites.CampsiteExists(ctx, campsiteID)
	if err != nil {
		return inventory.WithMeta{}, apperrors.Internal(err)
	}
	if !exists {
		return inventory.WithMeta{}, apperrors.Validation("campsite does not exist")
	}

	if err := s.checkAlternation(ctx, campsiteID, params.Type, ""); err != nil {
		return inventory.WithMeta{}, err
	}

	created, err := s.inventories.CreateInventory(ctx, inventory.Inventory{
		CampsiteID: campsiteID,
		BookingID:  params.BookingID,
		Type:       params.Type,
		Comment:    params.Comment,
		Items:      params.Items,
	})
	if err != nil {
		return inventory.WithMeta{}, apperrors.Internal(err)
	}

	if params.BookingID != "" {
		if err := s.bookings.SetBookingLastInventory(ctx, params.BookingID, created.ID); err != nil {
			return inventory.WithMeta{}, apperrors.Internal(err)
		}
	}

	s.logger.WithField("inventory_id", created.ID).
		WithField("campsite_id", campsiteID).
		WithField("type", string(params.Type)).
		Info("inventory created")
	return s.Get(ctx, created.ID)
}

// UpdateParams carries the fields accepted when updating an inventory.
// BookingID nil leaves the attachment unchanged; DetachBooking detaches
// the inventory from its booking.
type UpdateParams struct {
	CampsiteID    string
	BookingID     *string
	DetachBooking bool
	Type          inventory.Type
	Comment       string
	Items         []inventory.Item
	ReplaceItems  bool
}

// Update replaces the mutable fields of an existing inventory and keeps the
// booking last-inventory pointer in sync with attachment changes.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (inventory.WithMeta, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return inventory.WithMeta{}, err
	}

	if !params.Type.Valid() {
		return inventory.WithMeta{}, apperrors.Validation("type must be arrival or departure")
	}

	campsiteID := params.CampsiteID
	if campsiteID == "" {
		campsiteID = current.CampsiteID
	}
	exists, err := s.campsites.CampsiteExists(ctx, campsiteID)
	if err != nil {
		return inventory.WithMeta{}, apperrors.Internal(err)
	}
	if !exists {
		return inventory.WithMeta{}, apperrors.Validation("campsite does not exist")
	}

	bookingID := current.BookingID
	switch {
	case params.DetachBooking:
		bookingID = ""
	case params.BookingID != nil:
		bookingID = *params.BookingID
		ok, err := s.bookings.BookingExists(ctx, bookingID)
		if err != nil {
			return inventory.WithMeta{}, apperrors.Internal(err)
		}
		if !ok {
			return inventory.WithMeta{}, apperrors.Validation("booking does not exist")
		}
	}

	if s.opts.RecheckAlternationOnUpdate &&
		(params.Type != current.Type || campsiteID != current.CampsiteID) {
		if err := s.checkAlternation(ctx, campsiteID, params.Type, id); err != nil {
			return inventory.WithMeta{}, err
		}
	}

	updated := current.Inventory
	updated.CampsiteID = campsiteID
	updated.BookingID = bookingID
	updated.Type = params.Type
	updated.Comment = params.Comment
	if params.ReplaceItems {
		updated.Items = params.Items
	}

	if _, err := s.inventories.UpdateInventory(ctx, updated, params.ReplaceItems); err != nil {
		return inventory.WithMeta{}, apperrors.Internal(err)
	}

	if params.DetachBooking {
		if err := s.bookings.DetachBookingLastInventory(ctx, id); err != nil {
			return inventory.WithMeta{}, apperrors.Internal(err)
		}
	} else if params.BookingID != nil {
		if err := s.bookings.SetBookingLastInventory(ctx, bookingID, id); err != nil {
			return inventory.WithMeta{}, apperrors.Internal(err)
		}
	}

	s.logger.WithField("inventory_id", id).Info("inventory updated")
	return s.Get(ctx, id)
}

// Delete removes an inventory. Bookings pointing at it as their last
// inventory are detached first.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.inventories.DeleteInventory(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("inventory")
		}
		return apperrors.Internal(err)
	}
	s.logger.WithField("inventory_id", id).Info("inventory deleted")
	return nil
}

// Get returns an inventory with its booking and campsite metadata.
func (s *Service) Get(ctx context.Context, id string) (inventory.WithMeta, error) {
	got, err := s.inventories.GetInventory(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return inventory.WithMeta{}, apperrors.NotFound("inventory")
		}
		return inventory.WithMeta{}, apperrors.Internal(err)
	}
	return got, nil
}

// List returns all inventories, most recent first.
func (s *Service) List(ctx context.Context) ([]inventory.WithMeta, error) {
	list, err := s.inventories.ListInventories(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// ListByBooking returns the inventories attached to a booking.
func (s *Service) ListByBooking(ctx context.Context, bookingID string) ([]inventory.WithMeta, error) {
	list, err := s.inventories.ListInventoriesByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

func (s *Service) checkAlternation(ctx context.Context, campsiteID string, next inventory.Type, excludeID string) error {
	last, err := s.inventories.LastInventoryForCampsite(ctx, campsiteID, excludeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return apperrors.Internal(err)
	}
	if last.Type == next {
		return apperrors.Validationf("last inventory for this campsite is already a %s", string(next))
	}
	return nil
}
