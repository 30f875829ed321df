// Package events implements the campground activity calendar.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/ombrage/campground/internal/app/domain/event"
	"github.com/ombrage/campground/internal/app/storage"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

// Service coordinates event calendar operations.
type Service struct {
	events storage.EventStore
	logger *logger.Logger
}

// New creates an event service.
func New(events storage.EventStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("events")
	}
	return &Service{events: events, logger: log}
}

// CreateParams carries the fields accepted when creating an event.
type CreateParams struct {
	Title         string
	Description   string
	StartDatetime time.Time
	EndDatetime   time.Time
	Location      string
}

func (p CreateParams) validate() error {
	if p.Title == "" {
		return apperrors.Validation("title is required")
	}
	if p.StartDatetime.IsZero() || p.EndDatetime.IsZero() {
		return apperrors.Validation("start_datetime and end_datetime are required")
	}
	if !p.EndDatetime.After(p.StartDatetime) {
		return apperrors.Validation("end_datetime must be after start_datetime")
	}
	return nil
}

// Create records a new calendar event.
func (s *Service) Create(ctx context.Context, params CreateParams) (event.Event, error) {
	if err := params.validate(); err != nil {
		return event.Event{}, err
	}
	created, err := s.events.CreateEvent(ctx, event.Event{
		Title:         params.Title,
		Description:   params.Description,
		StartDatetime: params.StartDatetime,
		EndDatetime:   params.EndDatetime,
		Location:      params.Location,
	})
	if err != nil {
		return event.Event{}, apperrors.Internal(err)
	}
	s.logger.WithField("event_id", created.ID).Info("event created")
	return created, nil
}

// Update replaces the mutable fields of an existing event.
func (s *Service) Update(ctx context.Context, id string, params CreateParams) (event.Event, error) {
	if err := params.validate(); err != nil {
		return event.Event{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return event.Event{}, err
	}

	current.Title = params.Title
	current.Description = params.Description
	current.StartDatetime = params.StartDatetime
	current.EndDatetime = params.EndDatetime
	current.Location = params.Location

	updated, err := s.events.UpdateEvent(ctx, current)
	if err != nil {
		return event.Event{}, apperrors.Internal(err)
	}
	s.logger.WithField("event_id", id).Info("event updated")
	return updated, nil
}

// Get returns an event by id.
func (s *Service) Get(ctx context.Context, id string) (event.Event, error) {
	got, err := s.events.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return event.Event{}, apperrors.NotFound("event")
		}
		return event.Event{}, apperrors.Internal(err)
	}
	return got, nil
}

// List returns all events ordered by start time.
func (s *Service) List(ctx context.Context) ([]event.Event, error) {
	list, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// Delete removes an event.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("event")
		}
		return apperrors.Internal(err)
	}
	s.logger.WithField("event_id", id).Info("event deleted")
	return nil
}
