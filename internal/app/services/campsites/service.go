// Package campsites implements pitch management.
package campsites

import (
	"context"
	"errors"

	"github.com/ombrage/campground/internal/app/domain/campsite"
	"github.com/ombrage/campground/internal/app/storage"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

// Service coordinates campsite operations.
type Service struct {
	campsites storage.CampsiteStore
	logger    *logger.Logger
}

// New creates a campsite service.
func New(campsites storage.CampsiteStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("campsites")
	}
	return &Service{campsites: campsites, logger: log}
}

// CreateParams carries the fields accepted when creating a campsite.
type CreateParams struct {
	Name        string
	Type        string
	Description string
	Status      string
}

// Create records a new campsite.
func (s *Service) Create(ctx context.Context, params CreateParams) (campsite.Campsite, error) {
	if params.Name == "" {
		return campsite.Campsite{}, apperrors.Validation("name is required")
	}
	created, err := s.campsites.CreateCampsite(ctx, campsite.Campsite{
		Name:        params.Name,
		Type:        params.Type,
		Description: params.Description,
		Status:      params.Status,
	})
	if err != nil {
		return campsite.Campsite{}, apperrors.Internal(err)
	}
	s.logger.WithField("campsite_id", created.ID).Info("campsite created")
	return created, nil
}

// Update replaces the mutable fields of an existing campsite.
func (s *Service) Update(ctx context.Context, id string, params CreateParams) (campsite.Campsite, error) {
	if params.Name == "" {
		return campsite.Campsite{}, apperrors.Validation("name is required")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return campsite.Campsite{}, err
	}

	current.Name = params.Name
	current.Type = params.Type
	current.Description = params.Description
	current.Status = params.Status

	updated, err := s.campsites.UpdateCampsite(ctx, current)
	if err != nil {
		return campsite.Campsite{}, apperrors.Internal(err)
	}
	s.logger.WithField("campsite_id", id).Info("campsite updated")
	return updated, nil
}

// Get returns a campsite by id.
func (s *Service) Get(ctx context.Context, id string) (campsite.Campsite, error) {
	got, err := s.campsites.GetCampsite(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return campsite.Campsite{}, apperrors.NotFound("campsite")
		}
		return campsite.Campsite{}, apperrors.Internal(err)
	}
	return got, nil
}

// List returns all campsites.
func (s *Service) List(ctx context.Context) ([]campsite.Campsite, error) {
	list, err := s.campsites.ListCampsites(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// Delete removes a campsite.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.campsites.DeleteCampsite(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("campsite")
		}
		return apperrors.Internal(err)
	}
	s.logger.WithField("campsite_id", id).Info("campsite deleted")
	return nil
}
