// Package products implements the shop catalog.
package products

import (
	"context"
	"errors"

	"github.com/ombrage/campground/internal/app/domain/product"
	"github.com/ombrage/campground/internal/app/storage"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

// Service coordinates product catalog operations.
type Service struct {
	products storage.ProductStore
	logger   *logger.Logger
}

// New creates a product service.
func New(products storage.ProductStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("products")
	}
	return &Service{products: products, logger: log}
}

// CreateParams carries the fields accepted when creating a product.
type CreateParams struct {
	Name      string
	Category  string
	Unit      string
	Price     float64
	Available bool
}

// Create records a new catalog product.
func (s *Service) Create(ctx context.Context, params CreateParams) (product.Product, error) {
	if params.Name == "" {
		return product.Product{}, apperrors.Validation("name is required")
	}
	if params.Price < 0 {
		return product.Product{}, apperrors.Validation("price must not be negative")
	}
	created, err := s.products.CreateProduct(ctx, product.Product{
		Name:      params.Name,
		Category:  params.Category,
		Unit:      params.Unit,
		Price:     params.Price,
		Available: params.Available,
	})
	if err != nil {
		return product.Product{}, apperrors.Internal(err)
	}
	s.logger.WithField("product_id", created.ID).Info("product created")
	return created, nil
}

// Update replaces the mutable fields of an existing product.
func (s *Service) Update(ctx context.Context, id string, params CreateParams) (product.Product, error) {
	if params.Name == "" {
		return product.Product{}, apperrors.Validation("name is required")
	}
	if params.Price < 0 {
		return product.Product{}, apperrors.Validation("price must not be negative")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return product.Product{}, err
	}

	current.Name = params.Name
	current.Category = params.Category
	current.Unit = params.Unit
	current.Price = params.Price
	current.Available = params.Available

	updated, err := s.products.UpdateProduct(ctx, current)
	if err != nil {
		return product.Product{}, apperrors.Internal(err)
	}
	s.logger.WithField("product_id", id).Info("product updated")
	return updated, nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	got, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return product.Product{}, apperrors.NotFound("product")
		}
		return product.Product{}, apperrors.Internal(err)
	}
	return got, nil
}

// List returns the full catalog, available or not.
func (s *Service) List(ctx context.Context) ([]product.Product, error) {
	list, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("product")
		}
		return apperrors.Internal(err)
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}
