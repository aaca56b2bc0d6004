package app

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront-labs/shopcart/internal/apperr"
	"github.com/storefront-labs/shopcart/internal/catalog/domain"
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, apperr.New(apperr.InvalidArgument, "product id cannot be empty")
	}

	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return domain.Product{}, apperr.Wrap(apperr.ProductNotFound, "product not found with id: "+id, err)
	}
	if err != nil {
		return domain.Product{}, apperr.Wrap(apperr.PersistenceFailure, "load product", err)
	}

	return p, nil
}

// ListActiveProducts returns every product with the active flag set.
// Order is store-defined.
func (s *Service) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.PersistenceFailure, "list active products", err)
	}
	return products, nil
}

// UpdateStock overwrites the product's stock quantity.
func (s *Service) UpdateStock(ctx context.Context, id string, qty int32) error {
	if qty < 0 {
		return apperr.New(apperr.InvalidArgument, "stock quantity cannot be negative")
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	p.StockQuantity = qty
	if err := s.repo.Save(ctx, &p); err != nil {
		return apperr.Wrap(apperr.PersistenceFailure, "save product stock", err)
	}

	return nil
}

// IsAvailable reports whether the product is active and holds at least
// qty units of stock.
func (s *Service) IsAvailable(ctx context.Context, id string, qty int32) (bool, error) {
	if qty <= 0 {
		return false, apperr.New(apperr.InvalidArgument, "quantity must be greater than zero")
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return false, err
	}

	return p.Available(qty), nil
}
