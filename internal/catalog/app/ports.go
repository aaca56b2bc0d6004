package app

import (
	"context"
	"errors"

	"github.com/storefront-labs/shopcart/internal/catalog/domain"
)

var (
	// ErrNotFound is returned by a ProductRepo when no product exists
	// for the given id.
	ErrNotFound = errors.New("product not found")
	// ErrConflict is returned by Save when the stored version moved
	// since the product was read.
	ErrConflict = errors.New("product version conflict")
)

type ProductRepo interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	Save(ctx context.Context, p *domain.Product) error
}
