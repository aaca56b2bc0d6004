package app

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/storefront-labs/shopcart/internal/cart/domain"
)

var (
	// ErrCartNotFound is returned by a CartRepo when no cart exists for
	// the given user.
	ErrCartNotFound = errors.New("cart not found")
	// ErrConflict is returned by Save when the stored version moved
	// since the cart was read.
	ErrConflict = errors.New("cart version conflict")
)

// CartRepo persists carts keyed by user id. Save performs a
// compare-and-swap on the cart's version and bumps it on success.
type CartRepo interface {
	FindByUser(ctx context.Context, userID string) (domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

// Product is the cart context's read view of a catalog product.
type Product struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	StockQuantity int32
	Active        bool
}

// ProductReader looks up products for the mutation engine. Errors
// carry apperr kinds (the adapter forwards the catalog service's).
type ProductReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}
