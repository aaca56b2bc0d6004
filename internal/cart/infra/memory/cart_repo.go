// Package memory holds an in-process cart store with the same
// versioned compare-and-swap contract as the postgres one.
package memory

import (
	"context"
	"sync"

	"github.com/storefront-labs/shopcart/internal/cart/app"
	"github.com/storefront-labs/shopcart/internal/cart/domain"
)

type CartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[string]domain.Cart)}
}

func (r *CartRepo) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return domain.Cart{}, app.ErrCartNotFound
	}
	return clone(cart), nil
}

// Save swaps the stored cart if the caller's version matches the
// stored one (0 for a cart never persisted), then bumps the version.
func (r *CartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stored int64
	if cur, ok := r.carts[cart.UserID]; ok {
		stored = cur.Version
	}
	if cart.Version != stored {
		return app.ErrConflict
	}

	cart.Version++
	r.carts[cart.UserID] = clone(*cart)
	return nil
}

func clone(c domain.Cart) domain.Cart {
	out := c
	out.Lines = make([]domain.Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
