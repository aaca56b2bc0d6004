package memory

import (
	"context"
	"sync"

	"github.com/storefront-labs/shopcart/internal/catalog/app"
	"github.com/storefront-labs/shopcart/internal/catalog/domain"
)

type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[string]domain.Product)}
}

// Seed inserts a product as-is, starting its version at 1. Intended
// for local runs and tests.
func (r *ProductRepo) Seed(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Version = 1
	r.products[p.ID] = p
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.products[p.ID]
	if !ok {
		return app.ErrNotFound
	}
	if cur.Version != p.Version {
		return app.ErrConflict
	}

	p.Version++
	r.products[p.ID] = *p
	return nil
}
