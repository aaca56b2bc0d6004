package adapter

import (
	"context"

	cartapp "github.com/storefront-labs/shopcart/internal/cart/app"
	catalogapp "github.com/storefront-labs/shopcart/internal/catalog/app"
)

// CatalogServiceReader exposes the catalog service through the cart
// context's ProductReader port.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		return cartapp.Product{}, err
	}

	return cartapp.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
	}, nil
}
