package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	StockQuantity int32
	Active        bool
	// Version is the optimistic concurrency token managed by the store.
	Version int64
}

// Available reports whether the product can satisfy an order of qty
// units. Callers validate qty > 0 before asking.
func (p Product) Available(qty int32) bool {
	return p.Active && p.StockQuantity >= qty
}
