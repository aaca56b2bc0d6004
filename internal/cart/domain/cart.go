package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MaxLines is the hard cap on distinct lines a cart may hold.
const MaxLines = 10

var (
	// ErrCartFull rejects appending a new line to a cart that already
	// holds MaxLines lines. Merging into an existing line never hits it.
	ErrCartFull = errors.New("cart has reached maximum line limit")
	// ErrQuantityOverflow rejects a merge whose sum does not fit int32.
	ErrQuantityOverflow = errors.New("quantity would exceed maximum allowed value")
)

// Line is one product entry in a cart. UnitPrice is a snapshot taken
// when the line was first created; later product price changes do not
// touch it.
type Line struct {
	ProductID string
	Quantity  int32
	UnitPrice decimal.Decimal
}

// Cart holds a user's lines in insertion order. Version is the
// optimistic concurrency token managed by the store; a fresh cart has
// Version 0 and has never been persisted.
type Cart struct {
	UserID  string
	Lines   []Line
	Version int64
}

func NewCart(userID string) Cart {
	return Cart{UserID: userID}
}

// AddItem merges qty into an existing line for productID, or appends a
// new line with unitPrice as its snapshot. The cart is left untouched
// when an error is returned.
func (c *Cart) AddItem(productID string, qty int32, unitPrice decimal.Decimal) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		merged := int64(c.Lines[i].Quantity) + int64(qty)
		if merged > math.MaxInt32 {
			return ErrQuantityOverflow
		}
		c.Lines[i].Quantity = int32(merged)
		return nil
	}

	if len(c.Lines) >= MaxLines {
		return ErrCartFull
	}

	c.Lines = append(c.Lines, Line{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: unitPrice,
	})
	return nil
}

// RemoveItem drops every line matching productID and reports how many
// were removed. Removing nothing is not an error.
func (c *Cart) RemoveItem(productID string) int {
	kept := c.Lines[:0]
	removed := 0
	for _, l := range c.Lines {
		if l.ProductID == productID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	return removed
}
