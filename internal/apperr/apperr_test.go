package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("plain error has no kind", func(t *testing.T) {
		assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	})

	t.Run("new error carries its kind", func(t *testing.T) {
		err := New(OutOfStock, "product is out of stock")
		assert.Equal(t, OutOfStock, KindOf(err))
		assert.True(t, IsKind(err, OutOfStock))
	})

	t.Run("kind survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("handling request: %w", New(CartFull, "cart has reached maximum item limit"))
		assert.Equal(t, CartFull, KindOf(err))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(PersistenceFailure, "failed to save cart", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, PersistenceFailure, KindOf(err))
	assert.Equal(t, "failed to save cart: connection refused", err.Error())
}

func TestOuterKindWins(t *testing.T) {
	inner := New(ProductNotFound, "product not found")
	outer := Wrap(ServiceFailure, "failed to add item to cart", inner)

	assert.Equal(t, ServiceFailure, KindOf(outer))
	assert.ErrorIs(t, outer, inner)
}
