package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/shopcart/internal/apperr"
	"github.com/storefront-labs/shopcart/internal/cart/domain"
)

type fakeProductReader struct {
	products map[string]Product
	err      error
}

func (f *fakeProductReader) GetProduct(ctx context.Context, productID string) (Product, error) {
	if f.err != nil {
		return Product{}, f.err
	}
	p, ok := f.products[productID]
	if !ok {
		return Product{}, apperr.New(apperr.ProductNotFound, "product not found with id: "+productID)
	}
	return p, nil
}

type fakeCartRepo struct {
	carts map[string]domain.Cart

	// findErrs and saveErrs are consumed one entry per call; a nil
	// entry (or an exhausted queue) means the call goes through.
	findErrs []error
	saveErrs []error

	findCalls int
	saveCalls int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]domain.Cart)}
}

func (f *fakeCartRepo) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	f.findCalls++
	if len(f.findErrs) > 0 {
		err := f.findErrs[0]
		f.findErrs = f.findErrs[1:]
		if err != nil {
			return domain.Cart{}, err
		}
	}
	cart, ok := f.carts[userID]
	if !ok {
		return domain.Cart{}, ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (f *fakeCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	f.saveCalls++
	if len(f.saveErrs) > 0 {
		err := f.saveErrs[0]
		f.saveErrs = f.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	cart.Version++
	f.carts[cart.UserID] = cloneCart(*cart)
	return nil
}

func cloneCart(c domain.Cart) domain.Cart {
	out := c
	out.Lines = make([]domain.Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestEngine(t *testing.T) (*Service, *fakeCartRepo, *fakeProductReader) {
	t.Helper()
	repo := newFakeCartRepo()
	reader := &fakeProductReader{products: map[string]Product{
		"p-1": {ID: "p-1", Name: "Keyboard", Price: price("10.99"), StockQuantity: 100, Active: true},
		"p-2": {ID: "p-2", Name: "Cable", Price: price("3.50"), StockQuantity: 10, Active: true},
	}}
	return NewService(repo, reader), repo, reader
}

func TestAddItem_Validation(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestEngine(t)

	t.Run("blank user id", func(t *testing.T) {
		err := svc.AddItem(ctx, "   ", "p-1", 1)
		assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	})

	t.Run("blank product id", func(t *testing.T) {
		err := svc.AddItem(ctx, "u-1", "", 1)
		assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	})

	t.Run("zero quantity", func(t *testing.T) {
		err := svc.AddItem(ctx, "u-1", "p-1", 0)
		assert.Equal(t, apperr.InvalidQuantity, apperr.KindOf(err))
	})

	t.Run("negative quantity wins over unknown product", func(t *testing.T) {
		err := svc.AddItem(ctx, "u-1", "no-such-product", -3)
		assert.Equal(t, apperr.InvalidQuantity, apperr.KindOf(err))
	})

	assert.Zero(t, repo.saveCalls)
}

func TestAddItem_ProductChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _ := newTestEngine(t)
		err := svc.AddItem(ctx, "u-1", "ghost", 1)
		assert.Equal(t, apperr.ProductNotFound, apperr.KindOf(err))
	})

	t.Run("inactive product", func(t *testing.T) {
		svc, _, reader := newTestEngine(t)
		reader.products["p-1"] = Product{ID: "p-1", Price: price("10.99"), StockQuantity: 100, Active: false}
		err := svc.AddItem(ctx, "u-1", "p-1", 1)
		assert.Equal(t, apperr.ProductNotAvailable, apperr.KindOf(err))
	})

	t.Run("insufficient stock", func(t *testing.T) {
		svc, _, _ := newTestEngine(t)
		err := svc.AddItem(ctx, "u-1", "p-2", 11)
		assert.Equal(t, apperr.OutOfStock, apperr.KindOf(err))
	})

	t.Run("unexpected lookup fault becomes service failure", func(t *testing.T) {
		svc, _, reader := newTestEngine(t)
		cause := errors.New("connection refused")
		reader.err = cause
		err := svc.AddItem(ctx, "u-1", "p-1", 1)
		assert.Equal(t, apperr.ServiceFailure, apperr.KindOf(err))
		assert.ErrorIs(t, err, cause)
	})
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestEngine(t)

	require.NoError(t, svc.AddItem(ctx, "u-1", "p-1", 2))

	cart, ok := repo.carts["u-1"]
	require.True(t, ok, "cart should have been created")
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "p-1", cart.Lines[0].ProductID)
	assert.Equal(t, int32(2), cart.Lines[0].Quantity)
	assert.True(t, cart.Lines[0].UnitPrice.Equal(price("10.99")))
}

func TestAddItem_MergeKeepsPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, repo, reader := newTestEngine(t)

	require.NoError(t, svc.AddItem(ctx, "u-1", "p-1", 2))

	// Product price changes between the two adds.
	p := reader.products["p-1"]
	p.Price = price("15.99")
	reader.products["p-1"] = p

	require.NoError(t, svc.AddItem(ctx, "u-1", "p-1", 3))

	cart := repo.carts["u-1"]
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int32(5), cart.Lines[0].Quantity)
	assert.True(t, cart.Lines[0].UnitPrice.Equal(price("10.99")),
		"merged line must keep the original snapshot, got %s", cart.Lines[0].UnitPrice)
}

func TestAddItem_NotIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestEngine(t)

	require.NoError(t, svc.AddItem(ctx, "u-1", "p-1", 2))
	require.NoError(t, svc.AddItem(ctx, "u-1", "p-1", 2))

	assert.Equal(t, int32(4), repo.carts["u-1"].Lines[0].Quantity)
}

func TestAddItem_QuantityOverflow(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestEngine(t)

	repo.carts["u-1"] = domain.Cart{
		UserID:  "u-1",
		Version: 1,
		Lines:   []domain.Line{{ProductID: "p-1", Quantity: math.MaxInt32 - 1, UnitPrice: price("10.99")}},
	}

	err := svc.AddItem(ctx, "u-1", "p-1", 2)
	assert.Equal(t, apperr.ArithmeticOverflow, apperr.KindOf(err))

	assert.Equal(t, int32(math.MaxInt32-1), repo.carts["u-1"].Lines[0].Quantity,
		"stored cart must be untouched after an overflow")
	assert.Zero(t, repo.saveCalls)
}

func TestAddItem_CartCap(t *testing.T) {
	ctx := context.Background()

	fullCart := func() domain.Cart {
		cart := domain.Cart{UserID: "u-1", Version: 1}
		for i := 0; i < domain.MaxLines; i++ {
			cart.Lines = append(cart.Lines, domain.Line{
				ProductID: "filler-" + string(rune('a'+i)),
				Quantity:  1,
				UnitPrice: price("1.00"),
			})
		}
		return cart
	}

	t.Run("11th distinct product rejected", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		repo.carts["u-1"] = fullCart()

		err := svc.AddItem(ctx, "u-1", "p-1", 1)
		assert.Equal(t, apperr.CartFull, apperr.KindOf(err))
		assert.Zero(t, repo.saveCalls)
	})

	t.Run("merge into full cart allowed", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		cart := fullCart()
		cart.Lines[0] = domain.Line{ProductID: "p-1", Quantity: 1, UnitPrice: price("10.99")}
		repo.carts["u-1"] = cart

		require.NoError(t, svc.AddItem(ctx, "u-1", "p-1", 4))
		assert.Equal(t, int32(5), repo.carts["u-1"].Lines[0].Quantity)
	})
}

func TestAddItem_SaveConflictRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("single conflict retried and succeeds", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)

		// A concurrent writer's cart is what the reload sees.
		concurrent := domain.Cart{
			UserID:  "u-1",
			Version: 3,
			Lines:   []domain.Line{{ProductID: "p-2", Quantity: 7, UnitPrice: price("3.50")}},
		}
		repo.carts["u-1"] = concurrent
		repo.saveErrs = []error{ErrConflict, nil}

		require.NoError(t, svc.AddItem(ctx, "u-1", "p-1", 1))
		assert.Equal(t, 2, repo.saveCalls)

		// Last-write-wins: the retry re-saves the reloaded cart, it
		// does not re-apply the merge.
		stored := repo.carts["u-1"]
		require.Len(t, stored.Lines, 1)
		assert.Equal(t, "p-2", stored.Lines[0].ProductID)
		assert.Equal(t, int32(7), stored.Lines[0].Quantity)
	})

	t.Run("second conflict surfaces as failure", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		repo.carts["u-1"] = domain.Cart{UserID: "u-1", Version: 1}
		repo.saveErrs = []error{ErrConflict, ErrConflict}

		err := svc.AddItem(ctx, "u-1", "p-1", 1)
		assert.Equal(t, apperr.ServiceFailure, apperr.KindOf(err))
		assert.Equal(t, 2, repo.saveCalls, "no third save attempt")
	})

	t.Run("reload failure reported as not found on retry", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		repo.carts["u-1"] = domain.Cart{UserID: "u-1", Version: 1}
		repo.saveErrs = []error{ErrConflict}
		repo.findErrs = []error{nil, ErrCartNotFound}

		err := svc.AddItem(ctx, "u-1", "p-1", 1)
		assert.Equal(t, apperr.CartNotFound, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "not found on retry")
	})

	t.Run("non-conflict save fault is a persistence failure", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		cause := errors.New("disk full")
		repo.saveErrs = []error{cause}

		err := svc.AddItem(ctx, "u-1", "p-1", 1)
		assert.Equal(t, apperr.PersistenceFailure, apperr.KindOf(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, repo.saveCalls, "conflict retry must not trigger")
	})
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("blank user id", func(t *testing.T) {
		svc, _, _ := newTestEngine(t)
		_, err := svc.GetCart(ctx, " ")
		assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	})

	t.Run("missing cart is not created", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		_, err := svc.GetCart(ctx, "u-1")
		assert.Equal(t, apperr.CartNotFound, apperr.KindOf(err))
		assert.Empty(t, repo.carts)
	})

	t.Run("returns the stored cart", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		repo.carts["u-1"] = domain.Cart{
			UserID:  "u-1",
			Version: 1,
			Lines:   []domain.Line{{ProductID: "p-1", Quantity: 2, UnitPrice: price("10.99")}},
		}

		cart, err := svc.GetCart(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "p-1", cart.Lines[0].ProductID)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("blank ids", func(t *testing.T) {
		svc, _, _ := newTestEngine(t)
		assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(svc.RemoveItem(ctx, "", "p-1")))
		assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(svc.RemoveItem(ctx, "u-1", " ")))
	})

	t.Run("missing cart propagates not found", func(t *testing.T) {
		svc, _, _ := newTestEngine(t)
		err := svc.RemoveItem(ctx, "u-1", "p-1")
		assert.Equal(t, apperr.CartNotFound, apperr.KindOf(err))
	})

	t.Run("removes all matching lines", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		repo.carts["u-1"] = domain.Cart{
			UserID:  "u-1",
			Version: 1,
			Lines: []domain.Line{
				{ProductID: "p-1", Quantity: 1, UnitPrice: price("10.99")},
				{ProductID: "p-2", Quantity: 2, UnitPrice: price("3.50")},
				{ProductID: "p-1", Quantity: 3, UnitPrice: price("9.99")},
			},
		}

		require.NoError(t, svc.RemoveItem(ctx, "u-1", "p-1"))

		stored := repo.carts["u-1"]
		require.Len(t, stored.Lines, 1)
		assert.Equal(t, "p-2", stored.Lines[0].ProductID)
	})

	t.Run("no matching line is a persisted no-op", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		repo.carts["u-1"] = domain.Cart{
			UserID:  "u-1",
			Version: 1,
			Lines:   []domain.Line{{ProductID: "p-2", Quantity: 2, UnitPrice: price("3.50")}},
		}

		require.NoError(t, svc.RemoveItem(ctx, "u-1", "p-9"))
		assert.Equal(t, 1, repo.saveCalls)
		assert.Len(t, repo.carts["u-1"].Lines, 1)
	})

	t.Run("save conflict is a persistence failure, no retry", func(t *testing.T) {
		svc, repo, _ := newTestEngine(t)
		repo.carts["u-1"] = domain.Cart{UserID: "u-1", Version: 1}
		repo.saveErrs = []error{ErrConflict}

		err := svc.RemoveItem(ctx, "u-1", "p-1")
		assert.Equal(t, apperr.PersistenceFailure, apperr.KindOf(err))
		assert.Equal(t, 1, repo.saveCalls)
	})
}
