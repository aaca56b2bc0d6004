package app

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront-labs/shopcart/internal/apperr"
	"github.com/storefront-labs/shopcart/internal/cart/domain"
)

// Service is the cart mutation engine: validation, product
// availability checks, quantity merge and persistence with a single
// retry on optimistic-concurrency conflicts.
type Service struct {
	carts    CartRepo
	products ProductReader
}

func NewService(carts CartRepo, products ProductReader) *Service {
	return &Service{
		carts:    carts,
		products: products,
	}
}

// AddItem adds qty units of a product to the user's cart, creating the
// cart lazily when the user has none. An existing line for the product
// absorbs the quantity and keeps its price snapshot; otherwise a new
// line captures the product's current price.
func (s *Service) AddItem(ctx context.Context, userID, productID string, qty int32) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.New(apperr.InvalidArgument, "user id cannot be empty")
	}
	if strings.TrimSpace(productID) == "" {
		return apperr.New(apperr.InvalidArgument, "product id cannot be empty")
	}
	if qty <= 0 {
		return apperr.New(apperr.InvalidQuantity, "quantity must be greater than zero")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return reclassify(err)
	}
	if !product.Active {
		return apperr.New(apperr.ProductNotAvailable, "product is not available")
	}
	if product.StockQuantity < qty {
		return apperr.New(apperr.OutOfStock, "product is out of stock")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		cart = domain.NewCart(userID)
	} else if err != nil {
		return apperr.Wrap(apperr.ServiceFailure, "failed to add item to cart", err)
	}

	if err := cart.AddItem(productID, qty, product.Price); err != nil {
		switch {
		case errors.Is(err, domain.ErrCartFull):
			return apperr.Wrap(apperr.CartFull, "cart has reached maximum item limit", err)
		case errors.Is(err, domain.ErrQuantityOverflow):
			return apperr.Wrap(apperr.ArithmeticOverflow, "quantity would exceed maximum allowed value", err)
		default:
			return apperr.Wrap(apperr.ServiceFailure, "failed to add item to cart", err)
		}
	}

	return s.saveWithRetry(ctx, userID, &cart)
}

// saveWithRetry persists the cart; on a version conflict it reloads
// once and re-saves whatever the store now holds (last-write-wins), no
// re-merge, no re-validation. A second conflict is not retried.
func (s *Service) saveWithRetry(ctx context.Context, userID string, cart *domain.Cart) error {
	err := s.carts.Save(ctx, cart)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrConflict) {
		return apperr.Wrap(apperr.PersistenceFailure, "failed to save cart", err)
	}

	reloaded, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return apperr.Wrap(apperr.CartNotFound, "cart not found on retry", err)
	}
	if err := s.carts.Save(ctx, &reloaded); err != nil {
		return apperr.Wrap(apperr.ServiceFailure, "failed to add item to cart", err)
	}
	*cart = reloaded
	return nil
}

// GetCart returns the user's cart. Unlike AddItem it never creates
// one; a missing cart is an error.
func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Cart{}, apperr.New(apperr.InvalidArgument, "user id cannot be empty")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return domain.Cart{}, apperr.Wrap(apperr.CartNotFound, "cart not found for user: "+userID, err)
	}
	if err != nil {
		return domain.Cart{}, apperr.Wrap(apperr.PersistenceFailure, "load cart", err)
	}

	return cart, nil
}

// RemoveItem drops every line matching productID from the user's cart
// and persists the result, even when nothing matched. There is no
// conflict retry here.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.New(apperr.InvalidArgument, "user id cannot be empty")
	}
	if strings.TrimSpace(productID) == "" {
		return apperr.New(apperr.InvalidArgument, "product id cannot be empty")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	cart.RemoveItem(productID)

	if err := s.carts.Save(ctx, &cart); err != nil {
		return apperr.Wrap(apperr.PersistenceFailure, "failed to remove item from cart", err)
	}
	return nil
}

// reclassify preserves errors already carrying a business kind and
// folds anything unexpected into a generic service failure.
func reclassify(err error) error {
	switch apperr.KindOf(err) {
	case apperr.ProductNotFound, apperr.ProductNotAvailable, apperr.OutOfStock,
		apperr.InvalidArgument, apperr.InvalidQuantity, apperr.CartFull,
		apperr.ArithmeticOverflow, apperr.PersistenceFailure, apperr.ServiceFailure:
		return err
	default:
		return apperr.Wrap(apperr.ServiceFailure, "failed to add item to cart", err)
	}
}
