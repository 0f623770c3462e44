package shop

import (
	"context"
	"errors"

	"github.com/example/storefront/pkg/models"
)

// Cart returns the customer's cart, creating an empty one on first use.
func (s *Service) Cart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.CartWithItems(ctx, userID)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return s.store.EnsureCart(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddToCart puts quantity units of a product into the customer's cart,
// merging with an existing line for the same product. The merged quantity is
// checked against live stock; the check can go stale before checkout, which
// re-validates inside its transaction.
func (s *Service) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return errValidation("quantity must be positive")
	}

	product, err := s.store.ProductByID(ctx, productID)
	if err != nil {
		return err
	}

	cart, err := s.store.EnsureCart(ctx, userID)
	if err != nil {
		return err
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			item = &cart.Items[i]
			item.Quantity += quantity
			break
		}
	}

	if item.Quantity > product.Stock {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   item.Quantity,
			Available:   product.Stock,
		}
	}

	if err := s.store.SaveCartItem(ctx, item); err != nil {
		return err
	}
	s.invalidateCartCount(ctx, userID)
	return nil
}

// UpdateCartItem replaces the quantity of one cart line.
func (s *Service) UpdateCartItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		return errValidation("quantity must be positive")
	}

	item, err := s.ownedCartItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if quantity > item.Product.Stock {
		return &InsufficientStockError{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Requested:   quantity,
			Available:   item.Product.Stock,
		}
	}

	item.Quantity = quantity
	if err := s.store.SaveCartItem(ctx, item); err != nil {
		return err
	}
	s.invalidateCartCount(ctx, userID)
	return nil
}

func (s *Service) RemoveCartItem(ctx context.Context, userID, itemID string) error {
	item, err := s.ownedCartItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCartItem(ctx, item.ID); err != nil {
		return err
	}
	s.invalidateCartCount(ctx, userID)
	return nil
}

// CartCount reports the number of units across all cart lines, cache-first.
func (s *Service) CartCount(ctx context.Context, userID string) (int, error) {
	if s.cache != nil {
		if count, err := s.cache.CartCount(ctx, userID); err == nil {
			return count, nil
		}
	}

	cart, err := s.store.CartWithItems(ctx, userID)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	if s.cache != nil {
		if err := s.cache.SetCartCount(ctx, userID, count); err != nil {
			s.logger.Warn("failed to cache cart count")
		}
	}
	return count, nil
}

func (s *Service) ownedCartItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	item, err := s.store.CartItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.CartWithItems(ctx, userID)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil, ErrNotCartOwner
	}
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, ErrNotCartOwner
	}
	return item, nil
}

func (s *Service) invalidateCartCount(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCartCount(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate cart count cache")
	}
}
