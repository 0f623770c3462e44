package shop

import (
	"context"
	"errors"

	"github.com/example/storefront/pkg/models"
	"go.uber.org/zap"
)

// CheckoutRequest is the customer's submission. Total is advisory: the order
// total is always recomputed from snapshot prices, and a mismatch is logged
// rather than rejected.
type CheckoutRequest struct {
	Address string
	Payment string
	Total   int64
}

// Checkout converts the customer's cart into a durable order, or changes
// nothing at all.
//
// Preconditions are checked before any mutation: the cart must be non-empty
// and every line's quantity must be covered by current stock. The effect —
// order header, one item per cart line priced at the product's current price,
// stock decrements, cart cleared — is applied by the store as one atomic
// transaction. Stock decrements inside that transaction are conditional, so a
// concurrent checkout draining the same product makes this one fail with
// InsufficientStockError instead of overselling; no partial state survives
// any failure, and retrying is always safe.
func (s *Service) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	if req.Address == "" {
		return nil, errValidation("shipping address is required")
	}
	if req.Payment == "" {
		return nil, errValidation("payment method is required")
	}

	cart, err := s.store.CartWithItems(ctx, userID)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if line.Quantity > line.Product.Stock {
			return nil, &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: line.Product.Name,
				Requested:   line.Quantity,
				Available:   line.Product.Stock,
			}
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price, // snapshot, decoupled from the live price
		})
		total += line.Product.Price * int64(line.Quantity)
	}

	if req.Total != total {
		s.logger.Warn("submitted total differs from computed total",
			zap.String("user_id", userID),
			zap.Int64("submitted", req.Total),
			zap.Int64("computed", total))
	}

	order := &models.Order{
		UserID:  userID,
		Status:  models.StatusPending,
		Total:   total,
		Address: req.Address,
		Payment: req.Payment,
		Items:   items,
	}

	if err := s.store.PlaceOrder(ctx, order, cart.ID); err != nil {
		return nil, err
	}

	s.invalidateCartCount(ctx, userID)
	s.auditAsync("checkout", order.ID, map[string]interface{}{
		"user_id": userID,
		"total":   order.Total,
		"items":   len(order.Items),
	})
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)))

	return order, nil
}

// SetOrderStatus applies one admin status transition. Unknown values are
// rejected, as are moves the order lifecycle does not allow.
func (s *Service) SetOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, &InvalidStatusError{Status: status}
	}

	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: order.Status, To: next}
	}

	if err := s.store.SetOrderStatus(ctx, orderID, next); err != nil {
		return nil, err
	}

	s.auditAsync("order_status_update", orderID, map[string]interface{}{
		"from": string(order.Status),
		"to":   string(next),
	})
	s.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)))

	order.Status = next
	return order, nil
}

// Orders lists every order; admin use.
func (s *Service) Orders(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders(ctx)
}

// OrdersForUser lists the customer's own orders.
func (s *Service) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.OrdersByUser(ctx, userID)
}

// OrderForUser fetches one order, hiding other customers' orders behind a
// not-found answer.
func (s *Service) OrderForUser(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}
	return order, nil
}
