package shop

import (
	"errors"
	"fmt"

	"github.com/example/storefront/pkg/models"
)

// ErrEmptyCart is returned when a checkout is attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// InsufficientStockError names the product whose available stock cannot cover
// the requested quantity. The caller can fix the cart and retry.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (%s): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidStatusError is returned for a status value outside the enum.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Status)
}

// InvalidTransitionError is returned when the requested status is a recognized
// value but the move is not allowed by the order lifecycle.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status cannot change from %s to %s", e.From, e.To)
}

// StorageError wraps a failure inside the persistence layer. The transaction
// it interrupted was rolled back in full, so retrying the operation is safe.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
