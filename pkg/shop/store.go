package shop

import (
	"context"

	"github.com/example/storefront/pkg/models"
)

// Store is the persistence boundary of the shop. Lookups return *NotFoundError
// when the entity does not exist and *StorageError for driver-level failures.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Catalog
	Products(ctx context.Context) ([]models.Product, error)
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// Carts
	EnsureCart(ctx context.Context, userID string) (*models.Cart, error)
	CartWithItems(ctx context.Context, userID string) (*models.Cart, error)
	CartItemByID(ctx context.Context, itemID string) (*models.CartItem, error)
	SaveCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, itemID string) error

	// Orders. PlaceOrder must create the order and its items, conditionally
	// decrement stock per item, and clear the cart as one atomic unit; it
	// returns *InsufficientStockError when any decrement would drive a
	// product's stock negative, leaving no side effects behind.
	PlaceOrder(ctx context.Context, order *models.Order, cartID string) error
	OrderByID(ctx context.Context, id string) (*models.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	Orders(ctx context.Context) ([]models.Order, error)
	SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// Cache holds derived values that may be dropped at any time.
type Cache interface {
	CartCount(ctx context.Context, userID string) (int, error)
	SetCartCount(ctx context.Context, userID string, count int) error
	InvalidateCartCount(ctx context.Context, userID string) error
}

// Auditor records who did what to which entity. Best effort; the shop never
// fails an operation because an audit write failed.
type Auditor interface {
	Record(ctx context.Context, action, entityID string, data map[string]interface{}) error
}
