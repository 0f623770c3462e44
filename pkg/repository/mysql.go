package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/shop"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MySQLStore implements shop.Store on GORM over MySQL.
type MySQLStore struct {
	db *gorm.DB
}

func NewMySQLStore(cfg *config.MySQLConfig) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

func storageErr(op string, err error) error {
	return &shop.StorageError{Op: op, Err: err}
}

func (s *MySQLStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return storageErr("create user", err)
	}
	return nil
}

func (s *MySQLStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &shop.NotFoundError{Resource: "user", ID: id}
		}
		return nil, storageErr("get user", err)
	}
	return &user, nil
}

func (s *MySQLStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &shop.NotFoundError{Resource: "user", ID: email}
		}
		return nil, storageErr("get user by email", err)
	}
	return &user, nil
}

func (s *MySQLStore) UpdateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return storageErr("update user", err)
	}
	return nil
}

func (s *MySQLStore) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, storageErr("list products", err)
	}
	return products, nil
}

func (s *MySQLStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &shop.NotFoundError{Resource: "product", ID: id}
		}
		return nil, storageErr("get product", err)
	}
	return &product, nil
}

func (s *MySQLStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return storageErr("create product", err)
	}
	return nil
}

func (s *MySQLStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return storageErr("update product", err)
	}
	return nil
}

func (s *MySQLStore) DeleteProduct(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return storageErr("delete product", err)
	}
	return nil
}

func (s *MySQLStore) EnsureCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, storageErr("ensure cart", err)
	}
	return &cart, nil
}

func (s *MySQLStore) CartWithItems(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &shop.NotFoundError{Resource: "cart", ID: userID}
		}
		return nil, storageErr("get cart", err)
	}
	return &cart, nil
}

func (s *MySQLStore) CartItemByID(ctx context.Context, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).Preload("Product").Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &shop.NotFoundError{Resource: "cart item", ID: itemID}
		}
		return nil, storageErr("get cart item", err)
	}
	return &item, nil
}

func (s *MySQLStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	if err := s.db.WithContext(ctx).Omit("Product").Save(item).Error; err != nil {
		return storageErr("save cart item", err)
	}
	return nil
}

func (s *MySQLStore) DeleteCartItem(ctx context.Context, itemID string) error {
	if err := s.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID).Error; err != nil {
		return storageErr("delete cart item", err)
	}
	return nil
}

// PlaceOrder runs the whole checkout effect in one transaction: order header,
// order items, per-item stock decrement, cart cleared. The decrement is a
// conditional single-statement update, so two concurrent checkouts racing for
// the last unit cannot both pass; the loser gets zero rows affected and the
// transaction rolls back with no side effects.
func (s *MySQLStore) PlaceOrder(ctx context.Context, order *models.Order, cartID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items.Product").Create(order).Error; err != nil {
			return storageErr("create order", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return storageErr("decrement stock", res.Error)
			}
			if res.RowsAffected == 0 {
				// stock moved under us since the precondition check
				var product models.Product
				_ = tx.Select("name", "stock").Where("id = ?", item.ProductID).First(&product).Error
				return &shop.InsufficientStockError{
					ProductID:   item.ProductID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return storageErr("clear cart", err)
		}
		return nil
	})
}

func (s *MySQLStore) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &shop.NotFoundError{Resource: "order", ID: id}
		}
		return nil, storageErr("get order", err)
	}
	return &order, nil
}

func (s *MySQLStore) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	return orders, nil
}

func (s *MySQLStore) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	return orders, nil
}

func (s *MySQLStore) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return storageErr("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return &shop.NotFoundError{Resource: "order", ID: id}
	}
	return nil
}
