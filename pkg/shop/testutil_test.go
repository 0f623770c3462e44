package shop

import (
	"context"
	"sync"

	"github.com/example/storefront/pkg/models"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store with the same atomicity contract as the
// MySQL implementation: PlaceOrder applies everything or nothing, and its
// check-and-decrement is serialized across callers.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	products map[string]*models.Product
	carts    map[string]*models.Cart // keyed by user id
	items    map[string]*models.CartItem
	orders   map[string]*models.Order

	placeOrderErr error // injected fault for the whole transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*models.User),
		products: make(map[string]*models.Product),
		carts:    make(map[string]*models.Cart),
		items:    make(map[string]*models.CartItem),
		orders:   make(map[string]*models.Order),
	}
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, &NotFoundError{Resource: "user", ID: id}
	}
	cp := *user
	return &cp, nil
}

func (f *fakeStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, &NotFoundError{Resource: "user", ID: email}
}

func (f *fakeStore) UpdateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) Products(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}
	cp := *product
	return &cp, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[product.ID]; !ok {
		return &NotFoundError{Resource: "product", ID: product.ID}
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeStore) EnsureCart(ctx context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		cart = &models.Cart{ID: uuid.NewString(), UserID: userID}
		f.carts[userID] = cart
	}
	return f.cartCopy(cart), nil
}

func (f *fakeStore) CartWithItems(ctx context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return nil, &NotFoundError{Resource: "cart", ID: userID}
	}
	return f.cartCopy(cart), nil
}

// cartCopy assembles a snapshot with items and their current products; the
// caller must hold mu.
func (f *fakeStore) cartCopy(cart *models.Cart) *models.Cart {
	cp := *cart
	cp.Items = nil
	for _, item := range f.items {
		if item.CartID != cart.ID {
			continue
		}
		ic := *item
		if product, ok := f.products[item.ProductID]; ok {
			ic.Product = *product
		}
		cp.Items = append(cp.Items, ic)
	}
	return &cp
}

func (f *fakeStore) CartItemByID(ctx context.Context, itemID string) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return nil, &NotFoundError{Resource: "cart item", ID: itemID}
	}
	cp := *item
	if product, ok := f.products[item.ProductID]; ok {
		cp.Product = *product
	}
	return &cp, nil
}

func (f *fakeStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	cp := *item
	cp.Product = models.Product{}
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteCartItem(ctx context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemID)
	return nil
}

func (f *fakeStore) PlaceOrder(ctx context.Context, order *models.Order, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.placeOrderErr != nil {
		return &StorageError{Op: "place order", Err: f.placeOrderErr}
	}

	// Check every line before mutating anything.
	for _, item := range order.Items {
		product, ok := f.products[item.ProductID]
		if !ok {
			return &NotFoundError{Resource: "product", ID: item.ProductID}
		}
		if product.Stock < item.Quantity {
			return &InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}
		}
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	for _, item := range order.Items {
		f.products[item.ProductID].Stock -= item.Quantity
	}
	cp := *order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders[order.ID] = &cp

	for id, item := range f.items {
		if item.CartID == cartID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeStore) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, &NotFoundError{Resource: "order", ID: id}
	}
	cp := *order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (f *fakeStore) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeStore) Orders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeStore) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return &NotFoundError{Resource: "order", ID: id}
	}
	order.Status = status
	return nil
}

// test fixtures

func (f *fakeStore) seedProduct(id, name string, price int64, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock}
}

func (f *fakeStore) seedCartLine(userID, productID string, quantity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		cart = &models.Cart{ID: uuid.NewString(), UserID: userID}
		f.carts[userID] = cart
	}
	id := uuid.NewString()
	f.items[id] = &models.CartItem{ID: id, CartID: cart.ID, ProductID: productID, Quantity: quantity}
}

func (f *fakeStore) productStock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeStore) cartSize(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return 0
	}
	n := 0
	for _, item := range f.items {
		if item.CartID == cart.ID {
			n++
		}
	}
	return n
}

func (f *fakeStore) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}
