package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartCreatesAndMergesLines(t *testing.T) {
	store := newFakeStore()
	store.seedProduct("prod-a", "Keyboard", 10000, 5)

	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, "cust-1", "prod-a", 2))
	cart, err := svc.Cart(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// same product merges into the existing line
	require.NoError(t, svc.AddToCart(ctx, "cust-1", "prod-a", 3))
	cart, err = svc.Cart(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddToCartChecksStock(t *testing.T) {
	store := newFakeStore()
	store.seedProduct("prod-a", "Keyboard", 10000, 5)

	svc := newTestService(store)
	ctx := context.Background()

	var stockErr *InsufficientStockError
	err := svc.AddToCart(ctx, "cust-1", "prod-a", 6)
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)

	// the merged quantity is what gets checked
	require.NoError(t, svc.AddToCart(ctx, "cust-1", "prod-a", 4))
	err = svc.AddToCart(ctx, "cust-1", "prod-a", 2)
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
}

func TestAddToCartRejectsUnknownProductAndBadQuantity(t *testing.T) {
	store := newFakeStore()
	store.seedProduct("prod-a", "Keyboard", 10000, 5)

	svc := newTestService(store)
	ctx := context.Background()

	var notFound *NotFoundError
	assert.ErrorAs(t, svc.AddToCart(ctx, "cust-1", "missing", 1), &notFound)

	var validation *ValidationError
	assert.ErrorAs(t, svc.AddToCart(ctx, "cust-1", "prod-a", 0), &validation)
	assert.ErrorAs(t, svc.AddToCart(ctx, "cust-1", "prod-a", -2), &validation)
}

func TestUpdateCartItemOwnership(t *testing.T) {
	store := newFakeStore()
	store.seedProduct("prod-a", "Keyboard", 10000, 5)

	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, "cust-1", "prod-a", 1))
	cart, err := svc.Cart(ctx, "cust-1")
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	// another customer cannot edit or remove the line
	assert.ErrorIs(t, svc.UpdateCartItem(ctx, "cust-2", itemID, 2), ErrNotCartOwner)
	assert.ErrorIs(t, svc.RemoveCartItem(ctx, "cust-2", itemID), ErrNotCartOwner)

	require.NoError(t, svc.UpdateCartItem(ctx, "cust-1", itemID, 4))
	cart, err = svc.Cart(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	require.NoError(t, svc.RemoveCartItem(ctx, "cust-1", itemID))
	assert.Equal(t, 0, store.cartSize("cust-1"))
}

func TestUpdateCartItemChecksStock(t *testing.T) {
	store := newFakeStore()
	store.seedProduct("prod-a", "Keyboard", 10000, 3)

	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, "cust-1", "prod-a", 1))
	cart, err := svc.Cart(ctx, "cust-1")
	require.NoError(t, err)

	var stockErr *InsufficientStockError
	err = svc.UpdateCartItem(ctx, "cust-1", cart.Items[0].ID, 4)
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
}

func TestCartCount(t *testing.T) {
	store := newFakeStore()
	store.seedProduct("prod-a", "Keyboard", 10000, 5)
	store.seedProduct("prod-b", "Mouse", 5000, 5)

	svc := newTestService(store)
	ctx := context.Background()

	count, err := svc.CartCount(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, svc.AddToCart(ctx, "cust-1", "prod-a", 2))
	require.NoError(t, svc.AddToCart(ctx, "cust-1", "prod-b", 3))

	count, err = svc.CartCount(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
