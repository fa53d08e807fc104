package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func product(title, price string) models.Product {
	return models.Product{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Slug:      title,
		Price:     decimal.RequireFromString(price),
		Status:    models.ProductActive,
		Variants:  []models.Variant{{ID: "jar-500", Name: "500g jar"}},
		CreatedAt: time.Now(),
	}
}

func newCartService(ps ...models.Product) (*CartService, *fakeCarts, *fakeProducts) {
	carts, products := newFakeCarts(), newFakeProducts(ps...)
	return NewCartService(carts, products, Pricer{}), carts, products
}

func TestAddItem_MergesQuantity(t *testing.T) {
	clover := product("clover", "10.00")
	svc, carts, _ := newCartService(clover)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 7, clover.ID, "", 2)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, 7, clover.ID, "", 3)
	require.NoError(t, err)

	require.Len(t, carts.byUser[7].Items, 1)
	assert.Equal(t, 5, carts.byUser[7].Items[0].Quantity)
	assert.Equal(t, 5, view.ItemCount)
	assert.Equal(t, "50", view.Subtotal.String())
}

func TestAddItem_VariantsAreSeparateLines(t *testing.T) {
	clover := product("clover", "10.00")
	svc, carts, _ := newCartService(clover)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, clover.ID, "", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, clover.ID, "jar-500", 1)
	require.NoError(t, err)
	assert.Len(t, carts.byUser[1].Items, 2)

	_, err = svc.AddItem(ctx, 1, clover.ID, "jar-9000", 1)
	assert.ErrorIs(t, err, ErrInvalidVariant)
}

func TestAddItem_Rejects(t *testing.T) {
	off := product("off", "4.00")
	off.Status = models.ProductInactive
	svc, _, _ := newCartService(off)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, off.ID, "", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, 1, off.ID, "", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddItem(ctx, 1, primitive.NewObjectID(), "", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddItem_CapsLineQuantity(t *testing.T) {
	clover := product("clover", "10.00")
	svc, carts, _ := newCartService(clover)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, clover.ID, "", math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, 1, clover.ID, "", MaxLineQuantity-1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, clover.ID, "", 2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, MaxLineQuantity-1, carts.byUser[1].Items[0].Quantity, "rejected merge leaves the line untouched")

	view, err := svc.AddItem(ctx, 1, clover.ID, "", 1)
	require.NoError(t, err)
	assert.Equal(t, MaxLineQuantity, view.ItemCount)
	assert.True(t, view.Subtotal.IsPositive())
}

func TestRemoveItem(t *testing.T) {
	clover := product("clover", "10.00")
	svc, carts, _ := newCartService(clover)
	ctx := context.Background()

	removed, err := svc.RemoveItem(ctx, 1, clover.ID, "")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = svc.AddItem(ctx, 1, clover.ID, "", 1)
	require.NoError(t, err)
	removed, err = svc.RemoveItem(ctx, 1, clover.ID, "")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, carts.byUser[1].Items)
}

func TestView_SkipsMissingProductsAndAddsFlatFees(t *testing.T) {
	clover := product("clover", "10.00")
	svc, _, products := newCartService(clover)
	svc.pricer = Pricer{Shipping: decimal.RequireFromString("4.50"), Tax: decimal.RequireFromString("1.25")}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, clover.ID, "", 2)
	require.NoError(t, err)
	gone := product("gone", "99.00")
	products.byID[gone.ID] = gone
	_, err = svc.AddItem(ctx, 1, gone.ID, "", 1)
	require.NoError(t, err)
	delete(products.byID, gone.ID)

	view, err := svc.View(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "20.00", view.Subtotal.StringFixed(2))
	assert.Equal(t, "25.75", view.Total.StringFixed(2))
	assert.False(t, view.PricedAt.IsZero())
	assert.True(t, view.Items[0].Available)
}

func TestView_FlagsDeactivatedProducts(t *testing.T) {
	clover := product("clover", "10.00")
	svc, _, products := newCartService(clover)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, clover.ID, "", 1)
	require.NoError(t, err)
	clover.Status = models.ProductInactive
	products.byID[clover.ID] = clover

	view, err := svc.View(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.False(t, view.Items[0].Available)
}

func TestClearAndGetOrCreate(t *testing.T) {
	clover := product("clover", "10.00")
	svc, carts, _ := newCartService(clover)
	ctx := context.Background()

	cart, err := svc.GetOrCreate(ctx, 3)
	require.NoError(t, err)
	again, err := svc.GetOrCreate(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	_, err = svc.AddItem(ctx, 3, clover.ID, "", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, 3))
	assert.Empty(t, carts.byUser[3].Items)
}

func TestPurgeAbandoned(t *testing.T) {
	svc, carts, _ := newCartService()
	old := time.Now().Add(-AbandonedCartAge - time.Hour)
	carts.byUser[1] = models.Cart{UserID: 1, UpdatedAt: old}
	carts.byUser[2] = models.Cart{UserID: 2, UpdatedAt: time.Now()}
	carts.byUser[3] = models.Cart{UserID: 3, UpdatedAt: old, Items: []models.CartItem{{Quantity: 1}}}

	n, err := svc.PurgeAbandoned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotContains(t, carts.byUser, uint(1))
}
