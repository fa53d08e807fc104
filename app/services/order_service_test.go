package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderFixture struct {
	svc       *OrderService
	carts     *fakeCarts
	products  *fakeProducts
	orders    *fakeOrders
	addresses *fakeAddresses
	events    *recordingPublisher
}

func newOrderFixture(ps ...models.Product) orderFixture {
	f := orderFixture{
		carts:     newFakeCarts(),
		products:  newFakeProducts(ps...),
		orders:    newFakeOrders(),
		addresses: &fakeAddresses{byID: map[uint]models.Address{}},
		events:    &recordingPublisher{},
	}
	f.svc = NewOrderService(f.orders, f.carts, f.products, f.addresses, Pricer{}, f.events)
	return f
}

func (f orderFixture) fill(userID uint, items ...models.CartItem) {
	f.carts.byUser[userID] = models.Cart{UserID: userID, Items: items}
}

func TestCreateOrder_CapturesPrices(t *testing.T) {
	a, b := product("a", "10"), product("b", "5")
	f := newOrderFixture(a, b)
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 2}, models.CartItem{ProductID: b.ID, Quantity: 1})
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, 1, nil, "gift")
	require.NoError(t, err)
	assert.Equal(t, "25.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.OrderProcessing, order.OrderStatus)
	assert.Empty(t, f.carts.byUser[1].Items, "cart cleared")
	assert.Equal(t, []string{EventOrderCreated}, f.events.names())

	a.Price = decimal.NewFromInt(99)
	f.products.byID[a.ID] = a
	stored, err := f.svc.Get(ctx, order.ID, Actor{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "25.00", stored.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", stored.Items[0].UnitPrice.StringFixed(2))
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture()
	_, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	f.fill(1)
	_, err = f.svc.CreateOrder(context.Background(), 1, nil, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.byID)
}

func TestCreateOrder_MissingProduct(t *testing.T) {
	f := newOrderFixture()
	f.fill(1, models.CartItem{ProductID: primitive.NewObjectID(), Quantity: 1})
	_, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, f.orders.byID)
}

func TestCreateOrder_AddressSnapshot(t *testing.T) {
	a := product("a", "3")
	f := newOrderFixture(a)
	f.addresses.byID[4] = models.Address{UserID: 1, Name: "Home", City: "Asheville", Country: "United States"}
	f.addresses.byID[5] = models.Address{UserID: 2, Name: "Other"}
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})

	other := uint(5)
	_, err := f.svc.CreateOrder(context.Background(), 1, &other, "")
	assert.ErrorIs(t, err, ErrAddressNotFound)

	own := uint(4)
	order, err := f.svc.CreateOrder(context.Background(), 1, &own, "")
	require.NoError(t, err)
	require.NotNil(t, order.Address)
	assert.Equal(t, "Asheville", order.Address.City)
}

func TestCreateOrder_ClearFailureLeavesNoOrder(t *testing.T) {
	a := product("a", "3")
	f := newOrderFixture(a)
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})
	f.carts.saveErr = errors.New("mongo unavailable")

	_, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	require.Error(t, err)
	assert.Empty(t, f.orders.byID)
	assert.Equal(t, 1, f.orders.deleteCall)
	assert.Empty(t, f.events.names())
}

func TestCreateOrder_RegeneratesDuplicateNumbers(t *testing.T) {
	a := product("a", "3")
	f := newOrderFixture(a)
	f.orders.numbers["ORD-20260101-AAAAAAAA"] = true

	calls := 0
	f.svc.number = func(time.Time) string {
		calls++
		if calls == 1 {
			return "ORD-20260101-AAAAAAAA"
		}
		return "ORD-20260101-BBBBBBBB"
	}
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})
	order, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260101-BBBBBBBB", order.OrderNumber)

	f.svc.number = func(time.Time) string { return "ORD-20260101-AAAAAAAA" }
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})
	_, err = f.svc.CreateOrder(context.Background(), 1, nil, "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.carts.byUser[1].Items, 1, "cart kept on failure")
}

func TestNewOrderNumber_FormatAndUniqueness(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`)
	now := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		n := NewOrderNumber(now)
		require.Regexp(t, pattern, n)
		require.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
	assert.Contains(t, NewOrderNumber(now), "ORD-20260314-")
}

func TestGet_Access(t *testing.T) {
	a := product("a", "3")
	f := newOrderFixture(a)
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})
	order, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), order.ID, Actor{UserID: 2, Role: models.RoleMember})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Get(context.Background(), order.ID, Actor{UserID: 2, Role: models.RoleAdmin})
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), primitive.NewObjectID(), Actor{UserID: 1})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListForUser(t *testing.T) {
	a := product("a", "3")
	f := newOrderFixture(a)
	for i := 0; i < 3; i++ {
		f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})
		_, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
		require.NoError(t, err)
	}
	page, err := f.svc.ListForUser(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestListForUser_HugePageIsEmpty(t *testing.T) {
	a := product("a", "3")
	f := newOrderFixture(a)
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})
	_, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	require.NoError(t, err)

	page, err := f.svc.ListForUser(context.Background(), 1, math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, orm.MaxPage, page.Pagination.Page)
	assert.Equal(t, int64(1), page.Pagination.Total)
}

func TestStatusUpdates(t *testing.T) {
	a := product("a", "3")
	f := newOrderFixture(a)
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1})
	order, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = f.svc.UpdateOrderStatus(ctx, order.ID, models.OrderDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "processing", te.From)

	updated, err := f.svc.UpdateOrderStatus(ctx, order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.OrderStatus)

	paid, err := f.svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentPaid, "txn_42")
	require.NoError(t, err)
	assert.Equal(t, "txn_42", paid.TransactionRef)
	stamp := f.orders.byID[order.ID].UpdatedAt

	again, err := f.svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentPaid, "txn_43")
	require.NoError(t, err)
	assert.Equal(t, "txn_42", again.TransactionRef)
	assert.Equal(t, "txn_42", f.orders.byID[order.ID].TransactionRef)
	assert.Equal(t, stamp, f.orders.byID[order.ID].UpdatedAt)

	_, err = f.svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentFailed, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdatePaymentStatus(ctx, order.ID, "refunded", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Equal(t, []string{EventOrderCreated, EventOrderStatusChanged, EventOrderStatusChanged}, f.events.names())
}

func TestCreateOrder_RejectsDeactivatedProducts(t *testing.T) {
	a, b := product("a", "10"), product("b", "5")
	b.Status = models.ProductInactive
	f := newOrderFixture(a, b)
	f.fill(1, models.CartItem{ProductID: a.ID, Quantity: 1}, models.CartItem{ProductID: b.ID, Quantity: 1})

	_, err := f.svc.CreateOrder(context.Background(), 1, nil, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, f.orders.byID)
	assert.Len(t, f.carts.byUser[1].Items, 2, "cart kept")
}
