package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/metrics"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const orderNumberAttempts = 3

// NewOrderNumber returns ORD-YYYYMMDD-XXXXXXXX where the suffix is the
// first eight hex digits of a random UUID, upper-cased.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + now.UTC().Format("20060102") + "-" + suffix
}

// OrderService turns carts into orders and drives their status.
type OrderService struct {
	orders    OrderStore
	carts     CartStore
	products  ProductStore
	addresses AddressStore
	pricer    Pricer
	events    Publisher

	now    func() time.Time
	number func(time.Time) string
}

func NewOrderService(orders OrderStore, carts CartStore, products ProductStore, addresses AddressStore, pricer Pricer, events Publisher) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		addresses: addresses,
		pricer:    pricer,
		events:    events,
		now:       time.Now,
		number:    NewOrderNumber,
	}
}

// CreateOrder converts the user's cart into an order and empties the cart.
// Prices are captured at this moment. A line whose product is gone or no
// longer active fails with ErrProductNotFound. If the cart cannot be cleared
// the order is deleted again.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, addressID *uint, description string) (models.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Order{}, ErrEmptyCart
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	products, err := s.products.FindMany(ctx, productIDs(cart.Items))
	if err != nil {
		return models.Order{}, fmt.Errorf("load products: %w", err)
	}
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok || !p.Active() {
			return models.Order{}, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID.Hex())
		}
		items = append(items, models.OrderItem{
			ProductID:    it.ProductID,
			ProductTitle: p.Title,
			VariantID:    it.VariantID,
			Quantity:     it.Quantity,
			UnitPrice:    p.Price.Round(2),
			Subtotal:     p.Price.Mul(decimalInt(it.Quantity)).Round(2),
		})
	}

	var snapshot *models.AddressSnapshot
	if addressID != nil {
		addr, err := s.addresses.Find(ctx, userID, *addressID)
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Order{}, ErrAddressNotFound
		}
		if err != nil {
			return models.Order{}, fmt.Errorf("load address: %w", err)
		}
		snapshot = models.SnapshotOf(addr)
	}

	now := s.now().UTC()
	subtotal, shipping, tax, total := s.pricer.Totals(items)
	order := models.Order{
		UserID:        userID,
		Items:         items,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Tax:           tax,
		TotalAmount:   total,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.OrderProcessing,
		Description:   description,
		Address:       snapshot,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.insertWithNumber(ctx, &order); err != nil {
		return models.Order{}, err
	}

	if err := s.carts.SaveItems(ctx, userID, nil); err != nil {
		if derr := s.orders.Delete(ctx, order.ID); derr != nil {
			logger.WithCtx(ctx).Error("order: compensating delete failed",
				"order_number", order.OrderNumber, "error", derr)
		}
		return models.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	metrics.OrdersCreated.Inc()
	logger.WithCtx(ctx).Info("order created", "order_number", order.OrderNumber, "user_id", userID)
	s.fire(ctx, EventOrderCreated, order)
	return order, nil
}

func (s *OrderService) insertWithNumber(ctx context.Context, order *models.Order) error {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = s.number(order.CreatedAt)
		err := s.orders.Insert(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("insert order: %w", err)
		}
	}
	return ErrConflict
}

// Get returns the order if actor owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID, actor Actor) (models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// ListForUser returns the user's orders newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uint, page, limit int) (Page[models.Order], error) {
	page, limit = orm.Normalize(page, limit, 10)
	orders, total, err := s.orders.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return Page[models.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return newPage(orders, page, limit, total), nil
}

// UpdatePaymentStatus moves the payment status and records ref when given.
// Repeating the current status changes nothing, ref included.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, ref string) (models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := CheckPaymentTransition(order.PaymentStatus, status); err != nil {
		return models.Order{}, err
	}
	if order.PaymentStatus == status {
		return order, nil
	}

	fields := map[string]interface{}{"payment_status": status, "updated_at": s.now().UTC()}
	if ref != "" {
		fields["transaction_ref"] = ref
		order.TransactionRef = ref
	}
	if err := s.orders.SetFields(ctx, id, fields); err != nil {
		return models.Order{}, s.notFound(err)
	}

	order.PaymentStatus = status
	metrics.OrderStatusTransitions.WithLabelValues("payment_status", string(status)).Inc()
	s.fire(ctx, EventOrderStatusChanged, order)
	return order, nil
}

// UpdateOrderStatus moves the fulfilment status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := CheckOrderTransition(order.OrderStatus, status); err != nil {
		return models.Order{}, err
	}
	if order.OrderStatus == status {
		return order, nil
	}

	if err := s.orders.SetFields(ctx, id, map[string]interface{}{
		"order_status": status,
		"updated_at":   s.now().UTC(),
	}); err != nil {
		return models.Order{}, s.notFound(err)
	}
	order.OrderStatus = status
	metrics.OrderStatusTransitions.WithLabelValues("order_status", string(status)).Inc()
	s.fire(ctx, EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) find(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, s.notFound(err)
	}
	return order, nil
}

func (s *OrderService) notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}

func (s *OrderService) fire(ctx context.Context, name string, o models.Order) {
	if s.events != nil {
		s.events.FireAsync(ctx, name, orderEvent(o))
	}
}
