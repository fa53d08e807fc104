package controllers

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Orders interface {
	CreateOrder(ctx context.Context, userID uint, addressID *uint, description string) (models.Order, error)
	Get(ctx context.Context, id primitive.ObjectID, actor services.Actor) (models.Order, error)
	ListForUser(ctx context.Context, userID uint, page, limit int) (services.Page[models.Order], error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, ref string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error)
}

type CreateOrderRequest struct {
	AddressID   *uint  `json:"address_id"  validate:"nullable,gte=1"`
	Description string `json:"description" validate:"max=1000"`
}

type PaymentStatusRequest struct {
	PaymentStatus  string `json:"payment_status"  validate:"required,in=pending,paid,failed"`
	TransactionRef string `json:"transaction_ref" validate:"max=255"`
}

type OrderStatusRequest struct {
	OrderStatus string `json:"order_status" validate:"required,in=processing,shipped,delivered,cancelled"`
}

type OrderController struct {
	orders Orders
}

func NewOrderController(orders Orders) *OrderController {
	return &OrderController{orders: orders}
}

// Store handles POST /api/orders: it checks out the caller's cart.
func (h *OrderController) Store(c *ctx.Context) {
	var in CreateOrderRequest
	if !c.BindJSON(&in) {
		return
	}

	order, err := h.orders.CreateOrder(c.Context(), c.UserID(), in.AddressID, in.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(map[string]string{
		"order_id":     order.ID.Hex(),
		"order_number": order.OrderNumber,
	})
}

func (h *OrderController) Index(c *ctx.Context) {
	page, err := h.orders.ListForUser(c.Context(), c.UserID(), c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(page)
}

// Show handles GET /api/orders/{id}; only the owner or an admin may read
// an order.
func (h *OrderController) Show(c *ctx.Context) {
	id, ok := objectIDParam(c, "id", services.ErrOrderNotFound)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Context(), id, services.Actor{UserID: c.UserID(), Role: c.Role()})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(order)
}

func (h *OrderController) UpdatePayment(c *ctx.Context) {
	id, ok := objectIDParam(c, "id", services.ErrOrderNotFound)
	if !ok {
		return
	}
	var in PaymentStatusRequest
	if !c.BindJSON(&in) {
		return
	}

	order, err := h.orders.UpdatePaymentStatus(c.Context(), id, models.PaymentStatus(in.PaymentStatus), in.TransactionRef)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Payment status updated", order)
}

func (h *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := objectIDParam(c, "id", services.ErrOrderNotFound)
	if !ok {
		return
	}
	var in OrderStatusRequest
	if !c.BindJSON(&in) {
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Context(), id, models.OrderStatus(in.OrderStatus))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Order status updated", order)
}
