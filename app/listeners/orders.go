// Package listeners reacts to domain events after the request that raised
// them has committed. Failures are logged and never reach the caller.
package listeners

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shashiranjanraj/honeyshop/app/jobs"
	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/notifications"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/event"
	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
}

type OrderFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

// Pusher delivers a message to a user's open websocket connections.
type Pusher interface {
	SendTo(userID uint, data []byte)
}

// Orders holds the order event listeners.
type Orders struct {
	Users  UserFinder
	Orders OrderFinder
	Jobs   Dispatcher
	Push   Pusher
}

// Register subscribes the listeners to bus.
func (l *Orders) Register(bus *event.Bus) {
	bus.Listen(services.EventOrderCreated, l.OrderCreated)
	bus.Listen(services.EventOrderStatusChanged, l.StatusChanged)
}

// OrderCreated queues the confirmation mail.
func (l *Orders) OrderCreated(ctx context.Context, payload interface{}) {
	ev, ok := payload.(services.OrderEvent)
	if !ok {
		return
	}
	log := logger.WithCtx(ctx).With("order_number", ev.OrderNumber)

	user, err := l.Users.FindByID(ctx, ev.UserID)
	if err != nil {
		log.Warn("order confirmation: load user", "user_id", ev.UserID, "error", err)
		return
	}
	id, err := primitive.ObjectIDFromHex(ev.OrderID)
	if err != nil {
		log.Warn("order confirmation: bad order id", "order_id", ev.OrderID)
		return
	}
	order, err := l.Orders.FindByID(ctx, id)
	if err != nil {
		log.Warn("order confirmation: load order", "error", err)
		return
	}

	job := &jobs.OrderConfirmationJob{
		Email:        user.Email,
		Notification: confirmation(user, order),
	}
	if err := l.Jobs.Dispatch(ctx, job); err != nil {
		log.Error("order confirmation: dispatch", "error", err)
	}
}

func confirmation(u models.User, o models.Order) notifications.OrderConfirmation {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	lines := make([]notifications.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, notifications.OrderLine{
			Title:    it.ProductTitle,
			Quantity: it.Quantity,
			Subtotal: it.Subtotal.StringFixed(2),
		})
	}
	return notifications.OrderConfirmation{
		OrderNumber:  o.OrderNumber,
		CustomerName: name,
		Lines:        lines,
		Subtotal:     o.Subtotal.StringFixed(2),
		Shipping:     o.Shipping.StringFixed(2),
		Tax:          o.Tax.StringFixed(2),
		Total:        o.TotalAmount.StringFixed(2),
	}
}

// StatusMessage is what order stream clients receive.
type StatusMessage struct {
	Type  string              `json:"type"`
	Order services.OrderEvent `json:"order"`
}

// StatusChanged pushes the new statuses to the owner's websocket
// connections.
func (l *Orders) StatusChanged(ctx context.Context, payload interface{}) {
	ev, ok := payload.(services.OrderEvent)
	if !ok || l.Push == nil {
		return
	}
	data, err := json.Marshal(StatusMessage{Type: services.EventOrderStatusChanged, Order: ev})
	if err != nil {
		logger.WithCtx(ctx).Error("order stream: marshal", "error", err)
		return
	}
	l.Push.SendTo(ev.UserID, data)
}
