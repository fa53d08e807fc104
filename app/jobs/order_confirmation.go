// Package jobs holds the queued background jobs.
package jobs

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/honeyshop/app/notifications"
	"github.com/shashiranjanraj/honeyshop/pkg/notification"
	"github.com/shashiranjanraj/honeyshop/pkg/queue"
)

const OrderConfirmationName = "order.confirmation"

// Sender delivers a notification to an address.
type Sender interface {
	Send(ctx context.Context, address string, n notification.Notification) []error
}

// OrderConfirmationJob mails the order summary to the buyer.
type OrderConfirmationJob struct {
	Email        string                          `json:"email"`
	Notification notifications.OrderConfirmation `json:"notification"`

	sender Sender
}

func (j *OrderConfirmationJob) JobName() string { return OrderConfirmationName }

func (j *OrderConfirmationJob) Handle(ctx context.Context) error {
	if j.sender == nil {
		return errors.New("order confirmation: no sender configured")
	}
	return errors.Join(j.sender.Send(ctx, j.Email, j.Notification)...)
}

// Register makes the job runnable by m's workers.
func Register(m *queue.Manager, sender Sender) {
	m.Register(OrderConfirmationName, func() queue.Job {
		return &OrderConfirmationJob{sender: sender}
	})
}
