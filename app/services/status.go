package services

import "github.com/shashiranjanraj/honeyshop/app/models"

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered, models.OrderCancelled},
	models.OrderDelivered:  nil,
	models.OrderCancelled:  nil,
}

var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending: {models.PaymentPaid, models.PaymentFailed},
	models.PaymentFailed:  {models.PaymentPending, models.PaymentPaid},
	models.PaymentPaid:    nil,
}

// CheckOrderTransition reports whether the order status may move from
// from to to. Same-status writes are allowed.
func CheckOrderTransition(from, to models.OrderStatus) error {
	if _, ok := orderTransitions[to]; !ok {
		return ErrInvalidStatus
	}
	if from == to {
		return nil
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{Field: "order_status", From: string(from), To: string(to)}
}

// CheckPaymentTransition is CheckOrderTransition for payment status.
func CheckPaymentTransition(from, to models.PaymentStatus) error {
	if _, ok := paymentTransitions[to]; !ok {
		return ErrInvalidStatus
	}
	if from == to {
		return nil
	}
	for _, next := range paymentTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{Field: "payment_status", From: string(from), To: string(to)}
}
