package services

import (
	"testing"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderProcessing, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderShipped, true},
		{models.OrderProcessing, models.OrderDelivered, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderProcessing, false},
		{models.OrderShipped, models.OrderProcessing, false},
	}
	for _, c := range cases {
		err := CheckOrderTransition(c.from, c.to)
		if c.ok {
			assert.NoError(t, err, "%s -> %s", c.from, c.to)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", c.from, c.to)
		}
	}
}

func TestPaymentTransitions(t *testing.T) {
	assert.NoError(t, CheckPaymentTransition(models.PaymentPending, models.PaymentPaid))
	assert.NoError(t, CheckPaymentTransition(models.PaymentPending, models.PaymentFailed))
	assert.NoError(t, CheckPaymentTransition(models.PaymentFailed, models.PaymentPending))
	assert.NoError(t, CheckPaymentTransition(models.PaymentFailed, models.PaymentPaid))
	assert.NoError(t, CheckPaymentTransition(models.PaymentPaid, models.PaymentPaid))
	assert.ErrorIs(t, CheckPaymentTransition(models.PaymentPaid, models.PaymentPending), ErrInvalidTransition)
	assert.ErrorIs(t, CheckPaymentTransition(models.PaymentPending, "bogus"), ErrInvalidStatus)
}
