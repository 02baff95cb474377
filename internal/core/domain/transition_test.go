package domain_test

import (
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zorel/fulfillment/internal/core/domain"
)

func TestOrderConfirmReject(t *testing.T) {
	now := time.Now()

	order := domain.Order{Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending}
	assert.NoError(t, order.Confirm(now))
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.NotNil(t, order.ConfirmedAt)

	// Rejection is only legal while pending.
	err := order.Reject("out of fabric", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	pending := domain.Order{Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending}
	assert.NoError(t, pending.Reject("out of fabric", now))
	assert.Equal(t, domain.OrderStatusCancelled, pending.Status)
	assert.Equal(t, "Rejected: out of fabric", pending.AdminNotes)
}

func TestOrderShipRequiresPayment(t *testing.T) {
	now := time.Now()

	order := domain.Order{Status: domain.OrderStatusConfirmed, PaymentStatus: domain.PaymentStatusPending}
	err := order.Ship("TRK123", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	order.PaymentStatus = domain.PaymentStatusCompleted
	assert.NoError(t, order.Ship("TRK123", now))
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
	assert.Equal(t, "TRK123", order.TrackingNumber)

	assert.NoError(t, order.Deliver(now))
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
}

func TestOrderCancel(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		status  domain.OrderStatus
		wantErr bool
	}{
		{"cancel pending", domain.OrderStatusPending, false},
		{"cancel confirmed", domain.OrderStatusConfirmed, false},
		{"cancel processing", domain.OrderStatusProcessing, false},
		{"cancel shipped", domain.OrderStatusShipped, true},
		{"cancel delivered", domain.OrderStatusDelivered, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			order := domain.Order{Status: test.status, PaymentStatus: domain.PaymentStatusPending}
			err := order.Cancel(now)
			if test.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.OrderStatusCancelled, order.Status)
			}
		})
	}
}

func TestMarkPaymentCompleted(t *testing.T) {
	now := time.Now()

	order := domain.Order{Status: domain.OrderStatusConfirmed, PaymentStatus: domain.PaymentStatusPending}

	changed, err := order.MarkPaymentCompleted("ch_1", now)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.Equal(t, "ch_1", order.PaymentReference)

	// Webhook redelivery is a no-op, not an error.
	changed, err = order.MarkPaymentCompleted("ch_1", now)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "ch_1", order.PaymentReference)
}

func TestMarkPaymentFailed(t *testing.T) {
	order := domain.Order{Status: domain.OrderStatusConfirmed, PaymentStatus: domain.PaymentStatusPending}

	changed, err := order.MarkPaymentFailed()
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.PaymentStatusFailed, order.PaymentStatus)

	changed, err = order.MarkPaymentFailed()
	assert.NoError(t, err)
	assert.False(t, changed)

	// A settled order never flips to failed on a late event.
	settled := domain.Order{Status: domain.OrderStatusProcessing, PaymentStatus: domain.PaymentStatusCompleted}
	changed, err = settled.MarkPaymentFailed()
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, domain.PaymentStatusCompleted, settled.PaymentStatus)
}

func TestRefund(t *testing.T) {
	order := domain.Order{
		Status:        domain.OrderStatusProcessing,
		PaymentStatus: domain.PaymentStatusPending,
		TotalAmount:   decimal.MustParse("100"),
	}

	err := order.ValidateRefundAmount(decimal.MustParse("50"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	order.PaymentStatus = domain.PaymentStatusCompleted
	assert.NoError(t, order.ValidateRefundAmount(decimal.MustParse("50")))
	assert.NoError(t, order.ValidateRefundAmount(decimal.MustParse("100")))
	assert.ErrorIs(t, order.ValidateRefundAmount(decimal.MustParse("100.01")), domain.ErrValidation)

	assert.NoError(t, order.MarkRefunded())
	assert.Equal(t, domain.PaymentStatusRefunded, order.PaymentStatus)

	err = order.MarkRefunded()
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	order := domain.Order{Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending}
	assert.True(t, order.CanTransition(domain.TransitionConfirm))
	assert.True(t, order.CanTransition(domain.TransitionCancel))
	assert.False(t, order.CanTransition(domain.TransitionShip))
	assert.False(t, order.CanTransition(domain.TransitionDeliver))
}
