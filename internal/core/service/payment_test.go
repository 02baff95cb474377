package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
)

func TestService_CreatePaymentIntent(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("intent for confirmed order", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		intent := &port.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}

		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().CreateIntent(gomock.Any(), order).Return(intent, nil)
		updateTxPassThrough(mockCtrl, m, order)

		result, err := s.CreatePaymentIntent(context.Background(), customer, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, intent, result)
		assert.Equal(t, "pi_123", order.PaymentIntentID)
	})

	t.Run("order cancelled while gateway call was in flight", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		intent := &port.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}

		// The locked row the transaction sees is already cancelled.
		locked := testOrder(domain.OrderStatusCancelled, domain.PaymentStatusPending)

		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().CreateIntent(gomock.Any(), order).Return(intent, nil)
		updateTxPassThrough(mockCtrl, m, locked)

		result, err := s.CreatePaymentIntent(context.Background(), customer, order.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Nil(t, result)
		assert.Empty(t, locked.PaymentIntentID)
	})

	t.Run("pending order has no payable state", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusPending, domain.PaymentStatusPending)
		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		result, err := s.CreatePaymentIntent(context.Background(), customer, order.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Nil(t, result)
	})

	t.Run("gateway failure leaves order untouched", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().CreateIntent(gomock.Any(), order).Return(nil, assert.AnError)

		result, err := s.CreatePaymentIntent(context.Background(), customer, order.ID)
		assert.ErrorIs(t, err, domain.ErrExternalService)
		assert.Nil(t, result)
		assert.Empty(t, order.PaymentIntentID)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		other := domain.Actor{UserID: uuid.MustParse("7b8e1b4e-9a3e-4c5d-8f21-999999999999"), Role: domain.UserRoleCustomer}
		result, err := s.CreatePaymentIntent(context.Background(), other, order.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, result)
	})
}

func TestService_HandlePaymentWebhook(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	signature := "t=1,v1=abc"

	succeeded := &port.WebhookEvent{
		Kind:      port.WebhookPaymentSucceeded,
		IntentID:  "pi_123",
		Reference: "ch_1",
	}

	t.Run("bad signature", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		m.gateway.EXPECT().VerifyWebhook(payload, signature).Return(nil, domain.ErrWebhookSignature)

		err := s.HandlePaymentWebhook(context.Background(), payload, signature)
		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
	})

	t.Run("payment succeeded", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		// The lookup and the locked row are distinct objects; the
		// notification must reflect the settled row, not the stale read.
		read := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		read.PaymentIntentID = "pi_123"
		row := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		row.PaymentIntentID = "pi_123"

		m.gateway.EXPECT().VerifyWebhook(payload, signature).Return(succeeded, nil)
		m.orders.EXPECT().ReadOrderByPaymentIntent(gomock.Any(), "pi_123").Return(read, nil)
		updateTxPassThrough(mockCtrl, m, row)
		m.notifier.EXPECT().Notify(port.NotificationPaymentCompleted, gomock.Any()).
			Do(func(_ port.NotificationEvent, notified map[string]any) {
				assert.Equal(t, string(domain.PaymentStatusCompleted), notified["payment_status"])
				assert.Equal(t, string(domain.OrderStatusProcessing), notified["status"])
			})

		err := s.HandlePaymentWebhook(context.Background(), payload, signature)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, row.PaymentStatus)
		assert.Equal(t, domain.OrderStatusProcessing, row.Status)
		assert.Equal(t, "ch_1", row.PaymentReference)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusProcessing, domain.PaymentStatusCompleted)
		order.PaymentIntentID = "pi_123"
		order.PaymentReference = "ch_1"

		m.gateway.EXPECT().VerifyWebhook(payload, signature).Return(succeeded, nil)
		m.orders.EXPECT().ReadOrderByPaymentIntent(gomock.Any(), "pi_123").Return(order, nil)
		updateTxPassThrough(mockCtrl, m, order)
		// No notification on replay.

		err := s.HandlePaymentWebhook(context.Background(), payload, signature)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, order.PaymentStatus)
	})

	t.Run("payment failed", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		order.PaymentIntentID = "pi_123"

		failed := &port.WebhookEvent{Kind: port.WebhookPaymentFailed, IntentID: "pi_123"}
		m.gateway.EXPECT().VerifyWebhook(payload, signature).Return(failed, nil)
		m.orders.EXPECT().ReadOrderByPaymentIntent(gomock.Any(), "pi_123").Return(order, nil)
		updateTxPassThrough(mockCtrl, m, order)

		err := s.HandlePaymentWebhook(context.Background(), payload, signature)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusFailed, order.PaymentStatus)
		// Order itself stays confirmed; the customer can retry payment.
		assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	})

	t.Run("unknown kind ignored", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		order.PaymentIntentID = "pi_123"

		unknown := &port.WebhookEvent{Kind: "payment_intent.created", IntentID: "pi_123"}
		m.gateway.EXPECT().VerifyWebhook(payload, signature).Return(unknown, nil)
		m.orders.EXPECT().ReadOrderByPaymentIntent(gomock.Any(), "pi_123").Return(order, nil)

		err := s.HandlePaymentWebhook(context.Background(), payload, signature)
		assert.NoError(t, err)
	})
}

func TestService_RefundOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("full refund", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusProcessing, domain.PaymentStatusCompleted)
		order.PaymentIntentID = "pi_123"

		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().Refund(gomock.Any(), "pi_123", order.TotalAmount).Return(nil)
		updateTxPassThrough(mockCtrl, m, order)
		m.notifier.EXPECT().Notify(port.NotificationPaymentRefunded, gomock.Any())

		result, err := s.RefundOrder(context.Background(), staff, order.ID, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunded, result.PaymentStatus)
	})

	t.Run("partial refund", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusProcessing, domain.PaymentStatusCompleted)
		order.PaymentIntentID = "pi_123"
		amount := decimal.MustParse("50")

		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().Refund(gomock.Any(), "pi_123", amount).Return(nil)
		updateTxPassThrough(mockCtrl, m, order)
		m.notifier.EXPECT().Notify(port.NotificationPaymentRefunded, gomock.Any())

		result, err := s.RefundOrder(context.Background(), staff, order.ID, &amount)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunded, result.PaymentStatus)
	})

	t.Run("refund before payment settles", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusConfirmed, domain.PaymentStatusPending)
		order.PaymentIntentID = "pi_123"

		// Gateway is never called for an unsettled order.
		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		result, err := s.RefundOrder(context.Background(), staff, order.ID, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Nil(t, result)
	})

	t.Run("amount above total", func(t *testing.T) {
		s, m := newServiceWithMocks(t, mockCtrl)

		order := testOrder(domain.OrderStatusProcessing, domain.PaymentStatusCompleted)
		order.PaymentIntentID = "pi_123"
		amount := decimal.MustParse("1000")

		m.orders.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		result, err := s.RefundOrder(context.Background(), staff, order.ID, &amount)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, result)
	})

	t.Run("customer cannot refund", func(t *testing.T) {
		s, _ := newServiceWithMocks(t, mockCtrl)

		result, err := s.RefundOrder(context.Background(), customer, uuid.New(), nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, result)
	})
}
