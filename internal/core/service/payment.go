package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

// CreatePaymentIntent asks the gateway for an intent on a confirmed
// order and stores the correlation id. A gateway failure leaves the
// order untouched and is retryable.
func (s *Service) CreatePaymentIntent(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*port.PaymentIntent, error) {
	order, err := s.orders.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && order.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusConfirmed {
		return nil, &domain.InvalidTransitionError{
			Transition:    "create_payment_intent",
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, order)
	if err != nil {
		s.logger.Error("Create payment intent", zap.String("order", order.Number), zap.Error(err))
		return nil, fmt.Errorf("%w: create intent: %v", domain.ErrExternalService, err)
	}

	_, err = s.orders.UpdateOrderTx(ctx, orderID,
		func(o *domain.Order, stock port.StockReleaser) error {
			// The status may have moved while the gateway call was in
			// flight; never attach an intent to a non-payable order.
			if o.Status != domain.OrderStatusConfirmed {
				return &domain.InvalidTransitionError{
					Transition:    "create_payment_intent",
					Status:        o.Status,
					PaymentStatus: o.PaymentStatus,
				}
			}
			o.PaymentIntentID = intent.ID
			return nil
		})
	if err != nil {
		return nil, err
	}

	return intent, nil
}

// HandlePaymentWebhook applies a verified gateway event to the order it
// references. The gateway delivers at least once, so both branches are
// no-ops when the order is already in the target payment state.
func (s *Service) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("Webhook rejected", zap.Error(err))
		return domain.ErrWebhookSignature
	}

	order, err := s.orders.ReadOrderByPaymentIntent(ctx, event.IntentID)
	if err != nil {
		s.logger.Error("Webhook order lookup",
			zap.String("intent", event.IntentID), zap.Error(err))
		return err
	}

	switch event.Kind {
	case port.WebhookPaymentSucceeded:
		var changed bool
		var updated *domain.Order
		updated, err = s.orders.UpdateOrderTx(ctx, order.ID,
			func(o *domain.Order, stock port.StockReleaser) error {
				changed, err = o.MarkPaymentCompleted(event.Reference, time.Now())
				return err
			})
		if err != nil {
			return err
		}
		if changed {
			s.notifier.Notify(port.NotificationPaymentCompleted, orderPayload(updated))
		}
		return nil
	case port.WebhookPaymentFailed:
		_, err = s.orders.UpdateOrderTx(ctx, order.ID,
			func(o *domain.Order, stock port.StockReleaser) error {
				_, err := o.MarkPaymentFailed()
				return err
			})
		return err
	default:
		s.logger.Debug("Ignoring webhook event", zap.String("kind", string(event.Kind)))
		return nil
	}
}

// RefundOrder issues a gateway refund and, only after the gateway
// accepts it, moves payment_status to refunded. A nil amount refunds
// the full total.
func (s *Service) RefundOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID, amount *decimal.Decimal) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	refundAmount := order.TotalAmount
	if amount != nil {
		refundAmount = *amount
	}
	if err := order.ValidateRefundAmount(refundAmount); err != nil {
		return nil, err
	}
	if order.PaymentIntentID == "" {
		return nil, fmt.Errorf("%w: order has no payment intent", domain.ErrValidation)
	}

	if err := s.gateway.Refund(ctx, order.PaymentIntentID, refundAmount); err != nil {
		s.logger.Error("Refund", zap.String("order", order.Number), zap.Error(err))
		return nil, fmt.Errorf("%w: refund: %v", domain.ErrExternalService, err)
	}

	updated, err := s.orders.UpdateOrderTx(ctx, orderID,
		func(o *domain.Order, stock port.StockReleaser) error {
			return o.MarkRefunded()
		})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(port.NotificationPaymentRefunded,
		orderPayloadWith(updated, map[string]any{"refund_amount": refundAmount.String()}))

	return updated, nil
}
