package port

import (
	"context"

	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
)

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type WebhookEventKind string

const (
	WebhookPaymentSucceeded WebhookEventKind = "payment_intent.succeeded"
	WebhookPaymentFailed    WebhookEventKind = "payment_intent.payment_failed"
)

// WebhookEvent is a gateway event that passed signature verification.
type WebhookEvent struct {
	Kind      WebhookEventKind
	IntentID  string
	Reference string
}

// PaymentGateway is the outbound seam to the payment processor.
// Delivery of webhook events is at-least-once; callers must treat the
// resulting transitions as idempotent.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, order *domain.Order) (*PaymentIntent, error)
	RetrieveIntentStatus(ctx context.Context, intentID string) (string, error)
	Refund(ctx context.Context, intentID string, amount decimal.Decimal) error
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
