package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

const webhookSignatureHeader = "Gateway-Signature"

type PaymentHandler struct {
	Handler
	service port.Service
}

func NewPaymentHandler(service port.Service, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type paymentIntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
}

func (ph *PaymentHandler) CreatePaymentIntent(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	intent, err := ph.service.CreatePaymentIntent(ctx, actorFrom(ctx), orderID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, paymentIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
	})
}

// Webhook receives gateway callbacks. The raw body is read before any
// decoding because the signature covers the exact bytes sent.
func (ph *PaymentHandler) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}
	defer func() { _ = ctx.Request.Body.Close() }()

	signature := ctx.Request.Header.Get(webhookSignatureHeader)

	err = ph.service.HandlePaymentWebhook(ctx, payload, signature)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, nil, http.StatusOK)
}

type refundRequest struct {
	Amount *float64 `json:"amount"`
}

func (ph *PaymentHandler) RefundOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	req := refundRequest{}
	err = ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		value, err := decimal.NewFromFloat64(*req.Amount)
		if err != nil {
			ph.handleValidationError(ctx, err)
			return
		}
		amount = &value
	}

	order, err := ph.service.RefundOrder(ctx, actorFrom(ctx), orderID, amount)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newOrderResponse(order))
}
