package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/adapter/config"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

// GatewayClient talks to the payment processor over HTTP.
type GatewayClient struct {
	logger        *zap.Logger
	host          string
	apiKey        string
	webhookSecret []byte
	httpClient    *http.Client
}

func NewGatewayClient(cfg *config.Payment, log *zap.Logger) (*GatewayClient, error) {
	return &GatewayClient{
		logger:        log,
		host:          cfg.HostString,
		apiKey:        cfg.APIKey,
		webhookSecret: []byte(cfg.WebhookSecret),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type intentRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	OrderNumber string `json:"order_number"`
	OrderID     string `json:"order_id"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

func (c *GatewayClient) CreateIntent(ctx context.Context, order *domain.Order) (*port.PaymentIntent, error) {
	body, err := json.Marshal(intentRequest{
		Amount:      order.TotalAmount.String(),
		Currency:    "usd",
		OrderNumber: order.Number,
		OrderID:     order.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding intent request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("unexpected status from payment gateway",
			zap.String("order", order.Number), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("bad response %v on intent create", resp.StatusCode)
	}

	var result intentResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}

	return &port.PaymentIntent{ID: result.ID, ClientSecret: result.ClientSecret}, nil
}

func (c *GatewayClient) RetrieveIntentStatus(ctx context.Context, intentID string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+intentID, http.NoBody)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", domain.ErrDataNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad response %v on intent retrieve", resp.StatusCode)
	}

	var result intentResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return "", fmt.Errorf("error on response decode: %w", err)
	}

	return result.Status, nil
}

type refundRequest struct {
	PaymentIntent string `json:"payment_intent"`
	Amount        string `json:"amount"`
}

func (c *GatewayClient) Refund(ctx context.Context, intentID string, amount decimal.Decimal) error {
	body, err := json.Marshal(refundRequest{PaymentIntent: intentID, Amount: amount.String()})
	if err != nil {
		return fmt.Errorf("error encoding refund request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/refunds", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("unexpected status from payment gateway on refund",
			zap.String("intent", intentID), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("bad response %v on refund", resp.StatusCode)
	}

	return nil
}

func (c *GatewayClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	requestStr := "http://" + c.host + path
	req, err := http.NewRequestWithContext(ctx, method, requestStr, body)
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error %s : %w", requestStr, err)
	}

	return resp, nil
}
