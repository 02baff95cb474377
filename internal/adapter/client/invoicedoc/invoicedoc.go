package invoicedoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zorel/fulfillment/internal/adapter/config"
	"go.uber.org/zap"
)

// RendererClient requests PDF documents from the invoice renderer.
type RendererClient struct {
	logger     *zap.Logger
	host       string
	httpClient *http.Client
}

func NewRendererClient(cfg *config.Invoice, log *zap.Logger) (*RendererClient, error) {
	return &RendererClient{
		logger:     log,
		host:       cfg.RendererHost,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *RendererClient) RenderPDF(ctx context.Context, snapshot map[string]any) ([]byte, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("error encoding render request: %w", err)
	}

	requestStr := "http://" + c.host + "/render/invoice"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status from invoice renderer",
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("bad response %v on invoice render", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// ValidatorClient asks the document validation service to cross-check
// an invoice. Advisory: any failure reads as "no findings".
type ValidatorClient struct {
	logger     *zap.Logger
	host       string
	httpClient *http.Client
}

func NewValidatorClient(cfg *config.Invoice, log *zap.Logger) (*ValidatorClient, error) {
	return &ValidatorClient{
		logger:     log,
		host:       cfg.ValidatorHost,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type validateResponse struct {
	OK    bool   `json:"ok"`
	Notes string `json:"notes"`
}

func (c *ValidatorClient) Validate(ctx context.Context, snapshot map[string]any) (bool, string) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("error encoding validation request", zap.Error(err))
		return true, ""
	}

	requestStr := "http://" + c.host + "/validate/invoice"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr, bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("error building validation request", zap.Error(err))
		return true, ""
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("invoice validator unreachable", zap.Error(err))
		return true, ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected status from invoice validator",
			zap.Int("status", resp.StatusCode))
		return true, ""
	}

	var result validateResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		c.logger.Warn("error decoding validation response", zap.Error(err))
		return true, ""
	}

	return result.OK, result.Notes
}
