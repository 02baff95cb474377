package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
)

// webhookTolerance bounds the accepted clock skew between the gateway
// timestamp in the signature header and our clock.
const webhookTolerance = 5 * time.Minute

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID           string `json:"id"`
			LatestCharge string `json:"latest_charge"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhook checks the "t=<unix>,v1=<hex>" signature header against
// HMAC-SHA256(secret, "<t>.<payload>") and decodes the event on success.
func (c *GatewayClient) VerifyWebhook(payload []byte, signature string) (*port.WebhookEvent, error) {
	ts, expected, err := parseSignatureHeader(signature)
	if err != nil {
		return nil, err
	}

	sent := time.Unix(ts, 0)
	if d := time.Since(sent); d > webhookTolerance || d < -webhookTolerance {
		return nil, domain.ErrWebhookSignature
	}

	mac := hmac.New(sha256.New, c.webhookSecret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return nil, domain.ErrWebhookSignature
	}

	var body webhookBody
	err = json.Unmarshal(payload, &body)
	if err != nil {
		return nil, domain.ErrWebhookSignature
	}

	reference := body.Data.Object.LatestCharge
	if reference == "" {
		reference = body.Data.Object.ID
	}

	return &port.WebhookEvent{
		Kind:      port.WebhookEventKind(body.Type),
		IntentID:  body.Data.Object.ID,
		Reference: reference,
	}, nil
}

func parseSignatureHeader(signature string) (int64, []byte, error) {
	var ts int64
	var sig []byte

	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			v, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, domain.ErrWebhookSignature
			}
			ts = v
		case "v1":
			v, err := hex.DecodeString(value)
			if err != nil {
				return 0, nil, domain.ErrWebhookSignature
			}
			sig = v
		}
	}

	if ts == 0 || len(sig) == 0 {
		return 0, nil, domain.ErrWebhookSignature
	}

	return ts, sig, nil
}
