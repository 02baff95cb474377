package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zorel/fulfillment/internal/adapter/client/payment"
	"github.com/zorel/fulfillment/internal/adapter/config"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

const testSecret = "whsec_test"

func sign(t *testing.T, payload []byte, ts int64) string {
	t.Helper()

	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)

	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newTestClient(t *testing.T) *payment.GatewayClient {
	t.Helper()

	client, err := payment.NewGatewayClient(&config.Payment{
		HostString:    "gateway.local",
		WebhookSecret: testSecret,
	}, zap.NewNop())
	assert.NoError(t, err)

	return client
}

func TestVerifyWebhook(t *testing.T) {
	client := newTestClient(t)

	payload := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","latest_charge":"ch_1"}}}`)

	t.Run("valid signature", func(t *testing.T) {
		event, err := client.VerifyWebhook(payload, sign(t, payload, time.Now().Unix()))
		assert.NoError(t, err)
		assert.Equal(t, port.WebhookPaymentSucceeded, event.Kind)
		assert.Equal(t, "pi_123", event.IntentID)
		assert.Equal(t, "ch_1", event.Reference)
	})

	t.Run("reference falls back to intent id", func(t *testing.T) {
		bare := []byte(`{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_123"}}}`)
		event, err := client.VerifyWebhook(bare, sign(t, bare, time.Now().Unix()))
		assert.NoError(t, err)
		assert.Equal(t, port.WebhookPaymentFailed, event.Kind)
		assert.Equal(t, "pi_123", event.Reference)
	})

	t.Run("tampered payload", func(t *testing.T) {
		signature := sign(t, payload, time.Now().Unix())
		tampered := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_999"}}}`)

		event, err := client.VerifyWebhook(tampered, signature)
		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
		assert.Nil(t, event)
	})

	t.Run("wrong secret", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte("other secret"))
		ts := time.Now().Unix()
		mac.Write([]byte(strconv.FormatInt(ts, 10)))
		mac.Write([]byte("."))
		mac.Write(payload)
		signature := fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))

		event, err := client.VerifyWebhook(payload, signature)
		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
		assert.Nil(t, event)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		stale := time.Now().Add(-time.Hour).Unix()
		event, err := client.VerifyWebhook(payload, sign(t, payload, stale))
		assert.ErrorIs(t, err, domain.ErrWebhookSignature)
		assert.Nil(t, event)
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"", "t=,v1=", "v1=abcd", "t=123"} {
			event, err := client.VerifyWebhook(payload, header)
			assert.ErrorIs(t, err, domain.ErrWebhookSignature)
			assert.Nil(t, event)
		}
	})
}
