package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zorel/fulfillment/internal/adapter/config"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

// Dispatcher delivers lifecycle notifications to the notification
// service. Notify queues and returns; delivery failures are logged and
// dropped, never surfaced to the caller.
type Dispatcher struct {
	logger     *zap.Logger
	host       string
	queue      chan message
	httpClient *http.Client
}

type message struct {
	Event   port.NotificationEvent `json:"event"`
	Payload map[string]any         `json:"payload"`
}

func NewDispatcher(cfg *config.Notify, log *zap.Logger) (*Dispatcher, error) {
	return &Dispatcher{
		logger:     log,
		host:       cfg.HostString,
		queue:      make(chan message, 64),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (d *Dispatcher) Notify(event port.NotificationEvent, payload map[string]any) {
	msg := message{Event: event, Payload: payload}
	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping event",
			zap.String("event", string(event)))
	}
}

// Run starts the delivery workers. Workers drain the queue until ctx is
// canceled.
func (d *Dispatcher) Run(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case msg := <-d.queue:
					err := d.send(ctx, msg)
					if err != nil {
						d.logger.Error("notification delivery failed",
							zap.String("event", string(msg.Event)), zap.Error(err))
					}
				case <-ctx.Done():
					d.logger.Debug("Finished notification worker")
					return
				}
			}
		}()
	}
}

func (d *Dispatcher) send(ctx context.Context, msg message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	requestStr := "http://" + d.host + "/api/notifications"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		d.logger.Warn("unexpected status from notification service",
			zap.String("event", string(msg.Event)), zap.Int("status", resp.StatusCode))
	}

	return nil
}
