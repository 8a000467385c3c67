package webhook

import (
	"context"

	"go.uber.org/zap"

	"github.com/ccollicutt/conversa/pkg/config"
	"github.com/ccollicutt/conversa/pkg/output"
)

// ShouldFire reports whether a webhook with the given trigger fires for report.
func ShouldFire(trigger config.WebhookTrigger, report *output.Report) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return !report.Empty()
	}
}

// Dispatcher fans a report out to every configured endpoint. Delivery
// failures are logged and never fail the analysis.
type Dispatcher struct {
	client   *Client
	webhooks []config.WebhookConfig
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher. A nil logger discards output.
func NewDispatcher(client *Client, webhooks []config.WebhookConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{client: client, webhooks: webhooks, logger: logger}
}

// Dispatch sends report to each webhook whose trigger allows it and returns
// how many deliveries succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, report *output.Report) int {
	sent := 0
	for _, wh := range d.webhooks {
		if !ShouldFire(wh.Trigger, report) {
			continue
		}

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		resp := d.client.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		if !resp.Success() {
			d.logger.Warn("webhook failed",
				zap.String("webhook", name),
				zap.String("source", report.Metadata.Source),
				zap.Error(resp.Error))
			continue
		}
		sent++
		d.logger.Info("webhook sent",
			zap.String("webhook", name),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", resp.Duration))
	}
	return sent
}
