package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// WebhookPayload is the JSON body posted to a webhook.
type WebhookPayload struct {
	Event string       `json:"event"`
	Count int          `json:"count"`
	Draws []*draw.Draw `json:"draws"`
}

// WebhookNotifier posts new draws as one JSON document
type WebhookNotifier struct {
	url    string
	client *resty.Client
}

// NewWebhookNotifier creates a notifier posting to url
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &WebhookNotifier{url: url, client: client}
}

// Notify posts all draws in a single request
func (n *WebhookNotifier) Notify(ctx context.Context, draws []*draw.Draw) error {
	if len(draws) == 0 {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(WebhookPayload{Event: "new_draws", Count: len(draws), Draws: draws}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}
