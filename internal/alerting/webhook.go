package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Webhook posts alert messages to an external voice gateway. One attempt
// per alert; the caller decides what a failed delivery means.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string) *Webhook {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Webhook{client: client, url: url}
}

func (w *Webhook) SendAlert(ctx context.Context, message string) (bool, error) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		Post(w.url)
	if err != nil {
		return false, fmt.Errorf("alert webhook post failed: %w", err)
	}
	return resp.IsSuccess(), nil
}
