package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/user/ticklist/internal/notification"
)

// Client is a Slack webhook notification sink. Optional; configured via
// SLACK_WEBHOOK_URL for users who want reminders mirrored to a channel.
type Client struct {
	httpClient *http.Client
	webhookURL string
}

// message represents a Slack message payload
type message struct {
	Text string `json:"text"`
}

// NewClient creates a new Slack webhook client
func NewClient(webhookURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		webhookURL: webhookURL,
	}
}

// Notify implements notification.Sink.
func (c *Client) Notify(ctx context.Context, n notification.Notification) error {
	text := fmt.Sprintf(":bell: *%s*: %s", n.Title, n.Body)
	return c.send(ctx, text)
}

// send sends a message to the configured Slack channel
func (c *Client) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(message{Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API error: status %d", resp.StatusCode)
	}

	return nil
}
