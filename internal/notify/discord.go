package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Discord posts messages to a Discord webhook
type Discord struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

type discordMessage struct {
	Content string `json:"content"`
}

// NewDiscord creates a new Discord webhook notifier
func NewDiscord(webhookURL string, logger *zap.Logger) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// Notify sends message as the webhook content
func (d *Discord) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(discordMessage{Content: message})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	d.logger.Debug("Notification sent", zap.String("message", message))

	return nil
}

// Nop discards every message
type Nop struct{}

// Notify does nothing
func (Nop) Notify(ctx context.Context, message string) error {
	return nil
}
