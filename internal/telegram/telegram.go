// Package telegram is a minimal Bot API client: one channel, one operation.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"khabar/internal/retry"
)

const apiBase = "https://api.telegram.org"

// Client sends formatted messages to a single chat/channel.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
	retry   retry.Config
}

// New builds a client. timeout bounds each HTTP attempt; attempts and delay
// configure the retry policy around transient Bot API failures.
func New(token, chatID string, timeout time.Duration, attempts int, delay time.Duration) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		baseURL: apiBase,
		http:    &http.Client{Timeout: timeout},
		retry: retry.Config{
			MaxAttempts: attempts,
			Delay:       delay,
			Backoff:     true,
		},
	}
}

// Send delivers one Markdown-formatted message to the channel. allowPreview
// toggles link previews. The retry policy only covers transient failures;
// the caller treats the returned error as one failed delivery.
func (c *Client) Send(ctx context.Context, text string, allowPreview bool) error {
	return retry.WithRetry(ctx, c.retry, func() error {
		return c.sendOnce(ctx, text, allowPreview)
	})
}

func (c *Client) sendOnce(ctx context.Context, text string, allowPreview bool) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	payload := map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": !allowPreview,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}

	return nil
}
