package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JKevinXu/NewsAgent/internal/config"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

// Client delivers digest emails through an HTTP mail API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Mailer = (*Client)(nil)

// New builds a mailer from configuration.
func New(cfg config.MailConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts the rendered message to the mail API.
func (c *Client) Send(ctx context.Context, msg ports.EmailMessage) error {
	if c.endpoint == "" || c.apiKey == "" {
		return fmt.Errorf("mailer misconfigured")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	body, err := json.Marshal(map[string]any{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
		"text":    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}
