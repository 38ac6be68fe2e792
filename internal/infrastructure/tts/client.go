package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JKevinXu/NewsAgent/internal/config"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

const defaultMaxInputLength = 3000

// Client talks to an OpenAI-compatible speech endpoint. The service rejects
// inputs over the configured ceiling, so Synthesize enforces it up front.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	voice    string
	format   string
	ceiling  int
	http     *http.Client
}

var _ ports.SpeechSynthesizer = (*Client)(nil)

// New builds a synthesis client from configuration.
func New(cfg config.TTSConfig) *Client {
	ceiling := cfg.MaxInputLength
	if ceiling <= 0 {
		ceiling = defaultMaxInputLength
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		voice:    cfg.Voice,
		format:   cfg.Format,
		ceiling:  ceiling,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// MaxInputLength returns the per-call input ceiling in characters.
func (c *Client) MaxInputLength() int {
	return c.ceiling
}

// Synthesize turns bounded text into an audio byte stream.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("tts client misconfigured")
	}

	if n := utf8.RuneCountInString(text); n > c.ceiling {
		return nil, fmt.Errorf("input length %d exceeds ceiling %d", n, c.ceiling)
	}

	body, err := json.Marshal(map[string]string{
		"model":           c.model,
		"voice":           c.voice,
		"response_format": c.format,
		"input":           text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio stream: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio stream")
	}

	return audio, nil
}
