package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/JKevinXu/NewsAgent/internal/config"
	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

const (
	requestTimeout = 30 * time.Second

	systemPrompt = "You are the editor of a daily tech digest. You write tight, " +
		"plain-spoken summaries for busy engineers."
)

// Claude implements ports.Summarizer on the Anthropic Messages API.
type Claude struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

var _ ports.Summarizer = (*Claude)(nil)

// NewClaude builds a summarizer client from configuration.
func NewClaude(cfg config.AnthropicConfig) *Claude {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &Claude{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: maxTokens,
	}
}

// Summarize makes a single attempt; callers treat any error as "no summary"
// and keep the item minimal.
func (c *Claude) Summarize(ctx context.Context, title, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(title, content))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	summary := collectText(msg)
	if summary == "" {
		return "", fmt.Errorf("summarize: empty completion")
	}

	return summary, nil
}

func buildPrompt(title, content string) string {
	var b strings.Builder
	b.WriteString("Summarize the following story in markdown with exactly two parts:\n")
	b.WriteString("**Overview**: two or three sentences on what it is and why it matters.\n")
	b.WriteString("**Insight**: one standout takeaway a reader would not guess from the headline.\n")
	b.WriteString("Do not repeat the title verbatim.\n\n")
	b.WriteString("Title: ")
	b.WriteString(title)
	b.WriteString("\n\nContent:\n")
	if content == "" || content == domain.Unavailable {
		b.WriteString("(article text unavailable; summarize from the title alone)")
	} else {
		b.WriteString(content)
	}
	return b.String()
}

func collectText(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	return strings.TrimSpace(b.String())
}
