package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

const (
	// maxChars bounds downstream token cost.
	maxChars     = 4000
	maxBodyBytes = 2 << 20
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// Extractor reduces an article page to plain text. Every failure path
// returns domain.Unavailable; nothing propagates to the caller.
type Extractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// New wires an HTTP client; a nil client gets a 10s timeout default.
func New(client *http.Client, log *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Extractor{client: client, logger: log}
}

// Extract fetches the page and returns whitespace-collapsed plain text
// truncated to the character budget.
func (e *Extractor) Extract(ctx context.Context, pageURL string) string {
	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		e.debug("extract failed", "url", pageURL, "error", err)
		return domain.Unavailable
	}

	text := e.readableText(body, pageURL)
	if text == "" {
		text = strippedText(body)
	}
	if text == "" {
		return domain.Unavailable
	}

	text = whitespaceExpr.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Unavailable
	}

	return truncateRunes(text, maxChars)
}

func (e *Extractor) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "NewsAgent/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// readableText runs a readability pass over the document. Returns an empty
// string when readability fails or yields nothing.
func (e *Extractor) readableText(body []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(article.TextContent)
}

// strippedText removes script and style blocks first, then takes the
// remaining document text.
func strippedText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript").Remove()
	return strings.TrimSpace(doc.Text())
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
