package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

const defaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// Fetcher retrieves ranked front-page stories from the Hacker News API.
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.Fetcher = (*Fetcher)(nil)

// New wires an HTTP client; a nil client gets a 10s timeout default.
func New(client *http.Client, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{baseURL: defaultBaseURL, client: client, logger: log}
}

// Name identifies the fetcher inside the registry.
func (f *Fetcher) Name() domain.Source {
	return domain.SourceHackerNews
}

type story struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	By          string `json:"by"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
}

// Fetch resolves the ranked id list and then each story until limit
// qualifying entries are collected or the list is exhausted. Entries that
// are not stories, lack a destination URL, or fail to resolve are skipped;
// only a failure of the ranked list itself fails the fetch.
func (f *Fetcher) Fetch(ctx context.Context, limit int) ([]domain.Item, error) {
	var ids []int64
	if err := f.getJSON(ctx, f.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	items := make([]domain.Item, 0, limit)
	for _, id := range ids {
		if len(items) >= limit {
			break
		}

		var st story
		if err := f.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", f.baseURL, id), &st); err != nil {
			f.warn("skip story", "id", id, "error", err)
			continue
		}

		if st.Type != "story" || st.URL == "" {
			continue
		}

		items = append(items, domain.Item{
			Title:          st.Title,
			URL:            st.URL,
			Score:          st.Score,
			Author:         st.By,
			SecondaryCount: st.Descendants,
			PublishedAt:    time.Unix(st.Time, 0).UTC(),
		})
	}

	return items, nil
}

func (f *Fetcher) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsAgent/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
