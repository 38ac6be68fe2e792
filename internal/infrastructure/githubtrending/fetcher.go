package githubtrending

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

const (
	defaultBaseURL = "https://api.github.com"
	trendingWindow = 7 * 24 * time.Hour
)

// Fetcher queries the GitHub search API for repositories created within a
// trailing 7-day window, sorted by star count descending.
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.Fetcher = (*Fetcher)(nil)

// New wires an HTTP client; a nil client gets a 10s timeout default.
func New(client *http.Client, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{baseURL: defaultBaseURL, client: client, logger: log, now: time.Now}
}

// Name identifies the fetcher inside the registry.
func (f *Fetcher) Name() domain.Source {
	return domain.SourceGitHubTrending
}

type searchResponse struct {
	Items []repository `json:"items"`
}

type repository struct {
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	CreatedAt       time.Time `json:"created_at"`
	Owner           struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// Fetch returns up to limit trending repositories as normalized items.
func (f *Fetcher) Fetch(ctx context.Context, limit int) ([]domain.Item, error) {
	since := f.now().Add(-trendingWindow).UTC().Format("2006-01-02")

	query := url.Values{}
	query.Set("q", "created:>"+since)
	query.Set("sort", "stars")
	query.Set("order", "desc")
	query.Set("per_page", strconv.Itoa(limit))

	endpoint := f.baseURL + "/search/repositories?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsAgent/1.0")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned %s", resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.Item, 0, len(result.Items))
	for _, repo := range result.Items {
		if len(items) >= limit {
			break
		}

		title := repo.FullName
		if repo.Description != "" {
			title = fmt.Sprintf("%s: %s", repo.FullName, repo.Description)
		}

		items = append(items, domain.Item{
			Title:          title,
			URL:            repo.HTMLURL,
			Score:          repo.StargazersCount,
			Author:         repo.Owner.Login,
			SecondaryCount: repo.OpenIssuesCount,
			PublishedAt:    repo.CreatedAt.UTC(),
		})
	}

	if f.logger != nil {
		f.logger.Debug("trending fetched", "since", since, "count", len(items))
	}

	return items, nil
}
