package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JKevinXu/NewsAgent/internal/domain"
)

func sampleItems() []domain.Item {
	published := time.Date(2026, time.August, 29, 8, 0, 0, 0, time.UTC)
	return []domain.Item{
		{
			ID: "2026-08-29-hackernews-1", Date: "2026-08-29", Source: domain.SourceHackerNews,
			Title: "Show HN: A tiny database", URL: "https://example.com/db",
			Score: 420, Author: "alice", SecondaryCount: 87, PublishedAt: published,
			Summary:  "**Overview**: A database in 500 lines.\n**Insight**: It fits in L1 cache.",
			AudioURL: "https://cdn.example/audio/2026-08-29/2026-08-29-hackernews-1.mp3",
		},
		{
			ID: "2026-08-29-hackernews-2", Date: "2026-08-29", Source: domain.SourceHackerNews,
			Title: "Postmortem of an outage", URL: "https://example.com/outage",
			Score: 200, Author: "bob", SecondaryCount: 45, PublishedAt: published,
		},
		{
			ID: "2026-08-29-github-trending-1", Date: "2026-08-29", Source: domain.SourceGitHubTrending,
			Title: "acme/rocket: Fast deployments", URL: "https://github.com/acme/rocket",
			Score: 1500, Author: "acme", SecondaryCount: 12, PublishedAt: published,
			Summary: "*Overview*: Deploy tool.",
		},
	}
}

func TestDigestGroupsBySource(t *testing.T) {
	t.Parallel()

	html, text, err := Digest("2026-08-29", sampleItems(), "")
	require.NoError(t, err)

	assert.Contains(t, html, "Hacker News")
	assert.Contains(t, html, "GitHub Trending")
	assert.Less(t, strings.Index(html, "Hacker News"), strings.Index(html, "GitHub Trending"),
		"groups follow first-appearance order")

	assert.Contains(t, text, "== Hacker News ==")
	assert.Contains(t, text, "== GitHub Trending ==")
}

func TestDigestRendersMarkdown(t *testing.T) {
	t.Parallel()

	html, text, err := Digest("2026-08-29", sampleItems(), "")
	require.NoError(t, err)

	assert.Contains(t, html, "<strong>Overview</strong>: A database in 500 lines.")
	assert.Contains(t, html, "<em>Overview</em>: Deploy tool.")
	assert.NotContains(t, text, "**")
	assert.Contains(t, text, "Overview: A database in 500 lines.")
}

func TestDigestCombinedTrackCallToAction(t *testing.T) {
	t.Parallel()

	combined := "https://cdn.example/audio/2026-08-29/daily-digest.mp3"
	html, text, err := Digest("2026-08-29", sampleItems(), combined)
	require.NoError(t, err)

	assert.Contains(t, html, combined)
	assert.Contains(t, text, combined)
}

func TestDigestWithoutCombinedTrackStillRenders(t *testing.T) {
	t.Parallel()

	html, text, err := Digest("2026-08-29", sampleItems(), "")
	require.NoError(t, err)

	assert.NotContains(t, html, "Listen to today's digest")
	assert.NotContains(t, text, "Listen to today's digest")
	assert.NotEmpty(t, html)
	assert.NotEmpty(t, text)
}

func TestDigestEmptyItemList(t *testing.T) {
	t.Parallel()

	html, text, err := Digest("2026-08-29", nil, "")
	require.NoError(t, err)
	assert.Contains(t, html, "2026-08-29")
	assert.Contains(t, text, "2026-08-29")
}

func TestDigestEscapesHTMLInSummaries(t *testing.T) {
	t.Parallel()

	items := []domain.Item{{
		ID: "x", Source: domain.SourceHackerNews, Title: "T", URL: "https://example.com",
		Summary: "Overview: <script>alert(1)</script>",
	}}

	html, _, err := Digest("2026-08-29", items, "")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestStyleForUnknownSource(t *testing.T) {
	t.Parallel()

	style := styleFor(domain.Source("weird"))
	assert.Equal(t, defaultStyle, style)
}
