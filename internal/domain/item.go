package domain

import "time"

// Unavailable is the sentinel returned by best-effort enrichment steps
// (extraction, summarization) when the underlying call failed.
const Unavailable = "unavailable"

// Source enumerates content origins.
type Source string

const (
	SourceHackerNews     Source = "hackernews"
	SourceGitHubTrending Source = "github-trending"
)

// Item is one content entry from a source, after normalization.
// Summary and AudioURL stay empty when the corresponding enrichment
// step failed; an item is never dropped because of that.
type Item struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"`
	Source         Source    `json:"source"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Score          int       `json:"score"`
	Author         string    `json:"author"`
	SecondaryCount int       `json:"secondaryCount"`
	PublishedAt    time.Time `json:"publishedAt"`
	Summary        string    `json:"summary,omitempty"`
	AudioURL       string    `json:"audioUrl,omitempty"`
}

// HasSummary reports whether summarization produced usable text.
func (i Item) HasSummary() bool {
	return i.Summary != "" && i.Summary != Unavailable
}

// DigestRecord tracks one run date: totals, combined narration, email state.
type DigestRecord struct {
	ID               string    `json:"id"`
	Date             string    `json:"date"`
	TotalItems       int       `json:"totalItems"`
	GeneratedAt      time.Time `json:"generatedAt"`
	CombinedAudioURL string    `json:"combinedAudioUrl,omitempty"`
	EmailSent        bool      `json:"emailSent"`
}

// NewDigestRecord builds the record for a run date with EmailSent false.
func NewDigestRecord(date string, totalItems int, generatedAt time.Time) DigestRecord {
	return DigestRecord{
		ID:          "digest-" + date,
		Date:        date,
		TotalItems:  totalItems,
		GeneratedAt: generatedAt,
	}
}
