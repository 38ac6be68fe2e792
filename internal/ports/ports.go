package ports

import (
	"context"
	"time"

	"github.com/JKevinXu/NewsAgent/internal/domain"
)

// Fetcher pulls up to limit ranked items from one content source.
// Returned items carry source-native fields; run-scoped identity (ID, Date)
// is assigned by the fan-in layer.
type Fetcher interface {
	Name() domain.Source
	Fetch(ctx context.Context, limit int) ([]domain.Item, error)
}

// Extractor reduces an article page to plain text for summarization.
// It never fails: any network or parse error yields domain.Unavailable.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) string
}

// Summarizer turns title plus extracted content into a short summary with
// an overview and one standout insight. Best-effort, single attempt.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// SpeechSynthesizer converts bounded text into an audio byte stream.
// Inputs longer than MaxInputLength are rejected by the service.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	MaxInputLength() int
}

// ObjectStore persists a byte payload under a key and returns a stable
// retrieval URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// RecommendationStore persists per-item and per-day digest records.
type RecommendationStore interface {
	SaveItems(ctx context.Context, items []domain.Item) error
	SaveDigest(ctx context.Context, rec domain.DigestRecord) error
	MarkEmailSent(ctx context.Context, date string) error
}

// EmailMessage carries one rendered digest email.
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers the rendered digest.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
