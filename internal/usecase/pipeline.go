package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JKevinXu/NewsAgent/internal/audio"
	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/fetch"
	"github.com/JKevinXu/NewsAgent/internal/ports"
	"github.com/JKevinXu/NewsAgent/internal/render"
	"github.com/JKevinXu/NewsAgent/pkg/retry"
)

// EmailSettings carries the envelope fields for the digest email.
type EmailSettings struct {
	From          string
	To            []string
	SubjectPrefix string
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// External clients are constructed once at wiring time and injected here,
// never re-instantiated per run.
type PipelineDeps struct {
	Sources    *fetch.MultiSource
	Extractor  ports.Extractor
	Summarizer ports.Summarizer
	Assembler  *audio.Assembler
	Objects    ports.ObjectStore
	Store      ports.RecommendationStore
	Mailer     ports.Mailer
	Email      EmailSettings
	Location   *time.Location
	Clock      func() time.Time
	Logger     *slog.Logger
}

// Pipeline implements the digest run workflow. Runs are strictly
// sequential: one source at a time, one item at a time, each item owned
// exclusively by the iteration enriching it.
type Pipeline struct {
	sources    *fetch.MultiSource
	extractor  ports.Extractor
	summarizer ports.Summarizer
	assembler  *audio.Assembler
	objects    ports.ObjectStore
	store      ports.RecommendationStore
	mailer     ports.Mailer
	email      EmailSettings
	location   *time.Location
	clock      func() time.Time
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		sources:    deps.Sources,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		assembler:  deps.Assembler,
		objects:    deps.Objects,
		store:      deps.Store,
		mailer:     deps.Mailer,
		email:      deps.Email,
		location:   loc,
		clock:      clock,
		logger:     deps.Logger,
	}
}

// Run executes one digest run. It always returns a result: every stage
// failure is isolated to its unit of work, and anything uncaught is
// recovered at this boundary and converted into an error result.
func (p *Pipeline) Run(ctx context.Context, trigger domain.TriggerKind) (result domain.RunResult) {
	started := p.clock()
	date := started.In(p.location).Format("2006-01-02")

	result = domain.RunResult{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		Date:      date,
		Stage:     domain.StageFetching,
		StartedAt: started,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Stage = domain.StageFailed
			result.Error = fmt.Sprintf("pipeline panic: %v", r)
			p.error("run failed", "run", result.RunID, "error", result.Error)
		}
		result.FinishedAt = p.clock()
	}()

	p.info("run started", "run", result.RunID, "date", date, "trigger", trigger)

	items := p.sources.FetchAll(ctx, date)
	result.ItemCount = len(items)

	result.Stage = domain.StageProcessingItems
	for i := range items {
		p.enrich(ctx, &items[i])
	}
	result.Items = items

	result.Stage = domain.StageAssemblingAudio
	result.CombinedAudioURL = p.assembleCombined(ctx, date, items, &result)

	result.Stage = domain.StagePersisting
	rec := domain.NewDigestRecord(date, len(items), p.clock())
	rec.CombinedAudioURL = result.CombinedAudioURL
	p.persist(ctx, items, rec, &result)

	result.Stage = domain.StageRenderingAndSending
	result.EmailSent = p.renderAndSend(ctx, date, items, result.CombinedAudioURL, &result)
	if result.EmailSent && p.store != nil {
		if err := p.store.MarkEmailSent(ctx, date); err != nil {
			p.warnResult(&result, "mark email sent failed: "+err.Error())
		}
	}

	result.Stage = domain.StageDone
	p.info("run done", "run", result.RunID, "items", result.ItemCount,
		"email_sent", result.EmailSent, "warnings", len(result.Warnings))
	return result
}

// enrich mutates one item in place: extract, summarize, narrate, upload.
// Each step degrades independently; a missing summary just means a minimal
// item, and a present summary always triggers a synthesis attempt.
func (p *Pipeline) enrich(ctx context.Context, item *domain.Item) {
	content := domain.Unavailable
	if p.extractor != nil {
		content = p.extractor.Extract(ctx, item.URL)
	}

	if p.summarizer == nil {
		return
	}

	summary, err := p.summarizer.Summarize(ctx, item.Title, content)
	if err != nil || summary == "" || summary == domain.Unavailable {
		p.warn("summarization failed", "item", item.ID, "error", err)
		return
	}
	item.Summary = summary

	if p.assembler == nil || p.objects == nil {
		return
	}

	track, err := p.assembler.NarrateText(ctx, item.Summary)
	if err != nil {
		p.warn("item narration failed", "item", item.ID, "error", err)
		return
	}

	url, err := p.objects.Put(ctx, audioKey(item.Date, item.ID), track, "audio/mpeg")
	if err != nil {
		p.warn("item audio upload failed", "item", item.ID, "error", err)
		return
	}
	item.AudioURL = url
}

// assembleCombined builds and uploads the daily track. Zero produced
// buffers abandons the track and surfaces a warning in the result.
func (p *Pipeline) assembleCombined(ctx context.Context, date string, items []domain.Item, result *domain.RunResult) string {
	if p.assembler == nil || p.objects == nil {
		return ""
	}

	track, err := p.assembler.CombinedTrack(ctx, date, items)
	if err != nil {
		p.warnResult(result, "combined track skipped: no audio synthesized")
		return ""
	}

	key := fmt.Sprintf("audio/%s/daily-digest.mp3", date)
	var url string
	err = retry.Do(ctx, retry.Default(), func() error {
		var putErr error
		url, putErr = p.objects.Put(ctx, key, track, "audio/mpeg")
		return putErr
	})
	if err != nil {
		p.warnResult(result, "combined track upload failed: "+err.Error())
		return ""
	}

	return url
}

// persist writes items and the digest record. Persistence failures are
// logged and surfaced as warnings; the email is still attempted.
func (p *Pipeline) persist(ctx context.Context, items []domain.Item, rec domain.DigestRecord, result *domain.RunResult) {
	if p.store == nil {
		return
	}

	if err := p.store.SaveItems(ctx, items); err != nil {
		p.warnResult(result, "persist items failed: "+err.Error())
	}
	if err := p.store.SaveDigest(ctx, rec); err != nil {
		p.warnResult(result, "persist digest failed: "+err.Error())
	}
}

func (p *Pipeline) renderAndSend(ctx context.Context, date string, items []domain.Item, combinedURL string, result *domain.RunResult) bool {
	if p.mailer == nil {
		return false
	}

	htmlBody, textBodyStr, err := render.Digest(date, items, combinedURL)
	if err != nil {
		p.warnResult(result, "render digest failed: "+err.Error())
		return false
	}

	msg := ports.EmailMessage{
		From:    p.email.From,
		To:      p.email.To,
		Subject: fmt.Sprintf("%s - %s", p.email.SubjectPrefix, date),
		HTML:    htmlBody,
		Text:    textBodyStr,
	}

	if err := retry.Do(ctx, retry.Default(), func() error {
		return p.mailer.Send(ctx, msg)
	}); err != nil {
		p.warnResult(result, "email delivery failed: "+err.Error())
		return false
	}

	return true
}

func audioKey(date, id string) string {
	return fmt.Sprintf("audio/%s/%s.mp3", date, id)
}

func (p *Pipeline) warnResult(result *domain.RunResult, msg string) {
	result.Warnings = append(result.Warnings, msg)
	p.warn(msg)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
