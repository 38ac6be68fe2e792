package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

// ErrNoAudio means every synthesis call for a track failed and no byte
// buffer was produced, so there is nothing to store.
var ErrNoAudio = errors.New("no audio buffers produced")

const (
	introTemplate = "Good morning! Here is your tech digest for %s."
	transition    = "Next story."
	outro         = "That is all for today. See you tomorrow!"
)

// Assembler turns text into narrated tracks under the synthesizer's
// per-call input ceiling, preserving narration order through concatenation.
type Assembler struct {
	synth  ports.SpeechSynthesizer
	logger *slog.Logger
}

// NewAssembler wires the speech synthesizer.
func NewAssembler(synth ports.SpeechSynthesizer, log *slog.Logger) *Assembler {
	return &Assembler{synth: synth, logger: log}
}

// NarrateText synthesizes cleaned text as one track: chunk on sentence
// boundaries, synthesize each chunk, concatenate in order. A failed chunk
// is skipped; ErrNoAudio is returned only when every chunk failed.
func (a *Assembler) NarrateText(ctx context.Context, text string) ([]byte, error) {
	var buffers [][]byte
	a.appendChunks(ctx, &buffers, CleanForNarration(text))

	if len(buffers) == 0 {
		return nil, ErrNoAudio
	}
	return bytes.Join(buffers, nil), nil
}

// CombinedTrack builds the daily narration: intro, then per summarized item
// a title line followed by its summary chunks, a transition between items
// (none after the last), and an outro. Buffer order is the narration order
// a listener hears; it is never reordered.
func (a *Assembler) CombinedTrack(ctx context.Context, date string, items []domain.Item) ([]byte, error) {
	var narratable []domain.Item
	for _, item := range items {
		if item.HasSummary() {
			narratable = append(narratable, item)
		}
	}
	if len(narratable) == 0 {
		return nil, ErrNoAudio
	}

	var buffers [][]byte
	a.appendChunks(ctx, &buffers, fmt.Sprintf(introTemplate, date))

	for i, item := range narratable {
		a.appendChunks(ctx, &buffers, CleanForNarration(item.Title)+".")
		a.appendChunks(ctx, &buffers, CleanForNarration(item.Summary))
		if i < len(narratable)-1 {
			a.appendChunks(ctx, &buffers, transition)
		}
	}

	a.appendChunks(ctx, &buffers, outro)

	if len(buffers) == 0 {
		return nil, ErrNoAudio
	}
	return bytes.Join(buffers, nil), nil
}

// appendChunks synthesizes text chunk by chunk, appending each produced
// buffer. A failed call yields no buffer and is skipped.
func (a *Assembler) appendChunks(ctx context.Context, buffers *[][]byte, text string) {
	for _, chunk := range Chunk(text, a.synth.MaxInputLength()) {
		audio, err := a.synth.Synthesize(ctx, chunk)
		if err != nil {
			a.warn("synthesis failed", "chars", len(chunk), "error", err)
			continue
		}
		*buffers = append(*buffers, audio)
	}
}

func (a *Assembler) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
