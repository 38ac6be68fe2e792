package audio

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JKevinXu/NewsAgent/internal/domain"
)

// fakeSynth returns the input wrapped in brackets so concatenation order is
// visible in the output, and fails for any text listed in failOn.
type fakeSynth struct {
	ceiling int
	failOn  []string
	failAll bool
	calls   []string
}

func (f *fakeSynth) MaxInputLength() int { return f.ceiling }

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.calls = append(f.calls, text)
	if f.failAll {
		return nil, fmt.Errorf("synthesis down")
	}
	for _, frag := range f.failOn {
		if strings.Contains(text, frag) {
			return nil, fmt.Errorf("synthesis failed for %q", frag)
		}
	}
	return []byte("[" + text + "]"), nil
}

func item(id, title, summary string) domain.Item {
	return domain.Item{ID: id, Title: title, Summary: summary}
}

func TestCombinedTrackOrder(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{ceiling: 500}
	asm := NewAssembler(synth, nil)

	items := []domain.Item{
		item("1", "Alpha", "Summary of alpha."),
		item("2", "Beta", "Summary of beta."),
		item("3", "Gamma", "Summary of gamma."),
	}

	track, err := asm.CombinedTrack(context.Background(), "2026-08-29", items)
	require.NoError(t, err)

	want := "[Good morning! Here is your tech digest for 2026-08-29.]" +
		"[Alpha.][Summary of alpha.][Next story.]" +
		"[Beta.][Summary of beta.][Next story.]" +
		"[Gamma.][Summary of gamma.]" +
		"[That is all for today. See you tomorrow!]"
	assert.Equal(t, want, string(track), "narration order must be intro, title, chunks, transition (none after last), outro")
}

func TestCombinedTrackSkipsFailedCalls(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{ceiling: 500, failOn: []string{"Beta"}}
	asm := NewAssembler(synth, nil)

	items := []domain.Item{
		item("1", "Alpha", "Summary of alpha."),
		item("2", "Beta", "Summary of beta."),
	}

	track, err := asm.CombinedTrack(context.Background(), "2026-08-29", items)
	require.NoError(t, err)
	assert.NotContains(t, string(track), "Beta.")
	assert.Contains(t, string(track), "[Summary of beta.]")
	assert.Contains(t, string(track), "[Alpha.]")
}

func TestCombinedTrackAllCallsFail(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{ceiling: 500, failAll: true}
	asm := NewAssembler(synth, nil)

	items := []domain.Item{item("1", "Alpha", "Summary of alpha.")}

	_, err := asm.CombinedTrack(context.Background(), "2026-08-29", items)
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestCombinedTrackNoSummaries(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{ceiling: 500}
	asm := NewAssembler(synth, nil)

	items := []domain.Item{
		item("1", "Alpha", ""),
		item("2", "Beta", domain.Unavailable),
	}

	_, err := asm.CombinedTrack(context.Background(), "2026-08-29", items)
	assert.ErrorIs(t, err, ErrNoAudio)
	assert.Empty(t, synth.calls, "nothing to narrate means no synthesis calls")
}

func TestNarrateTextChunksLongSummaries(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{ceiling: 40}
	asm := NewAssembler(synth, nil)

	text := "First sentence right here. Second sentence right here. Third sentence right here."
	track, err := asm.NarrateText(context.Background(), text)
	require.NoError(t, err)

	require.Greater(t, len(synth.calls), 1)
	for _, call := range synth.calls {
		assert.LessOrEqual(t, len(call), 40)
	}
	assert.Equal(t, strings.Count(string(track), "["), len(synth.calls))
}

func TestNarrateTextAllFail(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{ceiling: 40, failAll: true}
	asm := NewAssembler(synth, nil)

	_, err := asm.NarrateText(context.Background(), "Something short.")
	assert.ErrorIs(t, err, ErrNoAudio)
}
