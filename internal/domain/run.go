package domain

import "time"

// Stage enumerates pipeline run milestones.
type Stage string

const (
	StageFetching            Stage = "FETCHING"
	StageProcessingItems     Stage = "PROCESSING_ITEMS"
	StageAssemblingAudio     Stage = "ASSEMBLING_AUDIO"
	StagePersisting          Stage = "PERSISTING"
	StageRenderingAndSending Stage = "RENDERING_AND_SENDING"
	StageDone                Stage = "DONE"
	StageFailed              Stage = "FAILED"
)

// TriggerKind distinguishes how a run was invoked. It selects the shape of
// the caller-visible response, never pipeline behavior.
type TriggerKind string

const (
	TriggerScheduled TriggerKind = "scheduled"
	TriggerDirect    TriggerKind = "direct"
)

// RunResult is the structured outcome of one pipeline run. A run always
// produces a result; degraded enrichment shows up as minimal items and
// entries in Warnings rather than as an error.
type RunResult struct {
	RunID            string      `json:"runId"`
	Trigger          TriggerKind `json:"trigger"`
	Date             string      `json:"date"`
	Stage            Stage       `json:"stage"`
	ItemCount        int         `json:"itemCount"`
	Items            []Item      `json:"items"`
	EmailSent        bool        `json:"emailSent"`
	CombinedAudioURL string      `json:"combinedAudioUrl,omitempty"`
	Warnings         []string    `json:"warnings,omitempty"`
	Error            string      `json:"error,omitempty"`
	StartedAt        time.Time   `json:"startedAt"`
	FinishedAt       time.Time   `json:"finishedAt"`
}
