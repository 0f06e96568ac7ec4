package core

import (
	"context"
	"io"
	"time"
)

// Primary Ports (APIs that drive our application)

// NotesService defines the main business logic interface
type NotesService interface {
	// ProcessRecording transcribes, translates and summarizes an uploaded recording
	ProcessRecording(ctx context.Context, input RecordingInput) (*ProcessingResult, error)

	// AppendTranscription appends a finalized transcript/summary pair to the log
	AppendTranscription(ctx context.Context, data TranscriptionData) (*AppendResult, error)

	// ListDates returns the distinct dates found in the log
	ListDates(ctx context.Context, order SortOrder) ([]string, error)

	// SummariesByDate returns every summary recorded under the given date
	SummariesByDate(ctx context.Context, date string) ([]string, error)

	// UsageSummary aggregates the usage ledger
	UsageSummary(ctx context.Context) (*UsageSummary, error)
}

// Secondary Ports (SPIs that are driven by our application)

// TranscriptLog defines the append-only transcript log
type TranscriptLog interface {
	// Append writes one record and returns the log file path
	Append(ctx context.Context, transcript, summary string) (string, error)

	// Dates returns the distinct timestamp dates of the log, in file order.
	// It returns ErrLogNotFound when the log does not exist yet.
	Dates(ctx context.Context) ([]string, error)

	// Summaries returns the summaries captured under the given date.
	// It returns ErrLogNotFound when the log does not exist yet.
	Summaries(ctx context.Context, date string) ([]string, error)
}

// SpeechTranscriber converts recorded audio into text
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, model, audioPath string) (string, error)
}

// TextGenerator runs a chat completion for a system/user message pair
type TextGenerator interface {
	Complete(ctx context.Context, input CompletionInput) (*Completion, error)
}

// AudioStore keeps uploaded audio on local disk while it is processed
type AudioStore interface {
	// Save persists the content and returns the stored file
	Save(ctx context.Context, filename string, content io.Reader) (*StoredAudio, error)

	// Remove deletes a stored file, ignoring files that are already gone
	Remove(ctx context.Context, audio *StoredAudio) error
}

// PipelineProvider supplies the models, prompts and prices of the pipeline
type PipelineProvider interface {
	GetPipelineSettings(ctx context.Context) (*PipelineSettings, error)
}

// UsageLedger defines interface for recording processing costs
type UsageLedger interface {
	// RecordUsage stores one processing run
	RecordUsage(ctx context.Context, record UsageRecord) error

	// GetUsageSummary aggregates every recorded run
	GetUsageSummary(ctx context.Context) (*UsageSummary, error)
}

// Clock returns the current local time
type Clock func() time.Time
