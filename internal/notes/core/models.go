package core

import (
	"io"
	"time"
)

// Record is one timestamped entry of the transcript log
type Record struct {
	Timestamp    time.Time `json:"timestamp"`
	OriginalText string    `json:"original_text"`
	SummaryText  string    `json:"summary_text"`
}

// TranscriptionData is the finalized (transcript, summary) pair posted by the client
type TranscriptionData struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}

// AppendResult reports where a record was written
type AppendResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// RecordingInput carries an uploaded audio recording into the pipeline
type RecordingInput struct {
	Filename string
	Content  io.Reader
}

// StoredAudio is a recording persisted to local disk for the duration of one request
type StoredAudio struct {
	Path string
	Size int64
}

// TokensUsed holds the total token count of each chat completion call
type TokensUsed struct {
	Translation int `json:"translation"`
	Summary     int `json:"summary"`
}

// CostEstimate is the estimated price of each pipeline step in USD
type CostEstimate struct {
	Whisper     float64 `json:"whisper"`
	Translation float64 `json:"translation"`
	Summary     float64 `json:"summary"`
	Total       float64 `json:"total"`
}

// ProcessingResult is returned after transcribing, translating and summarizing a recording
type ProcessingResult struct {
	Message      string       `json:"message"`
	Transcript   string       `json:"transcript"`
	Summary      string       `json:"summary"`
	TokensUsed   TokensUsed   `json:"tokens_used"`
	CostEstimate CostEstimate `json:"cost_estimate"`
}

// CompletionInput is a system/user message pair sent to a chat model
type CompletionInput struct {
	Model        string
	SystemPrompt string
	UserContent  string
}

// Completion is the generated text of a chat model plus its token usage
type Completion struct {
	Text        string
	TotalTokens int
}

// Pricing holds the fixed per-unit price constants used for cost estimation
type Pricing struct {
	WhisperPerMinute float64 `yaml:"whisper_per_minute" json:"whisper_per_minute"`
	ChatPer1KTokens  float64 `yaml:"chat_per_1k_tokens" json:"chat_per_1k_tokens"`
	// BytesPerMinute approximates audio duration from file size (16kHz 16-bit mono WAV)
	BytesPerMinute   float64 `yaml:"bytes_per_minute" json:"bytes_per_minute"`
}

// PipelineSettings configures the models and prompts of the processing pipeline
type PipelineSettings struct {
	TranscriptionModel string  `yaml:"transcription_model"`
	ChatModel          string  `yaml:"chat_model"`
	TargetLanguage     string  `yaml:"target_language"`
	TranslatePrompt    string  `yaml:"translate_prompt"`
	SummarizePrompt    string  `yaml:"summarize_prompt"`
	Pricing            Pricing `yaml:"pricing"`
}

// UsageRecord is one processing run as kept in the usage ledger
type UsageRecord struct {
	ID                string    `json:"id"`
	Filename          string    `json:"filename"`
	AudioBytes        int64     `json:"audio_bytes"`
	TranslationTokens int       `json:"translation_tokens"`
	SummaryTokens     int       `json:"summary_tokens"`
	WhisperCost       float64   `json:"whisper_cost"`
	TranslationCost   float64   `json:"translation_cost"`
	SummaryCost       float64   `json:"summary_cost"`
	TotalCost         float64   `json:"total_cost"`
	CreatedAt         time.Time `json:"created_at"`
}

// UsageSummary aggregates the usage ledger
type UsageSummary struct {
	Runs              int64      `json:"runs"`
	TranslationTokens int64      `json:"translation_tokens"`
	SummaryTokens     int64      `json:"summary_tokens"`
	TotalCost         float64    `json:"total_cost"`
	LastRunAt         *time.Time `json:"last_run_at,omitempty"`
}
