// internal/notes/core/constants.go
package core

import (
	"strings"
	"time"
)

// Application constants
const (
	// Application info
	AppName    = "FabNotes"
	AppVersion = "1.0.0"

	// Default configurations
	DefaultExternalTimeout = 5 * time.Minute
	DefaultRateLimit       = 6 // recordings per minute per client
)

// Log file format
const (
	TimestampLabel  = "Timestamp: "
	OriginalLabel   = "ORIG :"
	SummaryLabel    = "SUMM :"
	SeparatorLength = 50

	// TimestampLayout renders the local time with second precision
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"

	DefaultTranscriptsDir = "transcripts"
	DefaultTranscriptFile = "transcriptions.txt"
)

// Separator is the literal line written before every record
var Separator = strings.Repeat("=", SeparatorLength)

// Response messages
const (
	MessageProcessingComplete  = "Processing complete"
	MessageTranscriptAppended  = "Transcription appended"
	MessageNoSummariesForDate  = "No summaries found for this date."
	MessageNoTranscriptionsYet = "No transcriptions available."
)

// Pipeline defaults
const (
	DefaultTranscriptionModel = "whisper-1"
	DefaultChatModel          = "gpt-4"
	DefaultTargetLanguage     = "Italian"

	// Prompt templates receive the target language
	DefaultTranslatePrompt = "Translate the following text to %s, ensuring accurate transcription."
	DefaultSummarizePrompt = "Summarize the following transcript in %s."
)

// Cost estimation defaults
const (
	WhisperCostPerMinute = 0.006 // approx cost per minute for Whisper API
	GPT4CostPer1KTokens  = 0.03  // approx cost per 1K tokens for GPT-4
	WAVBytesPerMinute    = 16000 * 60 * 2
)

// DefaultPricing returns the built-in price constants
func DefaultPricing() Pricing {
	return Pricing{
		WhisperPerMinute: WhisperCostPerMinute,
		ChatPer1KTokens:  GPT4CostPer1KTokens,
		BytesPerMinute:   WAVBytesPerMinute,
	}
}

// DefaultPipelineSettings returns the pipeline used when no settings file is configured
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		TranscriptionModel: DefaultTranscriptionModel,
		ChatModel:          DefaultChatModel,
		TargetLanguage:     DefaultTargetLanguage,
		TranslatePrompt:    DefaultTranslatePrompt,
		SummarizePrompt:    DefaultSummarizePrompt,
		Pricing:            DefaultPricing(),
	}
}

// Sort orders for date listings
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)
