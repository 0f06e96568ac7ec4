// internal/notes/core/validators.go
package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Recording validation

// ValidateRecordingInput validates an uploaded recording before it is stored
func ValidateRecordingInput(input RecordingInput) error {
	if input.Content == nil {
		return ErrMissingAudio
	}

	name := strings.TrimSpace(input.Filename)
	if name == "" {
		return NewValidationError("filename", "audio filename cannot be empty")
	}

	if strings.Contains(name, "\x00") {
		return NewValidationError("filename", "null bytes not allowed in filename")
	}

	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return NewValidationError("filename", fmt.Sprintf("invalid audio filename: %s", input.Filename))
	}

	return nil
}

// Pipeline validation

// ValidatePipelineSettings validates models, prompts and prices of the pipeline
func ValidatePipelineSettings(settings PipelineSettings) error {
	if settings.TranscriptionModel == "" {
		return NewValidationError("transcription_model", "transcription model cannot be empty")
	}

	if settings.ChatModel == "" {
		return NewValidationError("chat_model", "chat model cannot be empty")
	}

	if settings.TargetLanguage == "" {
		return NewValidationError("target_language", "target language cannot be empty")
	}

	if settings.TranslatePrompt == "" {
		return NewValidationError("translate_prompt", "translate prompt cannot be empty")
	}

	if settings.SummarizePrompt == "" {
		return NewValidationError("summarize_prompt", "summarize prompt cannot be empty")
	}

	return ValidatePricing(settings.Pricing)
}

// ValidatePricing validates the cost estimation constants
func ValidatePricing(pricing Pricing) error {
	if pricing.WhisperPerMinute < 0 {
		return NewValidationError("whisper_per_minute", "price cannot be negative")
	}

	if pricing.ChatPer1KTokens < 0 {
		return NewValidationError("chat_per_1k_tokens", "price cannot be negative")
	}

	if pricing.BytesPerMinute <= 0 {
		return NewValidationError("bytes_per_minute", "bytes per minute must be positive")
	}

	return nil
}

// RenderPrompt fills the target language into a prompt template.
// Templates without a verb are returned unchanged.
func RenderPrompt(template, language string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, language)
}
