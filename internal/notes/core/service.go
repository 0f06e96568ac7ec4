// internal/notes/core/service.go
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/validator.v2"
)

// Service implements the NotesService interface
type Service struct {
	transcriptLog TranscriptLog
	transcriber   SpeechTranscriber
	generator     TextGenerator
	audioStore    AudioStore
	pipeline      PipelineProvider
	usageLedger   UsageLedger
	logger        *slog.Logger
	clock         Clock
}

// ServiceConfig holds every dependency of the notes service
type ServiceConfig struct {
	TranscriptLog TranscriptLog     `validate:"nonnil"`
	Transcriber   SpeechTranscriber `validate:"nonnil"`
	Generator     TextGenerator     `validate:"nonnil"`
	AudioStore    AudioStore        `validate:"nonnil"`
	Pipeline      PipelineProvider  `validate:"nonnil"`
	UsageLedger   UsageLedger       `validate:"nonnil"`
	Logger        *slog.Logger      `validate:"nonnil"`
	Clock         Clock
}

// NewService creates a new notes service with all dependencies
func NewService(config ServiceConfig) (*Service, error) {
	if err := validator.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid service configuration: %w", err)
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		transcriptLog: config.TranscriptLog,
		transcriber:   config.Transcriber,
		generator:     config.Generator,
		audioStore:    config.AudioStore,
		pipeline:      config.Pipeline,
		usageLedger:   config.UsageLedger,
		logger:        config.Logger,
		clock:         clock,
	}, nil
}

// ProcessRecording stores the upload, transcribes it, then translates and summarizes
// the transcript. Any failing step aborts the whole run.
func (s *Service) ProcessRecording(ctx context.Context, input RecordingInput) (*ProcessingResult, error) {
	if err := ValidateRecordingInput(input); err != nil {
		return nil, err
	}

	settings, err := s.pipeline.GetPipelineSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline settings: %w", err)
	}

	audio, err := s.audioStore.Save(ctx, input.Filename, input.Content)
	if err != nil {
		return nil, NewStorageError("failed to store uploaded audio", err)
	}
	defer s.releaseAudio(ctx, audio)

	s.logger.InfoContext(ctx, "Processing recording",
		"filename", input.Filename,
		"size", audio.Size,
	)

	transcript, err := s.transcriber.Transcribe(ctx, settings.TranscriptionModel, audio.Path)
	if err != nil {
		return nil, NewExternalServiceError("transcription failed", err)
	}
	whisperCost := EstimateTranscriptionCost(audio.Size, settings.Pricing)

	translation, err := s.generator.Complete(ctx, CompletionInput{
		Model:        settings.ChatModel,
		SystemPrompt: RenderPrompt(settings.TranslatePrompt, settings.TargetLanguage),
		UserContent:  transcript,
	})
	if err != nil {
		return nil, NewExternalServiceError("translation failed", err)
	}
	translationCost := EstimateChatCost(translation.TotalTokens, settings.Pricing)

	summary, err := s.generator.Complete(ctx, CompletionInput{
		Model:        settings.ChatModel,
		SystemPrompt: RenderPrompt(settings.SummarizePrompt, settings.TargetLanguage),
		UserContent:  translation.Text,
	})
	if err != nil {
		return nil, NewExternalServiceError("summarization failed", err)
	}
	summaryCost := EstimateChatCost(summary.TotalTokens, settings.Pricing)

	result := &ProcessingResult{
		Message:    MessageProcessingComplete,
		Transcript: translation.Text,
		Summary:    summary.Text,
		TokensUsed: TokensUsed{
			Translation: translation.TotalTokens,
			Summary:     summary.TotalTokens,
		},
		CostEstimate: NewCostEstimate(whisperCost, translationCost, summaryCost),
	}

	s.recordUsage(ctx, input.Filename, audio.Size, result)

	s.logger.InfoContext(ctx, "Recording processed",
		"filename", input.Filename,
		"translation_tokens", translation.TotalTokens,
		"summary_tokens", summary.TotalTokens,
		"total_cost", result.CostEstimate.Total,
	)

	return result, nil
}

// AppendTranscription appends a finalized pair to the transcript log
func (s *Service) AppendTranscription(ctx context.Context, data TranscriptionData) (*AppendResult, error) {
	path, err := s.transcriptLog.Append(ctx, data.Transcript, data.Summary)
	if err != nil {
		return nil, NewStorageError("failed to append transcription", err)
	}

	return &AppendResult{
		Message:  MessageTranscriptAppended,
		Filename: path,
	}, nil
}

// ListDates returns the distinct log dates sorted in the requested order.
// A log that does not exist yet has no dates.
func (s *Service) ListDates(ctx context.Context, order SortOrder) ([]string, error) {
	dates, err := s.transcriptLog.Dates(ctx)
	if err != nil {
		if errors.Is(err, ErrLogNotFound) {
			return []string{}, nil
		}
		return nil, NewStorageError("failed to list transcription dates", err)
	}

	unique := make(map[string]struct{}, len(dates))
	sorted := make([]string, 0, len(dates))
	for _, date := range dates {
		if _, seen := unique[date]; seen {
			continue
		}
		unique[date] = struct{}{}
		sorted = append(sorted, date)
	}

	if order == SortDescending {
		sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
	} else {
		sort.Strings(sorted)
	}

	return sorted, nil
}

// SummariesByDate returns the summaries recorded under a date, or a single
// placeholder message when there are none
func (s *Service) SummariesByDate(ctx context.Context, date string) ([]string, error) {
	summaries, err := s.transcriptLog.Summaries(ctx, date)
	if err != nil {
		if errors.Is(err, ErrLogNotFound) {
			return []string{MessageNoTranscriptionsYet}, nil
		}
		return nil, NewStorageError("failed to read summaries", err)
	}

	if len(summaries) == 0 {
		return []string{MessageNoSummariesForDate}, nil
	}

	return summaries, nil
}

// UsageSummary aggregates the usage ledger
func (s *Service) UsageSummary(ctx context.Context) (*UsageSummary, error) {
	summary, err := s.usageLedger.GetUsageSummary(ctx)
	if err != nil {
		return nil, NewStorageError("failed to read usage summary", err)
	}
	return summary, nil
}

// releaseAudio removes the temporary recording on every exit path
func (s *Service) releaseAudio(ctx context.Context, audio *StoredAudio) {
	if err := s.audioStore.Remove(context.WithoutCancel(ctx), audio); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove temporary audio",
			"path", audio.Path,
			"error", err.Error(),
		)
	}
}

// recordUsage stores the run in the ledger. Failures are logged only.
func (s *Service) recordUsage(ctx context.Context, filename string, size int64, result *ProcessingResult) {
	record := UsageRecord{
		ID:                uuid.NewString(),
		Filename:          filename,
		AudioBytes:        size,
		TranslationTokens: result.TokensUsed.Translation,
		SummaryTokens:     result.TokensUsed.Summary,
		WhisperCost:       result.CostEstimate.Whisper,
		TranslationCost:   result.CostEstimate.Translation,
		SummaryCost:       result.CostEstimate.Summary,
		TotalCost:         result.CostEstimate.Total,
		CreatedAt:         s.clock(),
	}

	if err := s.usageLedger.RecordUsage(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "Failed to record usage",
			"usage_id", record.ID,
			"error", err.Error(),
		)
	}
}
