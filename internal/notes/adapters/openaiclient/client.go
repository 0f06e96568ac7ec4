package openaiclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/izzddalfk/fabnotes/internal/notes/core"
	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/validator.v2"
)

// Client talks to the OpenAI speech-to-text and chat completion APIs.
// It implements both core.SpeechTranscriber and core.TextGenerator.
type Client struct {
	cli     *openai.Client
	timeout time.Duration
	logger  *slog.Logger
}

type ClientConfig struct {
	APIKey  string `validate:"nonzero"`
	BaseURL string
	// Timeout bounds each API call; zero leaves only the caller's context
	Timeout time.Duration
	Logger  *slog.Logger `validate:"nonnil"`
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid openai client configuration: %w", err)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		cli:     openai.NewClientWithConfig(clientConfig),
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Transcribe uploads the audio file and returns its transcript
func (c *Client) Transcribe(ctx context.Context, model, audioPath string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	resp, err := c.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioPath,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Speech-to-text request failed",
			"model", model,
			"error", err.Error(),
		)
		return "", fmt.Errorf("speech-to-text request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("empty transcription result: %w", core.ErrEmptyResponse)
	}

	c.logger.DebugContext(ctx, "Audio transcribed",
		"model", model,
		"chars", len(text),
		"duration", time.Since(started),
	)

	return text, nil
}

// Complete sends the system prompt and user content as one chat completion
func (c *Client) Complete(ctx context.Context, input core.CompletionInput) (*core.Completion, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: input.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: input.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input.UserContent,
			},
		},
	}

	resp, err := c.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Chat completion request failed",
			"model", input.Model,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion has no choices: %w", core.ErrEmptyResponse)
	}

	c.logger.DebugContext(ctx, "Chat completion received",
		"model", input.Model,
		"total_tokens", resp.Usage.TotalTokens,
	)

	return &core.Completion{
		Text:        strings.TrimSpace(resp.Choices[0].Message.Content),
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
