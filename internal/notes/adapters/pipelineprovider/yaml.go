package pipelineprovider

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/izzddalfk/fabnotes/internal/notes/core"
	"gopkg.in/yaml.v3"
)

// YAMLProvider serves pipeline settings from a YAML file. The file is re-read
// on every call so prompts and prices can be edited without a restart.
type YAMLProvider struct {
	configPath string
	logger     *slog.Logger

	mutex    sync.Mutex
	settings *core.PipelineSettings
}

// pipelineFile is the on-disk layout of the settings file
type pipelineFile struct {
	Pipeline core.PipelineSettings `yaml:"pipeline"`
}

// NewYAMLProvider loads the settings file, creating it with defaults if it
// doesn't exist. An empty path serves the built-in defaults only.
func NewYAMLProvider(configPath string, logger *slog.Logger) (*YAMLProvider, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	defaults := core.DefaultPipelineSettings()
	p := &YAMLProvider{
		configPath: configPath,
		logger:     logger,
		settings:   &defaults,
	}

	if configPath == "" {
		logger.InfoContext(context.Background(), "No pipeline config path set, using defaults")
		return p, nil
	}

	if err := p.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load pipeline config: %w", err)
		}

		logger.InfoContext(context.Background(), "Pipeline config not found, creating default",
			"config_path", configPath,
		)
		if err := p.save(defaults); err != nil {
			return nil, fmt.Errorf("failed to create default pipeline config: %w", err)
		}
	}

	logger.InfoContext(context.Background(), "Pipeline provider initialized",
		"config_path", configPath,
		"chat_model", p.settings.ChatModel,
		"target_language", p.settings.TargetLanguage,
	)

	return p, nil
}

// GetPipelineSettings returns the current pipeline settings
func (p *YAMLProvider) GetPipelineSettings(ctx context.Context) (*core.PipelineSettings, error) {
	if p.configPath != "" {
		if err := p.load(); err != nil {
			p.logger.WarnContext(ctx, "Failed to reload pipeline config, using cached version",
				"config_path", p.configPath,
				"error", err.Error(),
			)
		}
	}

	p.mutex.Lock()
	settings := *p.settings
	p.mutex.Unlock()

	return &settings, nil
}

// ConfigPath returns the settings file path, empty when running on defaults
func (p *YAMLProvider) ConfigPath() string {
	return p.configPath
}

func (p *YAMLProvider) load() error {
	data, err := os.ReadFile(p.configPath)
	if err != nil {
		return err
	}

	settings := core.DefaultPipelineSettings()

	// an empty file keeps the defaults
	if len(strings.TrimSpace(string(data))) > 0 {
		var file pipelineFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse pipeline YAML: %w", err)
		}
		settings = mergeDefaults(file.Pipeline)
	}

	if err := core.ValidatePipelineSettings(settings); err != nil {
		return fmt.Errorf("invalid pipeline config: %w", err)
	}

	p.mutex.Lock()
	p.settings = &settings
	p.mutex.Unlock()

	return nil
}

func (p *YAMLProvider) save(settings core.PipelineSettings) error {
	if err := os.MkdirAll(filepath.Dir(p.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(pipelineFile{Pipeline: settings})
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline config: %w", err)
	}

	return os.WriteFile(p.configPath, data, 0644)
}

// mergeDefaults fills fields left out of the file. A missing pricing block gets
// the default prices.
func mergeDefaults(s core.PipelineSettings) core.PipelineSettings {
	d := core.DefaultPipelineSettings()

	if s.TranscriptionModel == "" {
		s.TranscriptionModel = d.TranscriptionModel
	}
	if s.ChatModel == "" {
		s.ChatModel = d.ChatModel
	}
	if s.TargetLanguage == "" {
		s.TargetLanguage = d.TargetLanguage
	}
	if s.TranslatePrompt == "" {
		s.TranslatePrompt = d.TranslatePrompt
	}
	if s.SummarizePrompt == "" {
		s.SummarizePrompt = d.SummarizePrompt
	}
	if s.Pricing == (core.Pricing{}) {
		s.Pricing = d.Pricing
	}
	if s.Pricing.BytesPerMinute == 0 {
		s.Pricing.BytesPerMinute = d.Pricing.BytesPerMinute
	}

	return s
}
