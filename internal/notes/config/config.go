package config

import (
	"fmt"
	"time"

	"github.com/gosidekick/goconfig"
)

type Configs struct {
	ApplicationConfig ApplicationConfig
	ServerConfig      ServerConfig
}

type ApplicationConfig struct {
	LogLevel      string `cfg:"log_level" cfgDefault:"info"`
	OpenAIAPIKey  string `cfg:"openai_api_key" cfgRequired:"true"`
	OpenAIBaseURL string `cfg:"openai_base_url"`

	TranscriptsDir     string `cfg:"transcripts_dir" cfgDefault:"transcripts"`
	TranscriptFile     string `cfg:"transcript_file" cfgDefault:"transcriptions.txt"`
	TempDir            string `cfg:"temp_dir"`
	PipelineConfigPath string `cfg:"pipeline_config_path"`
	UsageDBPath        string `cfg:"usage_db_path" cfgDefault:"data/usage.db"`

	RecordRateLimitPerMinute int `cfg:"record_rate_limit_per_minute" cfgDefault:"6"`
	ExternalTimeoutSeconds   int `cfg:"external_timeout_seconds" cfgDefault:"300"`
}

// ExternalTimeout bounds every speech or chat call, zero disables it
func (c ApplicationConfig) ExternalTimeout() time.Duration {
	if c.ExternalTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ExternalTimeoutSeconds) * time.Second
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port                int `cfg:"port" cfgDefault:"8000"`
	ReadTimeoutSeconds  int `cfg:"read_timeout_seconds" cfgDefault:"60"`
	WriteTimeoutSeconds int `cfg:"write_timeout_seconds" cfgDefault:"600"`
}

func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout has to cover the whole /record/ pipeline
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables
// and do validations to them
func LoadConfig() (*Configs, error) {
	var (
		appCfg    ApplicationConfig
		serverCfg ServerConfig
	)
	err := goconfig.Parse(&appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse application config: %w", err)
	}
	err = goconfig.Parse(&serverCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	cfgs := &Configs{
		ApplicationConfig: appCfg,
		ServerConfig:      serverCfg,
	}
	if err := cfgs.Validate(); err != nil {
		return nil, err
	}

	return cfgs, nil
}

// Validate checks values goconfig cannot express with tags
func (c *Configs) Validate() error {
	if c.ServerConfig.Port <= 0 || c.ServerConfig.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.ServerConfig.Port)
	}
	if c.ApplicationConfig.RecordRateLimitPerMinute <= 0 {
		return fmt.Errorf("record rate limit must be positive, got %d", c.ApplicationConfig.RecordRateLimitPerMinute)
	}
	if c.ApplicationConfig.TranscriptsDir == "" || c.ApplicationConfig.TranscriptFile == "" {
		return fmt.Errorf("transcripts directory and file name are required")
	}
	return nil
}
