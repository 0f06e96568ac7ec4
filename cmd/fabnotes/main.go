// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/izzddalfk/fabnotes/internal/notes/adapters/audiostore"
	"github.com/izzddalfk/fabnotes/internal/notes/adapters/openaiclient"
	"github.com/izzddalfk/fabnotes/internal/notes/adapters/pipelineprovider"
	"github.com/izzddalfk/fabnotes/internal/notes/adapters/ratelimiter"
	"github.com/izzddalfk/fabnotes/internal/notes/adapters/transcriptlog"
	"github.com/izzddalfk/fabnotes/internal/notes/adapters/usageledger"
	"github.com/izzddalfk/fabnotes/internal/notes/config"
	"github.com/izzddalfk/fabnotes/internal/notes/core"
	"github.com/izzddalfk/fabnotes/internal/notes/presentation/rest"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := setupLogger(cfg.ApplicationConfig.LogLevel)

	deps, err := initializeDependencies(cfg.ApplicationConfig, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Cleanup()

	notesService, err := core.NewService(deps.ServiceConfig)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create notes service", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	server, err := rest.NewServer(rest.ServerConfig{
		NotesService:  notesService,
		Logger:        logger,
		Port:          fmt.Sprintf(":%d", cfg.ServerConfig.Port),
		ReadTimeout:   cfg.ServerConfig.ReadTimeout(),
		WriteTimeout:  cfg.ServerConfig.WriteTimeout(),
		RecordLimiter: deps.RateLimiter,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create HTTP server", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Starting "+core.AppName,
		"version", core.AppVersion,
		"port", cfg.ServerConfig.Port,
	)

	if err := server.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Server error", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Application shutdown completed")
}

// Dependencies holds all initialized dependencies
type Dependencies struct {
	ServiceConfig core.ServiceConfig
	RateLimiter   *ratelimiter.RateLimiter
	UsageLedger   *usageledger.SQLiteLedger
}

// Cleanup releases resources that need explicit closing
func (d *Dependencies) Cleanup() {
	d.RateLimiter.Close()
	d.UsageLedger.Close()
}

// setupLogger creates and configures the logger
func setupLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Use JSON handler
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	return logger
}

// initializeDependencies initializes all adapters of the notes service
func initializeDependencies(cfg config.ApplicationConfig, logger *slog.Logger) (*Dependencies, error) {
	transcriptsDir, err := filepath.Abs(cfg.TranscriptsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transcripts directory: %w", err)
	}

	transcriptLog, err := transcriptlog.NewFileLog(transcriptlog.Config{
		Dir:      transcriptsDir,
		FileName: cfg.TranscriptFile,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize transcript log: %w", err)
	}

	openAI, err := openaiclient.NewClient(openaiclient.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.ExternalTimeout(),
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	audioStore, err := audiostore.NewLocalStore(audiostore.Config{
		Dir:    cfg.TempDir,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio store: %w", err)
	}

	pipeline, err := pipelineprovider.NewYAMLProvider(cfg.PipelineConfigPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pipeline provider: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.UsageDBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create usage database directory: %w", err)
	}
	ledger, err := usageledger.NewSQLiteLedger(cfg.UsageDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize usage ledger: %w", err)
	}

	return &Dependencies{
		ServiceConfig: core.ServiceConfig{
			TranscriptLog: transcriptLog,
			Transcriber:   openAI,
			Generator:     openAI,
			AudioStore:    audioStore,
			Pipeline:      pipeline,
			UsageLedger:   ledger,
			Logger:        logger,
		},
		RateLimiter: ratelimiter.NewRateLimiter(cfg.RecordRateLimitPerMinute, logger),
		UsageLedger: ledger,
	}, nil
}
