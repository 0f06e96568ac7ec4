package usageledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/izzddalfk/fabnotes/internal/notes/core"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLedger keeps one row per processed recording
type SQLiteLedger struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteLedger opens the ledger database and creates the schema
func NewSQLiteLedger(dbPath string, logger *slog.Logger) (*SQLiteLedger, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	ledger := &SQLiteLedger{
		db:     db,
		logger: logger,
	}

	if err := ledger.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize usage schema: %w", err)
	}

	logger.InfoContext(context.Background(), "Usage ledger initialized",
		"db_path", dbPath,
	)

	return ledger, nil
}

// Close closes the database connection
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// RecordUsage stores the token counts and cost estimate of one run
func (l *SQLiteLedger) RecordUsage(ctx context.Context, record core.UsageRecord) error {
	if record.ID == "" {
		return core.NewValidationError("id", "usage record id cannot be empty")
	}

	l.logger.DebugContext(ctx, "Recording usage",
		"id", record.ID,
		"filename", record.Filename,
		"total_cost", record.TotalCost,
	)

	query := `
		INSERT INTO usage_records (
			id, filename, audio_bytes, translation_tokens, summary_tokens,
			whisper_cost, translation_cost, summary_cost, total_cost, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := l.db.ExecContext(ctx, query,
		record.ID,
		record.Filename,
		record.AudioBytes,
		record.TranslationTokens,
		record.SummaryTokens,
		record.WhisperCost,
		record.TranslationCost,
		record.SummaryCost,
		record.TotalCost,
		record.CreatedAt.UTC(),
	)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to record usage",
			"id", record.ID,
			"error", err.Error(),
		)
		return fmt.Errorf("failed to record usage: %w", err)
	}

	return nil
}

// GetUsageSummary aggregates every recorded run
func (l *SQLiteLedger) GetUsageSummary(ctx context.Context) (*core.UsageSummary, error) {
	summary := &core.UsageSummary{}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(translation_tokens), 0),
			COALESCE(SUM(summary_tokens), 0),
			COALESCE(SUM(total_cost), 0)
		FROM usage_records
	`

	err := l.db.QueryRowContext(ctx, query).Scan(
		&summary.Runs,
		&summary.TranslationTokens,
		&summary.SummaryTokens,
		&summary.TotalCost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage: %w", err)
	}

	var lastRun time.Time
	err = l.db.QueryRowContext(ctx,
		`SELECT created_at FROM usage_records ORDER BY created_at DESC LIMIT 1`,
	).Scan(&lastRun)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to read last run: %w", err)
	default:
		summary.LastRunAt = &lastRun
	}

	l.logger.DebugContext(ctx, "Usage summary computed",
		"runs", summary.Runs,
		"total_cost", summary.TotalCost,
	)

	return summary, nil
}

// initSchema initializes the database schema
func (l *SQLiteLedger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_records (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		audio_bytes INTEGER NOT NULL,
		translation_tokens INTEGER NOT NULL,
		summary_tokens INTEGER NOT NULL,
		whisper_cost REAL NOT NULL,
		translation_cost REAL NOT NULL,
		summary_cost REAL NOT NULL,
		total_cost REAL NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_usage_created_at ON usage_records(created_at);
	`

	_, err := l.db.Exec(schema)
	return err
}
