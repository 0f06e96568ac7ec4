package transcriptlog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/izzddalfk/fabnotes/internal/notes/core"
	"gopkg.in/validator.v2"
)

// FileLog is the append-only transcript log kept in a single text file.
// Appends are serialized in-process and every record goes out in one write,
// so concurrent requests cannot interleave their lines. Other processes
// writing the same file are not coordinated.
type FileLog struct {
	path   string
	clock  core.Clock
	logger *slog.Logger
	mutex  sync.RWMutex
}

// Config holds configuration for the transcript log
type Config struct {
	Dir      string       `validate:"nonzero"`
	FileName string       `validate:"nonzero"`
	Logger   *slog.Logger `validate:"nonnil"`
	Clock    core.Clock
}

// NewFileLog creates the log directory if needed and returns a log bound to it.
// The file itself is created by the first append.
func NewFileLog(cfg Config) (*FileLog, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid transcript log configuration: %w", err)
	}

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transcripts directory: %w", err)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcripts directory: %w", err)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	l := &FileLog{
		path:   filepath.Join(absDir, cfg.FileName),
		clock:  clock,
		logger: cfg.Logger,
	}

	cfg.Logger.InfoContext(context.Background(), "Transcript log initialized",
		"path", l.path,
	)

	return l, nil
}

// Path returns the absolute path of the log file
func (l *FileLog) Path() string {
	return l.path
}

// Append writes one record stamped with the current local time
func (l *FileLog) Append(ctx context.Context, transcript, summary string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	entry := FormatRecord(core.Record{
		Timestamp:    l.clock(),
		OriginalText: transcript,
		SummaryText:  summary,
	})

	l.mutex.Lock()
	defer l.mutex.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open transcript log: %w", err)
	}

	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		l.logger.ErrorContext(ctx, "Failed to append transcript record",
			"path", l.path,
			"error", err.Error(),
		)
		return "", fmt.Errorf("failed to write transcript record: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close transcript log: %w", err)
	}

	l.logger.DebugContext(ctx, "Transcript record appended",
		"path", l.path,
		"size", len(entry),
	)

	return l.path, nil
}

// Dates returns the distinct dates of every timestamp line, in file order
func (l *FileLog) Dates(ctx context.Context) ([]string, error) {
	var dates []string
	err := l.read(ctx, func(f *os.File) error {
		var err error
		dates, err = ScanDates(ctx, f)
		return err
	})
	return dates, err
}

// Summaries returns the summaries captured under every timestamp matching date
func (l *FileLog) Summaries(ctx context.Context, date string) ([]string, error) {
	var summaries []string
	err := l.read(ctx, func(f *os.File) error {
		var err error
		summaries, err = ScanSummaries(ctx, f, date)
		return err
	})
	return summaries, err
}

// read opens the log for a full scan, mapping a missing file to core.ErrLogNotFound
func (l *FileLog) read(ctx context.Context, scan func(f *os.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.ErrLogNotFound
		}
		return fmt.Errorf("failed to open transcript log: %w", err)
	}
	defer f.Close()

	if err := scan(f); err != nil {
		l.logger.ErrorContext(ctx, "Failed to scan transcript log",
			"path", l.path,
			"error", err.Error(),
		)
		return err
	}

	return nil
}

// FormatRecord serializes a record exactly as it is stored in the log
func FormatRecord(record core.Record) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(core.Separator)
	b.WriteString("\n")
	b.WriteString(core.TimestampLabel)
	b.WriteString(record.Timestamp.Format(core.TimestampLayout))
	b.WriteString("\n")
	b.WriteString(core.OriginalLabel + " " + record.OriginalText + "\n")
	b.WriteString(core.SummaryLabel + " " + record.SummaryText + "\n")
	return b.String()
}
