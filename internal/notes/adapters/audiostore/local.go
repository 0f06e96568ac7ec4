package audiostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/izzddalfk/fabnotes/internal/notes/core"
	"gopkg.in/validator.v2"
)

// LocalStore keeps uploaded recordings in a local temporary directory
type LocalStore struct {
	dir    string
	logger *slog.Logger
}

// Config holds configuration for the local audio store
type Config struct {
	// Dir defaults to the system temp directory
	Dir    string
	Logger *slog.Logger `validate:"nonnil"`
}

// NewLocalStore creates the temp directory if it doesn't exist
func NewLocalStore(cfg Config) (*LocalStore, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid audio store configuration: %w", err)
	}

	dir := cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve audio temp directory: %w", err)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio temp directory: %w", err)
	}

	cfg.Logger.InfoContext(context.Background(), "Audio store initialized",
		"dir", absDir,
	)

	return &LocalStore{
		dir:    absDir,
		logger: cfg.Logger,
	}, nil
}

// Save copies the content into temp_<uuid>_<basename>. The original extension
// is kept because the speech service detects the format from it.
func (s *LocalStore) Save(ctx context.Context, filename string, content io.Reader) (*core.StoredAudio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("temp_%s_%s", uuid.NewString(), filepath.Base(filename)))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp audio file: %w", err)
	}

	size, err := io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		s.logger.ErrorContext(ctx, "Failed to write temp audio file",
			"path", path,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("failed to write temp audio file: %w", err)
	}

	s.logger.DebugContext(ctx, "Audio stored",
		"path", path,
		"size", size,
	)

	return &core.StoredAudio{Path: path, Size: size}, nil
}

// Remove deletes a stored recording. Missing files are not an error.
func (s *LocalStore) Remove(ctx context.Context, audio *core.StoredAudio) error {
	if audio == nil || audio.Path == "" {
		return nil
	}

	if err := os.Remove(audio.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove temp audio file: %w", err)
	}

	s.logger.DebugContext(ctx, "Audio removed",
		"path", audio.Path,
	)

	return nil
}
