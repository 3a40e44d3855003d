// Package logging configures the process logger. The interactive session owns
// the terminal, so log output goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger initialization.
type Config struct {
	Level    string // "debug", "info", "warn", "error"
	FilePath string // empty disables logging
}

var (
	mkdirAllFn = os.MkdirAll
	openFileFn = os.OpenFile
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init builds the base logger. When the log file cannot be opened the logger
// discards everything; logging never prevents startup.
func Init(cfg Config) (zerolog.Logger, io.Closer) {
	zerolog.TimeFieldFormat = time.RFC3339

	path := strings.TrimSpace(cfg.FilePath)
	if path == "" {
		return zerolog.Nop(), nopCloser{}
	}

	file, err := openLogFile(path)
	if err != nil {
		return zerolog.Nop(), nopCloser{}
	}

	logger := zerolog.New(file).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	return logger, file
}

func openLogFile(path string) (*os.File, error) {
	if err := mkdirAllFn(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := openFileFn(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
