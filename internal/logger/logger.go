// =============================================================================
// SecureCRT Session Extractor - Logger
// =============================================================================
//
// This module sets up the zerolog logger used by the command line.
//
// DESTINATIONS:
//   - Console: standard error, JSON or human-readable
//   - File: optional, appended to, always JSON
//
// Logs never go to stdout: stdout may be carrying the exported records.
//
// =============================================================================

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// LOGGER SETUP
// =============================================================================

// Logger wraps zerolog.Logger and owns the optional log file.
type Logger struct {
	logger zerolog.Logger
	file   *os.File
	runID  string
}

// Config holds logger configuration.
type Config struct {
	Level   string    // trace, debug, info, warn, error, disabled
	File    string    // optional log file, appended to
	Console io.Writer // console destination; os.Stderr when nil
	Pretty  bool      // human-readable console output instead of JSON
}

// New creates a logger. Every entry carries a run_id unique to this process.
func New(cfg Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	writers := []io.Writer{console}

	var file *os.File
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, file)
	}

	runID := uuid.NewString()
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()

	return &Logger{
		logger: logger,
		file:   file,
		runID:  runID,
	}, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// RunID returns the identifier attached to every entry.
func (l *Logger) RunID() string {
	return l.runID
}

func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}
