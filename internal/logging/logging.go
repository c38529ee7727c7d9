// Package logging builds the application's zerolog logger. The terminal
// belongs to the TUI, so logs always go to a file in the data directory.
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

// FileName is the log file created inside the data directory.
const FileName = "focusboard.log"

// DebugEnv forces debug level when set to "1".
const DebugEnv = "FOCUSBOARD_DEBUG"

// New opens (or creates) the log file in dir and returns a logger writing to it.
// The returned closer releases the file.
func New(dir, level string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}

	return NewWriter(f, level), f, nil
}

// NewWriter returns a logger writing JSON lines to w.
func NewWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a config level to zerolog, honouring FOCUSBOARD_DEBUG.
func ParseLevel(level string) zerolog.Level {
	if os.Getenv(DebugEnv) == "1" {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
