// Package logging configures structured logging for oficina.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger output.
type Config struct {
	Level  string
	Format string // "console" or "json"
	File   string // empty writes to stderr
}

var (
	mu   sync.RWMutex
	base = zerolog.Nop()
	sink io.Closer
)

// Init configures the process-wide logger. It is safe to call more than once;
// a previously opened log file is closed.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	var closer io.Closer
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = file
		closer = file
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: closer != nil}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()

	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		_ = sink.Close()
	}
	base = logger
	sink = closer
	return nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(value string) (zerolog.Level, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}

// Logger returns the process-wide logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Component returns a child logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// SetOutput replaces the logger with one writing JSON to w. Used by tests.
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if sink == nil {
		return nil
	}
	err := sink.Close()
	sink = nil
	base = zerolog.Nop()
	return err
}
