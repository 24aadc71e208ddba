// Package logging builds the charmbracelet/log loggers used by the CLI, the
// HTTP API and the stores. Output goes to the console and, when a log file is
// configured, to a size-rotated file managed by lumberjack.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options holds configuration for a logger.
type Options struct {
	Level      string // debug, info, warn, error, fatal
	Format     string // text, json, logfmt
	Timestamps bool
	Caller     bool
	Prefix     string

	// File enables rotated file output in addition to the console.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:      "info",
		Format:     "text",
		Prefix:     "capplan",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// Logger wraps a charmbracelet logger together with its rotating file, if any.
type Logger struct {
	*log.Logger
	file *lumberjack.Logger
}

// New creates a logger writing to console. If opts.File is set, records are
// also written to that file with rotation.
func New(console io.Writer, opts Options) (*Logger, error) {
	if console == nil {
		console = os.Stderr
	}
	out := console
	var file *lumberjack.Logger
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, err
		}
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		out = io.MultiWriter(console, file)
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          opts.Prefix,
	})
	return &Logger{Logger: logger, file: file}, nil
}

// NewTest creates a debug-level text logger writing to w, for tests.
func NewTest(w io.Writer) *Logger {
	return &Logger{Logger: log.NewWithOptions(w, log.Options{
		Level:     log.DebugLevel,
		Formatter: log.TextFormatter,
	})}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
// Unknown values fall back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
