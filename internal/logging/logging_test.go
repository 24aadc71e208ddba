package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{in: "debug", want: log.DebugLevel},
		{in: "INFO", want: log.InfoLevel},
		{in: "warn", want: log.WarnLevel},
		{in: "warning", want: log.WarnLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "fatal", want: log.FatalLevel},
		{in: "verbose", want: log.InfoLevel},
		{in: "", want: log.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{in: "json", want: log.JSONFormatter},
		{in: "logfmt", want: log.LogfmtFormatter},
		{in: "text", want: log.TextFormatter},
		{in: "pretty", want: log.TextFormatter},
	}

	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = "warn"
	logger, err := New(&buf, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "project", "Example")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "project=Example") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = "json"
	logger, err := New(&buf, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("planned", "tasks", 3)
	if !strings.Contains(buf.String(), `"msg":"planned"`) {
		t.Errorf("JSON output = %q", buf.String())
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "capplan.log")
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.File = path
	logger, err := New(&buf, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
	if !strings.Contains(buf.String(), "to file") {
		t.Errorf("console = %q", buf.String())
	}
}

func TestCloseWithoutFile(t *testing.T) {
	var l *Logger
	if err := l.Close(); err != nil {
		t.Errorf("nil Close() = %v", err)
	}
	if err := Discard().Close(); err != nil {
		t.Errorf("Discard().Close() = %v", err)
	}
}
