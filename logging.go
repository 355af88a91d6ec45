package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// parseLogLevel parses a config log level, defaulting to info
func parseLogLevel(level string) log.Level {
	if level == "" {
		level = defaultLogLevel
	}
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// parseLogFormatter parses a config formatter name
func parseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newLoggerTo(w io.Writer, cfg LogConfig) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           parseLogLevel(cfg.Level),
		Formatter:       parseLogFormatter(cfg.Format),
		ReportTimestamp: true,
		Prefix:          appName,
	})
}

// openLogger appends to the configured log file. The TUI owns the
// terminal, so nothing is logged to stdout or stderr.
func openLogger(cfg LogConfig) (*log.Logger, io.Closer, error) {
	path, err := resolveLogPath(cfg)
	if err != nil {
		return newLoggerTo(io.Discard, cfg), nopCloser{}, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return newLoggerTo(io.Discard, cfg), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return newLoggerTo(io.Discard, cfg), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}

	return newLoggerTo(f, cfg), f, nil
}
