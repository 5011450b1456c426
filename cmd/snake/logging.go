package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// newFileLogger logs to path so the TUI keeps the terminal to itself. The
// returned close function flushes and closes the file.
func newFileLogger(path, level string) (*log.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := newLogger(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() {
		if err := f.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}, nil
}
