// Package logging adapts common structured loggers to types.Logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arloliu/rundinner/types"
)

// SlogLogger implements types.Logger on a log/slog logger.
type SlogLogger struct {
	logger *slog.Logger
}

var _ types.Logger = (*SlogLogger)(nil)

// NewSlog wraps an existing slog logger. A nil logger uses slog.Default().
//
// Example:
//
//	handler := slog.NewJSONHandler(os.Stderr, nil)
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithLogger(logging.NewSlog(slog.New(handler))))
func NewSlog(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogLogger{logger: logger}
}

// NewSlogText builds a logfmt style text logger.
//
// Parameters:
//   - w: Destination of the log lines
//   - level: Minimum level ("debug", "info", "warn", "error")
//
// Returns:
//   - *SlogLogger: A new logger instance
//   - error: Unknown level
func NewSlogText(w io.Writer, level string) (*SlogLogger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})

	return &SlogLogger{logger: slog.New(handler)}, nil
}

func (l *SlogLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *SlogLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *SlogLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *SlogLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

// Fatal logs at Error level, slog has no Fatal level, and exits with status 1.
func (l *SlogLogger) Fatal(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
	os.Exit(1) //nolint:revive // Fatal should exit the program
}
