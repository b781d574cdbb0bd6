// Package logger provides the no-op, test and recording loggers used by rundinner
// defaults and tests.
package logger

import "github.com/arloliu/rundinner/types"

// NopLogger discards every message. It is the default logger of the calculator and
// the schedule store.
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a no-op logger.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// Fatal discards the message and, unlike production loggers, does not exit.
func (*NopLogger) Fatal(string, ...any) {}
