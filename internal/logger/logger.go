package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey struct{}

var defaultLogger = logrus.New()
var defaultEntry = logrus.NewEntry(defaultLogger)

// NewContextWithFields returns a copy of parent whose logger carries fields.
func NewContextWithFields(parent context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(parent, contextKey{}, For(parent).WithFields(fields))
}

// For returns the logger attached to ctx, or the default logger.
func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return defaultEntry
	}

	if entry, ok := ctx.Value(contextKey{}).(*logrus.Entry); ok {
		return entry.WithContext(ctx)
	}

	return defaultEntry.WithContext(ctx)
}

// SetLoggerOptions applies optionsFunc to the process-wide logger.
func SetLoggerOptions(optionsFunc func(logger *logrus.Logger)) {
	optionsFunc(defaultLogger)
}

// SetLevel parses level ("debug", "info", ...) and applies it to the default logger.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	defaultLogger.SetLevel(parsed)
	return nil
}

// UseJSON switches the default logger to JSON output, used outside development.
func UseJSON() {
	defaultLogger.SetFormatter(&logrus.JSONFormatter{})
}
