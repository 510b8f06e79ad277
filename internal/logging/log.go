// Package logging configures the structured logger shared by adpulse commands.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultLevel keeps CLI output quiet unless something goes wrong.
const DefaultLevel = "warn"

type contextKey string

const requestIDKey contextKey = "request_id"

var base = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		PadLevelText:    true,
	})
	return l
}

// Setup sets the level and, when out is non-nil, the destination.
// Use "json" as format for machine-readable daemon logs.
func Setup(level, format string, out io.Writer) error {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	base.SetLevel(lvl)
	if out != nil {
		base.SetOutput(out)
	}
	switch format {
	case "", "text":
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			PadLevelText:    true,
		})
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
	default:
		return fmt.Errorf("log format %q: want text or json", format)
	}
	return nil
}

// L returns the root logger.
func L() *logrus.Logger { return base }

// For returns an entry tagged with a component name.
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}

// WithRequestID stores a fresh request ID in ctx.
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, requestIDKey, id), id
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromContext returns a component entry carrying the request ID when present.
func FromContext(ctx context.Context, component string) *logrus.Entry {
	e := For(component)
	if id := RequestID(ctx); id != "" {
		e = e.WithField("request_id", id)
	}
	return e
}
