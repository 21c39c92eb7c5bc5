// Package logging builds the slog loggers used by the CI binary.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/blackbaud/skyux-sdk-actions/actions"
)

// Format represents the log output format.
type Format int

const (
	// FormatActions renders records as GitHub Actions workflow commands.
	// This is the default format.
	FormatActions Format = iota

	// FormatJSON produces JSON-formatted log output using [log/slog.JSONHandler].
	FormatJSON

	// FormatText produces human-readable text output using [log/slog.TextHandler].
	FormatText
)

// ParseFormat maps "actions", "json" and "text" to a Format. Anything else
// yields FormatActions.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatActions
	}
}

// config holds the resolved configuration for creating a logger.
type config struct {
	format Format
	level  slog.Leveler
	output io.Writer
}

// Option configures the logger created by [New].
type Option func(*config)

// WithFormat sets the output format.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithLevel sets the minimum log level.
// The default is [log/slog.LevelInfo].
func WithLevel(l slog.Leveler) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithOutput sets the destination writer for log output.
// The default is [os.Stdout], which the Actions runner scans for workflow commands.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// New creates a pre-configured [*log/slog.Logger].
//
// Defaults:
//   - Format: workflow commands ([FormatActions])
//   - Level: INFO ([log/slog.LevelInfo])
//   - Output: [os.Stdout]
//   - Timestamps (JSON and text): [time.RFC3339]
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		format: FormatActions,
		level:  slog.LevelInfo,
		output: os.Stdout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       cfg.level,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch cfg.format {
	case FormatText:
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	default:
		handler = actions.NewHandler(cfg.output, &actions.HandlerOptions{Level: cfg.level})
	}

	return slog.New(handler)
}

// replaceAttr formats the time attribute to RFC3339.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	}
	return a
}
