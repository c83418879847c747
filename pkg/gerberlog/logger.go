// Package gerberlog builds the structured logger shared by the gerberctl
// CLI and anything embedding the parser that wants the same text/JSON,
// leveled output.
package gerberlog

import (
	"io"
	"log/slog"
)

// Logger builds a slog.Logger writing to w, either as JSON or as
// human-readable text, at the given minimum level.
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
