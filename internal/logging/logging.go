// Package logging builds the JSON structured logger shared by the server,
// the middleware and the background components.
package logging

import (
	"io"
	"log/slog"
	"time"
)

// TimeKey replaces slog's default "time" key in every record.
const TimeKey = "ts"

// New returns a JSON logger writing one object per line to w.
// Timestamps are rendered as RFC3339Nano in loc.
func New(w io.Writer, loc *time.Location, level slog.Level) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String(TimeKey, a.Value.Time().In(loc).Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return slog.New(h)
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
