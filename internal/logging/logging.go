// Package logging selects the slog handler for the process.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// NewHandler returns a slog handler for the given format: "text" yields a
// colorized human-readable handler for local development, anything else
// yields JSON for production.
func NewHandler(format string, out io.Writer) slog.Handler {
	if format == "text" {
		return tint.NewHandler(out, &tint.Options{
			TimeFormat: time.TimeOnly,
		})
	}
	return slog.NewJSONHandler(out, nil)
}
