// Package observe wraps the upstream exchange in a recorded unit of work.
//
// The layer is purely observational: it runs the operation it is given,
// records structured attributes and an outcome, and returns the operation's
// result unchanged. Removing it must not alter any caller-visible behavior.
package observe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"chatrelay/internal/core"
)

// Attributes describes one relay request for observation.
type Attributes struct {
	ModelKey   string
	UpstreamID string
	MessageLen int
	HasImage   bool
	ImageMIME  string
	ImageBytes int64

	// UpstreamStatus is filled in by the observed operation once the
	// provider's HTTP status is known; it stays 0 when the call never
	// completed.
	UpstreamStatus int
}

// Observer records one structured event and one metrics sample per observed
// operation. A nil *Observer is a valid no-op.
type Observer struct {
	logger  *slog.Logger
	metrics *Metrics
}

// New creates an observer. Either argument may be nil to disable that sink.
func New(logger *slog.Logger, metrics *Metrics) *Observer {
	return &Observer{logger: logger, metrics: metrics}
}

// Observe runs op and records its duration, attributes, and outcome. The
// returned error is op's error, untouched: the layer never translates,
// wraps, or swallows it.
func (o *Observer) Observe(ctx context.Context, name string, attrs *Attributes, op func(context.Context) error) error {
	if o == nil {
		return op(ctx)
	}

	start := time.Now()
	err := op(ctx)
	elapsed := time.Since(start)

	outcome := outcomeLabel(err)

	if o.metrics != nil {
		o.metrics.record(attrs.ModelKey, outcome, attrs.UpstreamStatus, elapsed.Seconds())
	}

	if o.logger != nil {
		fields := make([]slog.Attr, 0, 12)
		fields = append(fields,
			slog.String("unit", name),
			slog.String("model", attrs.ModelKey),
			slog.String("upstream_id", attrs.UpstreamID),
			slog.Int("message_len", attrs.MessageLen),
			slog.Bool("has_image", attrs.HasImage),
			slog.Duration("duration", elapsed),
			slog.String("outcome", outcome),
		)
		if attrs.HasImage {
			fields = append(fields,
				slog.String("image_mime", attrs.ImageMIME),
				slog.Int64("image_bytes", attrs.ImageBytes),
			)
		}
		if attrs.UpstreamStatus != 0 {
			fields = append(fields, slog.Int("upstream_status", attrs.UpstreamStatus))
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			o.logger.LogAttrs(ctx, slog.LevelWarn, "upstream exchange failed", fields...)
		} else {
			o.logger.LogAttrs(ctx, slog.LevelInfo, "upstream exchange completed", fields...)
		}
	}

	return err
}

// outcomeLabel maps an operation result to a low-cardinality label.
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	var relayErr *core.RelayError
	if errors.As(err, &relayErr) {
		return string(relayErr.Type)
	}
	return "internal_error"
}
