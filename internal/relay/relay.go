// Package relay orchestrates the chat pipeline: validation, payload
// construction, the observed upstream exchange, and reply extraction.
package relay

import (
	"context"
	"errors"

	"chatrelay/internal/core"
	"chatrelay/internal/observe"
	"chatrelay/internal/payload"
	"chatrelay/internal/registry"
	"chatrelay/internal/upstream"
	"chatrelay/internal/validate"
)

// Sender issues one outbound completion call. *upstream.Client implements it;
// tests substitute their own.
type Sender interface {
	Send(ctx context.Context, payload *core.UpstreamPayload) (*upstream.Response, error)
}

// Relayer runs one chat request through the pipeline. It holds no mutable
// state, so a single instance serves concurrent requests.
type Relayer struct {
	validator *validate.Validator
	sender    Sender
	observer  *observe.Observer
}

// New creates a relayer. observer may be nil to disable observation; that
// changes nothing about outcomes.
func New(reg *registry.Registry, sender Sender, observer *observe.Observer) *Relayer {
	return &Relayer{
		validator: validate.New(reg),
		sender:    sender,
		observer:  observer,
	}
}

// Chat validates the request, builds the upstream payload, and performs the
// observed exchange. Every failure path yields exactly one classified error.
func (r *Relayer) Chat(ctx context.Context, req *core.ChatRequest) (string, error) {
	validated, err := r.validator.Validate(req)
	if err != nil {
		return "", err
	}

	body := payload.Build(validated)

	attrs := &observe.Attributes{
		ModelKey:   validated.ModelKey,
		UpstreamID: validated.Model.UpstreamID,
		MessageLen: len(validated.Message),
		HasImage:   validated.Image != nil,
		ImageBytes: validated.ImageBytes,
	}
	if validated.Image != nil {
		attrs.ImageMIME = validated.Image.MIMEType
	}

	var reply string
	err = r.observer.Observe(ctx, "upstream.chat", attrs, func(ctx context.Context) error {
		resp, sendErr := r.sender.Send(ctx, body)
		if sendErr != nil {
			var relayErr *core.RelayError
			if errors.As(sendErr, &relayErr) && relayErr.Type == core.ErrorTypeUpstreamHTTP {
				attrs.UpstreamStatus = relayErr.StatusCode
			}
			return sendErr
		}
		attrs.UpstreamStatus = resp.StatusCode

		extracted, extractErr := upstream.Extract(resp.Body)
		if extractErr != nil {
			return extractErr
		}
		reply = extracted
		return nil
	})
	if err != nil {
		return "", err
	}

	return reply, nil
}
