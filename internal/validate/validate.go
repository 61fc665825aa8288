// Package validate checks inbound chat requests before any payload is built.
package validate

import (
	"strings"

	"chatrelay/internal/core"
	"chatrelay/internal/registry"
)

// Validated is a ChatRequest that passed every check, with the registry entry
// already resolved. Payload construction only ever sees this type, so an
// image can never reach a model that is not image-capable.
type Validated struct {
	// Message is the trimmed message text.
	Message string
	// ModelKey is the resolved user-facing key (the default when omitted).
	ModelKey string
	// Model is the registry entry the key resolved to.
	Model registry.Entry
	// Image is the inline image, nil for text-only requests.
	Image *core.ImageInput
	// ImageBytes is the decoded image size, 0 when there is no image.
	ImageBytes int64
}

// Validator checks chat requests against a model registry. It has no side
// effects and mutates no global state.
type Validator struct {
	registry *registry.Registry
}

// New creates a validator backed by the given registry.
func New(reg *registry.Registry) *Validator {
	return &Validator{registry: reg}
}

// Validate checks a request and resolves its model. Checks run in a fixed
// order so the first applicable failure is the one reported: message
// emptiness, then model resolution, then image capability, then image
// structure.
func (v *Validator) Validate(req *core.ChatRequest) (*Validated, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, core.NewEmptyMessageError()
	}

	entry, err := v.registry.Resolve(req.ModelKey)
	if err != nil {
		return nil, err
	}

	out := &Validated{
		Message:  message,
		ModelKey: entry.Key,
		Model:    entry,
	}

	if req.Image == nil {
		return out, nil
	}

	if !entry.ImageCapable {
		return nil, core.NewImageNotSupportedError(entry.Key)
	}

	size, err := checkImage(req.Image)
	if err != nil {
		return nil, err
	}
	out.Image = req.Image
	out.ImageBytes = size

	return out, nil
}
