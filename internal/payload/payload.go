// Package payload builds OpenAI-compatible request bodies from validated
// chat requests.
package payload

import (
	"fmt"

	"chatrelay/internal/core"
	"chatrelay/internal/validate"
)

// Kind selects between the two payload construction paths.
type Kind int

const (
	// TextOnly produces a single message with plain string content.
	TextOnly Kind = iota
	// Multimodal produces a single message whose content is a text part
	// followed by an inline image part.
	Multimodal
)

// KindOf returns the construction path for a validated request.
func KindOf(v *validate.Validated) Kind {
	if v.Image != nil {
		return Multimodal
	}
	return TextOnly
}

// Build constructs the upstream payload. It is a pure function of its input;
// a fresh payload is built for every request.
func Build(v *validate.Validated) *core.UpstreamPayload {
	var content any
	switch KindOf(v) {
	case Multimodal:
		// Text before image is a protocol contract with the provider.
		content = []core.ContentPart{
			core.TextPart(v.Message),
			core.ImageURLPart(DataURI(v.Image.MIMEType, v.Image.DataBase64)),
		}
	case TextOnly:
		content = v.Message
	}

	return &core.UpstreamPayload{
		Model: v.Model.UpstreamID,
		Messages: []core.Message{
			{Role: "user", Content: content},
		},
	}
}

// DataURI renders a self-contained inline image reference.
func DataURI(mimeType, base64Data string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data)
}
