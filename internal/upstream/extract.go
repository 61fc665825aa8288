package upstream

import (
	"github.com/tidwall/gjson"

	"chatrelay/internal/core"
)

// Extract pulls the assistant reply out of an OpenAI-compatible completion
// envelope: choices[0].message.content. Any deviation from that shape is
// classified as a malformed_response error, never surfaced as a raw parse
// failure.
func Extract(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", core.NewMalformedResponseError("body is not valid JSON")
	}

	choices := gjson.GetBytes(body, "choices")
	if !choices.Exists() || !choices.IsArray() {
		return "", core.NewMalformedResponseError("missing choices array")
	}
	if len(choices.Array()) == 0 {
		return "", core.NewMalformedResponseError("choices array is empty")
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return "", core.NewMalformedResponseError("missing choices[0].message.content")
	}
	if content.Type != gjson.String {
		return "", core.NewMalformedResponseError("choices[0].message.content is not a string")
	}

	return content.String(), nil
}
