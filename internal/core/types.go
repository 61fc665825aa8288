package core

// ChatRequest is the inbound body for POST /chat.
type ChatRequest struct {
	Message  string      `json:"message"`
	ModelKey string      `json:"model,omitempty"`
	Image    *ImageInput `json:"image,omitempty"`
}

// ImageInput carries an inline base64-encoded image attached to a chat message.
type ImageInput struct {
	MIMEType   string `json:"mime_type"`
	DataBase64 string `json:"data_base64"`
}

// ChatResponse is the caller-visible success body.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// UpstreamPayload is the OpenAI-compatible completion request body sent to the
// inference provider.
type UpstreamPayload struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Message is a single chat message. Content is either a plain string
// (text-only) or an ordered []ContentPart (multimodal).
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multimodal content array.
type ContentPart struct {
	// Type is "text" or "image_url".
	Type string `json:"type"`

	// Text is set when Type == "text".
	Text string `json:"text,omitempty"`

	// ImageURL is set when Type == "image_url".
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps the data URI reference of an image part.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart is a helper to construct a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImageURLPart is a helper to construct an image_url content part.
func ImageURLPart(url string) ContentPart {
	return ContentPart{
		Type:     "image_url",
		ImageURL: &ImageURL{URL: url},
	}
}
