// Package core provides shared types and the error taxonomy for the relay.
package core

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorType classifies a relay failure.
type ErrorType string

const (
	// ErrorTypeEmptyMessage indicates the message was empty after trimming.
	ErrorTypeEmptyMessage ErrorType = "empty_message"
	// ErrorTypeUnknownModel indicates a model key absent from the registry.
	ErrorTypeUnknownModel ErrorType = "unknown_model"
	// ErrorTypeImageNotSupported indicates an image sent to a text-only model.
	ErrorTypeImageNotSupported ErrorType = "image_not_supported"
	// ErrorTypeInvalidImage indicates a structurally invalid image payload.
	ErrorTypeInvalidImage ErrorType = "invalid_image"
	// ErrorTypeInvalidRequest indicates an unparseable request body.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	// ErrorTypeTimeout indicates the upstream call exceeded its deadline.
	ErrorTypeTimeout ErrorType = "upstream_timeout"
	// ErrorTypeTransport indicates a lower-level transport failure
	// (DNS, connection reset, TLS).
	ErrorTypeTransport ErrorType = "upstream_transport_error"
	// ErrorTypeMalformedResponse indicates an upstream body that does not
	// match the expected completion envelope.
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
	// ErrorTypeUpstreamHTTP indicates a non-2xx upstream status; the status
	// and raw body are passed through to the caller.
	ErrorTypeUpstreamHTTP ErrorType = "upstream_http_error"
)

// RelayError is the base error type for all relay failures.
type RelayError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	// Body holds the raw upstream response body for ErrorTypeUpstreamHTTP,
	// echoed verbatim so callers can inspect provider-side diagnostics.
	Body []byte `json:"-"`
	// Err is the original error for debugging (not exposed to clients).
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface.
func (e *RelayError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the HTTP status code for this error.
func (e *RelayError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeEmptyMessage, ErrorTypeUnknownModel, ErrorTypeImageNotSupported,
		ErrorTypeInvalidImage, ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeTransport, ErrorTypeMalformedResponse, ErrorTypeUpstreamHTTP:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map.
func (e *RelayError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    e.Type,
			"message": e.Message,
		},
	}
}

// NewEmptyMessageError creates the error for a blank message (400).
func NewEmptyMessageError() *RelayError {
	return &RelayError{
		Type:       ErrorTypeEmptyMessage,
		Message:    "message must not be empty",
		StatusCode: http.StatusBadRequest,
	}
}

// NewUnknownModelError creates the error for a model key absent from the
// registry (400). The message lists the allowed keys.
func NewUnknownModelError(key string, allowed []string) *RelayError {
	return &RelayError{
		Type:       ErrorTypeUnknownModel,
		Message:    fmt.Sprintf("unknown model %q, allowed models: %s", key, strings.Join(allowed, ", ")),
		StatusCode: http.StatusBadRequest,
	}
}

// NewImageNotSupportedError creates the error for an image sent to a model
// without image support (400).
func NewImageNotSupportedError(key string) *RelayError {
	return &RelayError{
		Type:       ErrorTypeImageNotSupported,
		Message:    fmt.Sprintf("model %q does not support image input", key),
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidImageError creates the error for a malformed image payload (400).
func NewInvalidImageError(reason string, err error) *RelayError {
	return &RelayError{
		Type:       ErrorTypeInvalidImage,
		Message:    "invalid image: " + reason,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewInvalidRequestError creates the error for an unparseable request body (400).
func NewInvalidRequestError(message string, err error) *RelayError {
	return &RelayError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewTimeoutError creates the error for an upstream deadline being hit (504).
func NewTimeoutError(err error) *RelayError {
	return &RelayError{
		Type:       ErrorTypeTimeout,
		Message:    "upstream provider did not respond in time",
		StatusCode: http.StatusGatewayTimeout,
		Err:        err,
	}
}

// NewTransportError creates the error for a transport-level failure (502).
func NewTransportError(detail string, err error) *RelayError {
	return &RelayError{
		Type:       ErrorTypeTransport,
		Message:    "upstream provider unreachable: " + detail,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// NewMalformedResponseError creates the error for an upstream body that does
// not match the completion envelope (502).
func NewMalformedResponseError(reason string) *RelayError {
	return &RelayError{
		Type:       ErrorTypeMalformedResponse,
		Message:    "malformed upstream response: " + reason,
		StatusCode: http.StatusBadGateway,
	}
}

// NewUpstreamHTTPError creates the pass-through error for a non-2xx upstream
// status. The body is kept verbatim.
func NewUpstreamHTTPError(statusCode int, body []byte) *RelayError {
	return &RelayError{
		Type:       ErrorTypeUpstreamHTTP,
		Message:    fmt.Sprintf("upstream provider returned status %d", statusCode),
		StatusCode: statusCode,
		Body:       body,
	}
}
