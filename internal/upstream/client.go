// Package upstream issues the outbound completion call to the inference
// provider and classifies its outcome.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"chatrelay/internal/core"
	"chatrelay/internal/httpclient"
)

const (
	// DefaultBaseURL is the OpenAI-compatible API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout bounds the wait for one upstream call.
	DefaultTimeout = 30 * time.Second

	completionsEndpoint = "/chat/completions"
)

// Config holds configuration for the upstream client.
type Config struct {
	// BaseURL is the provider API root (default: DefaultBaseURL).
	BaseURL string

	// APIKey is the bearer secret for the provider. It is only ever written
	// to the Authorization header, never to logs or error messages.
	APIKey string

	// Timeout bounds each call (default: DefaultTimeout).
	Timeout time.Duration
}

// Response is a successful (2xx) upstream exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client sends completion requests to the provider. Exactly one outbound
// call is made per Send; there are no retries and no response caching.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a new upstream client.
func New(config Config) *Client {
	return NewWithHTTPClient(httpclient.NewDefaultHTTPClient(), config)
}

// NewWithHTTPClient creates an upstream client with a custom HTTP client.
// If httpClient is nil, a default transport is used.
func NewWithHTTPClient(httpClient *http.Client, config Config) *Client {
	if httpClient == nil {
		httpClient = httpclient.NewDefaultHTTPClient()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		httpClient: httpClient,
		config:     config,
	}
}

// BaseURL returns the configured provider API root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Send posts the payload to the provider's completions endpoint and returns
// the raw 2xx response. Failures come back as classified *core.RelayError
// values: deadline hits as upstream_timeout, connection-level failures as
// upstream_transport_error, and non-2xx statuses as upstream_http_error
// carrying the status and body verbatim.
func (c *Client) Send(ctx context.Context, payload *core.UpstreamPayload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to marshal upstream payload", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+completionsEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, core.NewTransportError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if requestID := core.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewUpstreamHTTPError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}

// classifyTransportError separates deadline hits from other transport
// failures. The error detail comes from the transport and never contains the
// API key.
func classifyTransportError(err error) *core.RelayError {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.NewTimeoutError(err)
	}
	return core.NewTransportError(err.Error(), err)
}
