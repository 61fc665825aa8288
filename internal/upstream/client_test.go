package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chatrelay/internal/core"
)

func testPayload() *core.UpstreamPayload {
	return &core.UpstreamPayload{
		Model: "gpt-4o-mini",
		Messages: []core.Message{
			{Role: "user", Content: "hello"},
		},
	}
}

func TestSendSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody core.UpstreamPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "hi"}}]}`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "sk-test"})

	resp, err := client.Send(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer secret", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("upstream saw model %q", gotBody.Model)
	}
}

func TestSendForwardsRequestID(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "sk-test"})
	ctx := core.WithRequestID(context.Background(), "req-42")

	if _, err := client.Send(ctx, testPayload()); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if gotID != "req-42" {
		t.Errorf("X-Request-Id = %q, want req-42", gotID)
	}
}

func TestSendNon2xxPassesBodyVerbatim(t *testing.T) {
	upstreamBody := `{"error": {"message": "insufficient quota", "code": "insufficient_quota"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "sk-test"})

	_, err := client.Send(context.Background(), testPayload())
	var relayErr *core.RelayError
	if !errors.As(err, &relayErr) {
		t.Fatalf("expected *core.RelayError, got %T", err)
	}
	if relayErr.Type != core.ErrorTypeUpstreamHTTP {
		t.Errorf("Type = %q, want %q", relayErr.Type, core.ErrorTypeUpstreamHTTP)
	}
	if relayErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", relayErr.StatusCode)
	}
	if string(relayErr.Body) != upstreamBody {
		t.Errorf("Body = %q, want the upstream body verbatim", relayErr.Body)
	}
}

func TestSendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "sk-test", Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := client.Send(context.Background(), testPayload())
	elapsed := time.Since(start)

	var relayErr *core.RelayError
	if !errors.As(err, &relayErr) {
		t.Fatalf("expected *core.RelayError, got %T (%v)", err, err)
	}
	if relayErr.Type != core.ErrorTypeTimeout {
		t.Errorf("Type = %q, want %q", relayErr.Type, core.ErrorTypeTimeout)
	}
	if relayErr.HTTPStatusCode() != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", relayErr.HTTPStatusCode())
	}
	if elapsed > time.Second {
		t.Errorf("Send() took %v, the deadline did not cancel the call", elapsed)
	}
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := New(Config{BaseURL: srv.URL, APIKey: "sk-test"})

	_, err := client.Send(context.Background(), testPayload())
	var relayErr *core.RelayError
	if !errors.As(err, &relayErr) {
		t.Fatalf("expected *core.RelayError, got %T", err)
	}
	if relayErr.Type != core.ErrorTypeTransport {
		t.Errorf("Type = %q, want %q", relayErr.Type, core.ErrorTypeTransport)
	}
	if relayErr.HTTPStatusCode() != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", relayErr.HTTPStatusCode())
	}
}

func TestSendMakesExactlyOneCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "boom"}`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, APIKey: "sk-test"})

	_, err := client.Send(context.Background(), testPayload())
	if err == nil {
		t.Fatal("Send() should have failed")
	}
	// No retries: a 5xx surfaces immediately.
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream saw %d calls, want exactly 1", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	client := New(Config{APIKey: "sk-test"})

	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", client.BaseURL(), DefaultBaseURL)
	}
	if client.config.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.config.Timeout, DefaultTimeout)
	}
}
