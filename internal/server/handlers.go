// Package server provides HTTP handlers and server setup for the relay.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"chatrelay/internal/core"
)

// Relayer is the chat pipeline the handlers delegate to.
type Relayer interface {
	Chat(ctx context.Context, req *core.ChatRequest) (string, error)
}

// Handler holds the HTTP handlers.
type Handler struct {
	relayer Relayer
}

// NewHandler creates a new handler backed by the given relayer.
func NewHandler(relayer Relayer) *Handler {
	return &Handler{relayer: relayer}
}

// Chat handles POST /chat.
func (h *Handler) Chat(c echo.Context) error {
	var req core.ChatRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}

	reply, err := h.relayer.Chat(c.Request().Context(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, core.ChatResponse{Reply: reply})
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleError converts relay errors to HTTP responses. Upstream HTTP errors
// pass their status and body through verbatim; everything else renders the
// standard error envelope.
func handleError(c echo.Context, err error) error {
	var relayErr *core.RelayError
	if errors.As(err, &relayErr) {
		if relayErr.Type == core.ErrorTypeUpstreamHTTP && len(relayErr.Body) > 0 {
			return c.Blob(relayErr.HTTPStatusCode(), echo.MIMEApplicationJSON, relayErr.Body)
		}
		return c.JSON(relayErr.HTTPStatusCode(), relayErr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
