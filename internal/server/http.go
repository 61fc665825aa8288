package server

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatrelay/config"
)

// Config holds server configuration options.
type Config struct {
	Logger          *slog.Logger // Request logger (default: slog.Default())
	MetricsEnabled  bool         // Whether to expose the Prometheus metrics endpoint
	MetricsEndpoint string       // HTTP path for the metrics endpoint (default: /metrics)
	BodySizeLimit   int64        // Max request body size in bytes (default: 10MB)
	MaxInflight     int64        // Concurrent /chat bound; 0 means unlimited
	CORSOrigins     []string     // Allowed CORS origins (default: any)
}

// Server wraps the Echo server.
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// New creates a new HTTP server.
func New(relayer Relayer, cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true

	handler := NewHandler(relayer)

	// Global middleware stack (order matters)
	e.Use(requestIDMiddleware())
	e.Use(requestLoggerMiddleware(logger))
	e.Use(middleware.Recover())

	corsOrigins := cfg.CORSOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	bodySizeLimit := cfg.BodySizeLimit
	if bodySizeLimit <= 0 {
		bodySizeLimit = config.DefaultBodySizeLimit
	}
	e.Use(middleware.BodyLimit(strconv.FormatInt(bodySizeLimit, 10)))

	// Public routes
	e.GET("/health", handler.Health)
	if cfg.MetricsEnabled {
		metricsPath := "/metrics"
		if cfg.MetricsEndpoint != "" {
			// Normalize path to prevent traversal
			metricsPath = path.Clean(cfg.MetricsEndpoint)
		}
		e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))
	}

	// API routes
	chatMiddleware := []echo.MiddlewareFunc{}
	if gate := inflightLimitMiddleware(cfg.MaxInflight); gate != nil {
		chatMiddleware = append(chatMiddleware, gate)
	}
	e.POST("/chat", handler.Chat, chatMiddleware...)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// Start starts the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements http.Handler, allowing Server to be used with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
