// Package app provides centralized dependency wiring and lifecycle control
// for the relay server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"chatrelay/config"
	"chatrelay/internal/observe"
	"chatrelay/internal/registry"
	"chatrelay/internal/relay"
	"chatrelay/internal/server"
	"chatrelay/internal/upstream"
)

// App holds the wired components of the relay.
type App struct {
	config   *config.Config
	registry *registry.Registry
	server   *server.Server

	shutdownMu sync.Mutex
	shutdown   bool
}

// New creates an App with all dependencies initialized.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Upstream.APIKey == "" {
		return nil, fmt.Errorf("UPSTREAM_API_KEY is required")
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	client := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	})

	var metrics *observe.Metrics
	if cfg.Metrics.Enabled {
		metrics = observe.NewMetrics(prometheus.DefaultRegisterer)
	}
	observer := observe.New(slog.Default(), metrics)

	relayer := relay.New(reg, client, observer)

	srv := server.New(relayer, &server.Config{
		Logger:          slog.Default(),
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
		BodySizeLimit:   cfg.Server.BodySizeLimit,
		MaxInflight:     cfg.Server.MaxInflight,
		CORSOrigins:     cfg.Server.CORSOrigins,
	})

	app := &App{
		config:   cfg,
		registry: reg,
		server:   srv,
	}
	app.logStartupInfo()

	return app, nil
}

// buildRegistry loads the model table: a YAML override when configured,
// otherwise the built-in table. Either way the table is frozen from here on.
func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.Models.File != "" {
		reg, err := registry.LoadFile(cfg.Models.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load model table: %w", err)
		}
		return reg, nil
	}
	return registry.Default(), nil
}

// Registry returns the model table.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Server returns the HTTP server (useful for httptest in end-to-end tests).
func (a *App) Server() *server.Server {
	return a.server
}

// Start starts the HTTP server on the given address. Blocking.
func (a *App) Start(addr string) error {
	return a.server.Start(addr)
}

// Shutdown gracefully stops the HTTP server. Idempotent.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownMu.Lock()
	if a.shutdown {
		a.shutdownMu.Unlock()
		return nil
	}
	a.shutdown = true
	a.shutdownMu.Unlock()

	slog.Info("shutting down application...")
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("application shutdown complete")
	return nil
}

// logStartupInfo logs the effective configuration on startup. The upstream
// secret is deliberately absent.
func (a *App) logStartupInfo() {
	cfg := a.config

	slog.Info("upstream configured",
		"base_url", cfg.Upstream.BaseURL,
		"timeout", cfg.Upstream.Timeout,
	)
	slog.Info("model table loaded",
		"models", a.registry.Keys(),
		"default", a.registry.DefaultKey(),
	)

	if cfg.Metrics.Enabled {
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	} else {
		slog.Info("prometheus metrics disabled")
	}

	if cfg.Server.MaxInflight > 0 {
		slog.Info("inflight gate enabled", "max_inflight", cfg.Server.MaxInflight)
	}
}
