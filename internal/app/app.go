// Package app provides the main application struct for centralized dependency management
// and lifecycle control of the chat relay.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"nerachat/config"
	"nerachat/internal/chat"
	"nerachat/internal/extract"
	"nerachat/internal/llmclient"
	"nerachat/internal/observability"
	"nerachat/internal/providers/openrouter"
	"nerachat/internal/server"
)

// App represents the main application with all its dependencies.
type App struct {
	config   *config.Config
	provider *openrouter.Provider
	service  *chat.Service
	server   *server.Server

	shutdownMu sync.Mutex
	shutdown   bool
}

// New creates a new App with all dependencies initialized.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app config is required")
	}

	if dir := cfg.Extract.TempDir; dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create extraction temp dir: %w", err)
		}
	}

	app := &App{config: cfg}
	app.logStartupInfo()

	// Hooks must be attached before the provider is built
	var hooks llmclient.Hooks
	var onExtract func(extract.Format, bool)
	if cfg.Metrics.Enabled {
		hooks = observability.NewPrometheusHooks()
		onExtract = func(f extract.Format, ok bool) {
			observability.RecordExtraction(f.String(), ok)
		}
	}

	app.provider = openrouter.New(cfg.OpenRouter.APIKey, cfg.OpenRouter.BaseURL, hooks)
	extractor := extract.New(extract.Config{
		TempDir:   cfg.Extract.TempDir,
		OnExtract: onExtract,
	})
	app.service = chat.NewService(app.provider, extractor, cfg.OpenRouter.Model)

	app.server = server.New(app.service, &server.Config{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		BodySizeLimit:   cfg.Server.BodySizeLimit,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
	})

	return app, nil
}

// Service returns the chat service.
func (a *App) Service() *chat.Service {
	return a.service
}

// Handler returns the HTTP handler, for use with httptest.
func (a *App) Handler() http.Handler {
	return a.server
}

// Start starts the HTTP server on the given address.
// This is a blocking call that returns when the server stops.
func (a *App) Start(addr string) error {
	if a.server == nil {
		return fmt.Errorf("server is not initialized")
	}
	slog.Info("starting server", "address", addr)
	if err := a.server.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, honoring the context deadline.
// Repeated calls are no-ops.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownMu.Lock()
	if a.shutdown {
		a.shutdownMu.Unlock()
		return nil
	}
	a.shutdown = true
	a.shutdownMu.Unlock()

	slog.Info("shutting down application...")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("application shutdown complete")
	return nil
}

func (a *App) logStartupInfo() {
	cfg := a.config

	if cfg.OpenRouter.APIKey == "" {
		slog.Warn("OPENROUTER_API_KEY not set - chat requests will fail until it is configured")
	} else {
		slog.Info("openrouter configured", "model", cfg.OpenRouter.Model, "base_url", cfg.OpenRouter.BaseURL)
	}

	if cfg.Metrics.Enabled {
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	} else {
		slog.Info("prometheus metrics disabled")
	}

	slog.Info("cors configured", "origins", cfg.Server.AllowedOrigins)
	slog.Info("swagger UI enabled", "path", "/docs/index.html")
}
