package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/harborlight-collective/harborlight/internal/gate"
	httpx "github.com/harborlight-collective/harborlight/internal/http"
)

// BuildHandler assembles the full HTTP handler for an app: handler
// groups, router, role gate, and optional gzip compression.
func BuildHandler(app *App) (http.Handler, error) {
	logger := app.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := httpx.NewTemplateRenderer(logger)
	if err != nil {
		return nil, fmt.Errorf("build template renderer: %w", err)
	}

	secure := app.Config.HTTP.SecureCookies

	public := &httpx.PublicHandlers{
		Sections:    app.Repos.Sections,
		Team:        app.Repos.Team,
		Services:    app.Repos.Services,
		Programs:    app.Repos.Programs,
		Resources:   app.Repos.Resources,
		Blog:        app.Repos.Blog,
		Media:       app.Repos.Media,
		FAQ:         app.Repos.FAQ,
		Legal:       app.Repos.Legal,
		Settings:    app.Repos.Settings,
		Contacts:    app.Repos.Contacts,
		Bookings:    app.Repos.Bookings,
		Volunteers:  app.Repos.Volunteers,
		Subscribers: app.Repos.Subscribers,
		Notifier:    app.Notifier,
		Renderer:    renderer,
		Logger:      logger,
	}

	admin := &httpx.AdminHandlers{
		Users:       app.Auth,
		Profiles:    app.Repos.Profiles,
		Sections:    app.Repos.Sections,
		Team:        app.Repos.Team,
		Services:    app.Repos.Services,
		Programs:    app.Repos.Programs,
		Resources:   app.Repos.Resources,
		Blog:        app.Repos.Blog,
		Media:       app.Repos.Media,
		FAQ:         app.Repos.FAQ,
		Legal:       app.Repos.Legal,
		Settings:    app.Repos.Settings,
		Contacts:    app.Repos.Contacts,
		Bookings:    app.Repos.Bookings,
		Volunteers:  app.Repos.Volunteers,
		Subscribers: app.Repos.Subscribers,
		Blobs:       app.Blobs,
		Renderer:    renderer,
		Logger:      logger,
	}

	auth := &httpx.AuthHandlers{
		Auth:     app.Auth,
		SSO:      app.SSO,
		Renderer: renderer,
		Logger:   logger,
		Secure:   secure,
	}

	router := httpx.NewRouter(httpx.RouterConfig{
		Public:   public,
		Admin:    admin,
		Auth:     auth,
		Blobs:    &httpx.BlobHandler{Blobs: app.Blobs, Logger: logger},
		Resolver: &httpx.CookieResolver{Provider: app.Auth, Logger: logger},
		Policy:   gate.AdminPolicy(),
		Renderer: renderer,
		Logger:   logger,
		Secure:   secure,
	})

	h := router
	if app.Config.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", app.Config.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: app.Config.HTTP.CompressionLevel})(h)
	}

	return h, nil
}

// StartHTTPServer starts the HTTP server on the configured address.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
