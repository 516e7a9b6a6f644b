package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/harborlight-collective/harborlight/internal/bootstrap"
	"github.com/harborlight-collective/harborlight/internal/devseed"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting harborlight",
		"addr", cfg.HTTP.Addr,
		"db_host", cfg.Postgres.Host,
		"db_name", cfg.Postgres.Name,
		"sso_mode", cfg.Auth.SSOMode,
		"dev", cfg.IsDev,
	)

	app, err := bootstrap.BuildApp(&cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, app.DB, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	if cfg.IsDev {
		if err = devseed.Run(ctx, seedDeps(app), logger); err != nil {
			return err
		}
	}

	handler, err := bootstrap.BuildHandler(app)
	if err != nil {
		return err
	}

	server := bootstrap.StartHTTPServer(cfg.HTTP.Addr, handler, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.InfoContext(ctx, "shutdown signal received", "signal", sig.String())

	return bootstrap.ShutdownHTTPServer(ctx, server, logger)
}

func seedDeps(app *bootstrap.App) devseed.Deps {
	return devseed.Deps{
		DB:       app.DB,
		Users:    app.Auth,
		Profiles: app.Repos.Profiles,
		Sections: app.Repos.Sections,
		Team:     app.Repos.Team,
		Services: app.Repos.Services,
		Programs: app.Repos.Programs,
		Blog:     app.Repos.Blog,
		FAQ:      app.Repos.FAQ,
		Legal:    app.Repos.Legal,
		Settings: app.Repos.Settings,
	}
}
