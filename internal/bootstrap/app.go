package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/harborlight-collective/harborlight/config"
	"github.com/harborlight-collective/harborlight/internal/adapters/blobstore"
	"github.com/harborlight-collective/harborlight/internal/adapters/pwauth"
	"github.com/harborlight-collective/harborlight/internal/data"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/service"
	"github.com/redis/go-redis/v9"
)

// Repos groups every repository the site serves from.
type Repos struct {
	Profiles    *data.ProfileRepo
	Sections    *data.PageSectionRepo
	Team        *data.TeamRepo
	Services    *data.ServiceRepo
	Programs    *data.ProgramRepo
	Resources   *data.ResourceRepo
	Blog        *data.BlogRepo
	Media       *data.MediaRepo
	FAQ         *data.FAQRepo
	Legal       *data.LegalRepo
	Settings    *data.SettingsRepo
	Contacts    *data.ContactRepo
	Bookings    *data.BookingRepo
	Volunteers  *data.VolunteerRepo
	Subscribers *data.SubscriberRepo
}

// NewRepos constructs all repositories on one database handle.
func NewRepos(db *sql.DB) Repos {
	return Repos{
		Profiles:    data.NewProfileRepo(db),
		Sections:    data.NewPageSectionRepo(db),
		Team:        data.NewTeamRepo(db),
		Services:    data.NewServiceRepo(db),
		Programs:    data.NewProgramRepo(db),
		Resources:   data.NewResourceRepo(db),
		Blog:        data.NewBlogRepo(db),
		Media:       data.NewMediaRepo(db),
		FAQ:         data.NewFAQRepo(db),
		Legal:       data.NewLegalRepo(db),
		Settings:    data.NewSettingsRepo(db),
		Contacts:    data.NewContactRepo(db),
		Bookings:    data.NewBookingRepo(db),
		Volunteers:  data.NewVolunteerRepo(db),
		Subscribers: data.NewSubscriberRepo(db),
	}
}

// App holds every wired dependency of a running instance.
type App struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	DB       *sql.DB
	Redis    redis.UniversalClient
	Repos    Repos
	Auth     *pwauth.Provider
	SSO      ports.SSOProvider // nil when SSO is off
	Blobs    *blobstore.Disk
	Notifier *service.Notifier // nil when webhooks are off
}

// BuildApp connects external services and wires adapters. The caller
// owns shutdown of DB and Redis handles.
func BuildApp(cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	dbCfg := DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}

	db, err := ConnectDB(dbCfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := ConnectRedis(dbCfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := NewRepos(db)

	auth, err := BuildAuthProvider(AuthConfig{
		Auth:        cfg.Auth,
		Profiles:    repos.Profiles,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("build auth provider: %w", err)
	}

	sso, err := BuildSSOProvider(cfg.Auth, logger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("build SSO provider: %w", err)
	}

	blobs, err := blobstore.NewDisk(cfg.Storage.Root, cfg.Storage.PublicBaseURL, cfg.Storage.MaxUploadBytes)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("init blob store: %w", err)
	}

	notifier, err := service.NewNotifier(service.NotifierOptions{
		Config: service.NotifyConfig{
			WebhookURL: cfg.Notify.WebhookURL,
			BodyExpr:   cfg.Notify.BodyExpr,
			Headers:    cfg.Notify.Headers,
			Timeout:    cfg.Notify.Timeout,
		},
		Logger: logger,
	})
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("init notifier: %w", err)
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Redis:    redisClient,
		Repos:    repos,
		Auth:     auth,
		SSO:      sso,
		Blobs:    blobs,
		Notifier: notifier,
	}, nil
}

// Close releases the app's external connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("closing redis client failed", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("closing database failed", "error", err)
		}
	}
}
