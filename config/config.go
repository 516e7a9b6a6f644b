package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Staff authentication configuration
//   - database.go: Database and session-store configuration
//   - http.go: HTTP server configuration
//   - storage.go: Media upload storage configuration
//   - notify.go: Outbound submission webhook configuration
type AppConfig struct {
	// IsDev controls development mode behavior (seed data, relaxed
	// cookies, local SSO stub). Set DEV=true or APP_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Upload storage configuration
	Storage StorageConfig `envPrefix:"STORAGE_"`

	// Submission webhook configuration
	Notify NotifyConfig `envPrefix:"NOTIFY_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Storage.Sanitize()
	c.Notify.Sanitize()

	c.detectDevMode()

	// Dev mode without an identity provider falls back to the local
	// SSO stub so the admin area stays reachable.
	if c.IsDev && c.Auth.SSOMode == SSOModeOIDC && c.Auth.OIDC.IssuerURL == "" {
		c.Auth.SSOMode = SSOModeMock
	}
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
