package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/harborlight-collective/harborlight/config"
	"github.com/harborlight-collective/harborlight/internal/adapters/devauth"
	"github.com/harborlight-collective/harborlight/internal/adapters/oidc"
	"github.com/harborlight-collective/harborlight/internal/adapters/pwauth"
	"github.com/harborlight-collective/harborlight/internal/adapters/redistokens"
	"github.com/harborlight-collective/harborlight/internal/data"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/redis/go-redis/v9"
)

// AuthConfig contains configuration for the auth provider.
type AuthConfig struct {
	Auth        config.AuthConfig
	Profiles    *data.ProfileRepo
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthProvider wires the password auth provider backed by the
// profile table and a Redis session token store. A missing Redis client
// is a wiring error: the handlers hold the provider in interface
// fields, so a nil provider would panic on the first request instead
// of failing at startup.
func BuildAuthProvider(cfg AuthConfig) (*pwauth.Provider, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth provider requires a redis client for session tokens")
	}

	tokens := redistokens.NewWithPrefix(cfg.RedisClient, "session:")
	return pwauth.New(cfg.Profiles, tokens, pwauth.Config{
		SessionTTL: cfg.Auth.SessionTTL,
	}), nil
}

// BuildSSOProvider wires the configured single sign-on provider, or
// returns nil when SSO is off. A nil return with nil error is normal:
// password login still works without SSO.
//
//nolint:ireturn // callers depend on the port, not a concrete provider.
func BuildSSOProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.SSOProvider, error) {
	switch cfg.SSOMode {
	case config.SSOModeOIDC:
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			IssuerURL:    cfg.OIDC.IssuerURL,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Scopes:       cfg.OIDC.Scopes,
		})
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("SSO enabled", "mode", "oidc", "issuer", cfg.OIDC.IssuerURL)
		}
		return prov, nil

	case config.SSOModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Email:      cfg.DevSSO.Email,
			GivenName:  cfg.DevSSO.GivenName,
			FamilyName: cfg.DevSSO.FamilyName,
		})
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Warn("SSO enabled with local stub; do not use in production", "email", cfg.DevSSO.Email)
		}
		return prov, nil

	default:
		return nil, nil
	}
}
