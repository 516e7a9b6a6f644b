package config

import (
	"fmt"
	"strings"
	"time"
)

// SSOMode represents the single sign-on mode for staff login.
type SSOMode string

const (
	// SSOModeOIDC federates staff login to an OIDC identity provider.
	SSOModeOIDC SSOMode = "oidc"
	// SSOModeMock uses a local SSO stub (for development only).
	SSOModeMock SSOMode = "mock"
	// SSOModeOff disables SSO; staff sign in with email and password only.
	SSOModeOff SSOMode = "off"
)

// UnmarshalText implements encoding.TextUnmarshaler for SSOMode.
func (m *SSOMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oidc", "mock", "off":
		*m = SSOMode(v)
		return nil
	default:
		return fmt.Errorf("invalid SSOMode: %q (valid options: oidc, mock, off)", v)
	}
}

// OIDCConfig contains OIDC identity provider configuration.
type OIDCConfig struct {
	IssuerURL    string   `env:"ISSUER_URL"`
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL" envDefault:"http://localhost:8080/admin/sso/callback"`
	Scopes       []string `env:"SCOPES"       envDefault:"openid;profile;email" envSeparator:";"`
}

// DevSSOConfig controls the local SSO stub identity.
// Used when SSO_MODE=mock for development and testing. The email must
// still match a provisioned profile row for a session to be issued.
type DevSSOConfig struct {
	Email      string `env:"EMAIL"       envDefault:"dev@harborlight.local"`
	GivenName  string `env:"GIVEN_NAME"  envDefault:"Dev"`
	FamilyName string `env:"FAMILY_NAME" envDefault:"Operator"`
}

// AuthConfig groups all staff authentication configuration.
// Password login is always available; SSO is layered on top of it.
type AuthConfig struct {
	// SSOMode determines which single sign-on provider to wire, if any.
	SSOMode SSOMode `env:"SSO_MODE" envDefault:"off"`

	// SessionTTL is how long an issued staff session stays valid.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"12h"`

	// OIDC configuration (used when SSOMode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevSSO configuration (used when SSOMode=mock).
	DevSSO DevSSOConfig `envPrefix:"DEV_SSO_"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < time.Minute {
		a.SessionTTL = time.Minute
	}
	a.OIDC.IssuerURL = strings.TrimSpace(a.OIDC.IssuerURL)
}
