// Package devauth provides a config-driven SSO provider for local
// development: it skips the identity provider round-trip and returns a
// fixed identity from the callback.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/harborlight-collective/harborlight/internal/ports"
)

// Config names the identity every dev login resolves to. The email must
// still map to a profile row for a session to be issued.
type Config struct {
	Email      string
	GivenName  string
	FamilyName string
}

// Provider implements ports.SSOProvider for local development.
type Provider struct {
	claims ports.SSOClaims
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Email == "" {
		return nil, errors.New("devauth: email is required")
	}
	return &Provider{
		claims: ports.SSOClaims{
			Subject:    "dev:" + cfg.Email,
			Email:      strings.ToLower(cfg.Email),
			GivenName:  cfg.GivenName,
			FamilyName: cfg.FamilyName,
		},
	}, nil
}

// Begin short-circuits to our own callback with locally generated state
// and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", err
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", err
	}
	return "/admin/sso/callback?code=dev&state=" + state, state, nonce, nil
}

// Exchange ignores the code and returns the configured claims.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (ports.SSOClaims, error) {
	return p.claims, nil
}

func randomString(n int) (string, error) {
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		return s, nil
	}
	return s[:n], nil
}

var _ ports.SSOProvider = (*Provider)(nil)
