// Package pwauth implements password authentication backed by the
// profiles table. Password hashes use bcrypt; issued session tokens are
// opaque random strings persisted in a ports.SessionTokenStore.
package pwauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/harborlight-collective/harborlight/internal/data"
	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// Config controls session issuance.
type Config struct {
	SessionTTL time.Duration // default 12h when zero
	BcryptCost int           // default bcrypt.DefaultCost when zero
}

// Provider implements ports.AuthProvider and ports.UserAdmin over the
// profiles table and a session token store.
type Provider struct {
	profiles *data.ProfileRepo
	tokens   ports.SessionTokenStore
	ttl      time.Duration
	cost     int
}

func New(profiles *data.ProfileRepo, tokens ports.SessionTokenStore, cfg Config) *Provider {
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{profiles: profiles, tokens: tokens, ttl: ttl, cost: cost}
}

// SignIn verifies the password and issues a fresh session token. An
// unknown email and a wrong password are indistinguishable to callers.
func (p *Provider) SignIn(ctx context.Context, creds ports.Credentials) (domainauth.Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrInvalidCredentials, errors.New("missing credentials"))
	}

	profile, err := p.profiles.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// burn a hash comparison so the timing matches the wrong-password path
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrInvalidCredentials, err)
		}
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrProviderError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(creds.Password)); err != nil {
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrInvalidCredentials, err)
	}

	token, err := randomToken(32)
	if err != nil {
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrProviderError, err)
	}

	sess := domainauth.Session{
		Token:     token,
		UserID:    profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      profile.Role,
		ExpiresAt: time.Now().Add(p.ttl),
	}
	if err := p.tokens.Save(ctx, sess); err != nil {
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrProviderError, err)
	}
	return sess, nil
}

// SignInSSO issues a session for verified SSO claims. The email must map
// to an existing profile row; the role always comes from the profile,
// never from the identity provider.
func (p *Provider) SignInSSO(ctx context.Context, claims ports.SSOClaims) (domainauth.Session, error) {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrInvalidCredentials, errors.New("missing email claim"))
	}

	profile, err := p.profiles.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrInvalidCredentials, err)
		}
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrProviderError, err)
	}

	token, err := randomToken(32)
	if err != nil {
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrProviderError, err)
	}

	sess := domainauth.Session{
		Token:     token,
		UserID:    profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      profile.Role,
		ExpiresAt: time.Now().Add(p.ttl),
	}
	if err := p.tokens.Save(ctx, sess); err != nil {
		return domainauth.Session{}, domainauth.NewAuthError(domainauth.ErrProviderError, err)
	}
	return sess, nil
}

// Validate resolves a token to its live session.
func (p *Provider) Validate(ctx context.Context, token string) (domainauth.Session, error) {
	return p.tokens.Get(ctx, token)
}

// SignOut revokes a token. Unknown tokens are ignored.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	return p.tokens.Delete(ctx, token)
}

// CreateUser provisions a profile with a bcrypt password hash.
func (p *Provider) CreateUser(ctx context.Context, in ports.NewUser) (domainauth.Identity, error) {
	if len(in.Password) < 8 {
		return domainauth.Identity{}, apperrors.ValidationField("password must be at least 8 characters", "password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("hash password: %w", err)
	}
	profile, err := p.profiles.Create(ctx, &model.CreateProfileRequest{
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         in.Role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domainauth.Identity{}, err
	}
	return profile.Identity(), nil
}

// UpdateUser applies a partial profile update. Changing the password or
// the role revokes every live session for the user.
func (p *Provider) UpdateUser(ctx context.Context, in ports.UserUpdate) (domainauth.Identity, error) {
	req := &model.UpdateProfileRequest{FullName: in.FullName, Role: in.Role}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return domainauth.Identity{}, apperrors.ValidationField("password must be at least 8 characters", "password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), p.cost)
		if err != nil {
			return domainauth.Identity{}, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		req.PasswordHash = &h
	}

	profile, err := p.profiles.Update(ctx, in.UserID, req)
	if err != nil {
		return domainauth.Identity{}, err
	}

	if in.Password != nil || in.Role != nil {
		if err := p.tokens.DeleteForUser(ctx, in.UserID); err != nil {
			return domainauth.Identity{}, fmt.Errorf("revoke sessions: %w", err)
		}
	}
	return profile.Identity(), nil
}

// DeleteUser revokes every session token, then removes the profile.
// Revocation comes first: Validate never re-reads the profile row, so a
// token surviving a failed revocation after the row delete would stay
// usable until its TTL.
func (p *Provider) DeleteUser(ctx context.Context, userID string) error {
	if err := p.tokens.DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return p.profiles.Delete(ctx, userID)
}

var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

var (
	_ ports.AuthProvider = (*Provider)(nil)
	_ ports.UserAdmin    = (*Provider)(nil)
)
