package ports

// Package ports defines interfaces (hexagonal ports) for auth and storage
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service and internal/session.

import (
	"context"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
)

// Credentials carries a password sign-in request.
type Credentials struct {
	Email    string
	Password string
}

// AuthProvider issues and validates sessions. It is the server-side face
// of the authentication collaborator: the provider owns persistence of
// session tokens; callers only hold the opaque token.
type AuthProvider interface {
	// SignIn verifies credentials and issues a new session.
	SignIn(ctx context.Context, creds Credentials) (domainauth.Session, error)

	// Validate resolves an opaque token to its live session.
	// An unknown or expired token yields ErrNoSession.
	Validate(ctx context.Context, token string) (domainauth.Session, error)

	// SignOut revokes a token. Revoking an unknown token is not an error.
	SignOut(ctx context.Context, token string) error
}

// UserAdmin is the provider's administrative surface: sign-up and the
// user-deletion operation used by the back office and the operator CLI.
type UserAdmin interface {
	CreateUser(ctx context.Context, in NewUser) (domainauth.Identity, error)
	UpdateUser(ctx context.Context, in UserUpdate) (domainauth.Identity, error)
	// DeleteUser removes the user and revokes every live session token
	// issued to them.
	DeleteUser(ctx context.Context, userID string) error
}

// NewUser carries inputs for administrative user creation.
type NewUser struct {
	Email    string
	Password string
	FullName string
	Role     domainauth.Role
}

// UserUpdate carries a partial profile update. Nil fields are unchanged.
type UserUpdate struct {
	UserID   string
	FullName *string
	Role     *domainauth.Role
	Password *string
}

// SessionTokenStore persists opaque session tokens for the auth provider.
type SessionTokenStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, token string) (domainauth.Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteForUser revokes every token issued to a user.
	DeleteForUser(ctx context.Context, userID string) error
}

// SessionChange is one event on a provider's session-change feed.
// Identity is nil when the session ended (sign-out, revocation).
type SessionChange struct {
	Identity *domainauth.Identity
}

// SessionSource is the per-principal view of the provider consumed by the
// in-process session service: the initial current-session query, explicit
// sign-in/sign-out, and a push feed of session changes. The returned stop
// function releases the subscription; calling it twice is safe.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*domainauth.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error)
	SignOut(ctx context.Context) error
	SessionChanges() (<-chan SessionChange, func())
}
