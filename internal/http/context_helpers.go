package httpx

import (
	"context"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/session"
)

// snapshotKey is an unexported context key type to avoid collisions
// across packages. All handlers and middleware use this one key.
type snapshotKey struct{}

// csrfKey carries the request's CSRF token for template access.
type csrfKey struct{}

// SetSnapshotInContext returns a child context carrying the session
// snapshot derived for this request.
func SetSnapshotInContext(ctx context.Context, snap session.Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey{}, snap)
}

// SnapshotFromContext returns the request's session snapshot. Requests
// that never passed the session middleware read as Unauthenticated.
func SnapshotFromContext(ctx context.Context) session.Snapshot {
	if snap, ok := ctx.Value(snapshotKey{}).(session.Snapshot); ok {
		return snap
	}
	return session.Unauthenticated()
}

// IdentityFromContext returns the authenticated identity, or nil.
func IdentityFromContext(ctx context.Context) *domainauth.Identity {
	snap := SnapshotFromContext(ctx)
	if snap.State != session.StateAuthenticated {
		return nil
	}
	return snap.Identity
}

func setCSRFTokenInContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfKey{}, token)
}

// CSRFTokenFromContext returns the CSRF token for the request, empty
// when the CSRF middleware did not run.
func CSRFTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(csrfKey{}).(string); ok {
		return token
	}
	return ""
}
