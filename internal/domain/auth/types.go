package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal as surfaced to the
// application: the provider's user record joined with the role-bearing
// profile row. The provider remains the source of truth; holders treat
// this as a read-only snapshot.
type Identity struct {
	ID       string
	Email    string
	FullName string
	Role     Role
}

// Session is the server-side record persisted for an authenticated user.
// Token is an opaque session identifier handed to the browser as a cookie.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity returns the identity snapshot carried by the session.
func (s Session) Identity() Identity {
	return Identity{ID: s.UserID, Email: s.Email, FullName: s.FullName, Role: s.Role}
}

// Expired reports whether the session is past its expiry at time now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
