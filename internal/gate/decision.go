// Package gate decides whether a protected view may render for the
// current session. The decision is a pure function of the required role
// and the session snapshot; applying it (actually redirecting) belongs
// to the HTTP layer.
package gate

import (
	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/session"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// ShowLoadingPlaceholder: session still resolving; render a minimal
	// non-interactive placeholder, neither the view nor a redirect.
	ShowLoadingPlaceholder Decision = iota
	// RedirectToLogin: no identity.
	RedirectToLogin
	// RedirectToDashboard: identity present but role insufficient.
	// Insufficient privilege never shows an error page; navigation is
	// silently demoted to the default authenticated screen.
	RedirectToDashboard
	// RenderView: identity present and role sufficient.
	RenderView
)

func (d Decision) String() string {
	switch d {
	case ShowLoadingPlaceholder:
		return "loading"
	case RedirectToLogin:
		return "redirect-login"
	case RedirectToDashboard:
		return "redirect-dashboard"
	case RenderView:
		return "render"
	default:
		return "unknown"
	}
}

// Decide authorizes the current snapshot against the required role.
// The redirect target depends only on whether an identity exists, not on
// why authorization failed.
func Decide(required domainauth.Role, snap session.Snapshot) Decision {
	switch snap.State {
	case session.StateResolving:
		return ShowLoadingPlaceholder
	case session.StateAuthenticated:
		if snap.Identity == nil {
			// Malformed snapshot; absent identity redirects to login.
			return RedirectToLogin
		}
		if !snap.Identity.Role.AtLeast(required) {
			return RedirectToDashboard
		}
		return RenderView
	default:
		return RedirectToLogin
	}
}
