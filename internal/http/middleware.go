package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/harborlight-collective/harborlight/internal/gate"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/session"
)

// SessionCookieName carries the opaque session token.
const SessionCookieName = "hl_session"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver derives the session snapshot for one request.
type SessionResolver interface {
	Resolve(r *http.Request) session.Snapshot
}

// CookieResolver resolves the session cookie against the auth provider.
// No cookie and unknown or expired tokens read as Unauthenticated; a
// provider failure reads as Resolving, so protected screens show the
// loading placeholder rather than bouncing a signed-in user to login.
type CookieResolver struct {
	Provider ports.AuthProvider
	Logger   *slog.Logger
}

func (c CookieResolver) Resolve(r *http.Request) session.Snapshot {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return session.Unauthenticated()
	}

	sess, err := c.Provider.Validate(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, ports.ErrNoSession) {
			return session.Unauthenticated()
		}
		if c.Logger != nil {
			c.Logger.WarnContext(r.Context(), "session validation unavailable", "err", err)
		}
		return session.Resolving()
	}

	return session.Authenticated(sess.Identity())
}

// WithSession attaches the resolved session snapshot to every request.
func WithSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := resolver.Resolve(r)
			next.ServeHTTP(w, r.WithContext(SetSnapshotInContext(r.Context(), snap)))
		})
	}
}

// Protect enforces the route policy: the route's required role is looked
// up from the policy by admin section and the session snapshot decides
// what the visitor sees. The placeholder response carries Retry-After so
// a transient resolver failure recovers on refresh without user action.
func Protect(policy *gate.Policy, renderer *TemplateRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			required := policy.RequiredRole(routeKey(r.URL.Path))

			snap := SnapshotFromContext(r.Context())
			switch gate.Decide(required, snap) {
			case gate.RenderView:
				next.ServeHTTP(w, r)
			case gate.ShowLoadingPlaceholder:
				renderLoadingPlaceholder(w, r, renderer)
			case gate.RedirectToDashboard:
				http.Redirect(w, r, policy.DashboardPath, http.StatusSeeOther)
			default:
				http.Redirect(w, r, policy.LoginPath, http.StatusSeeOther)
			}
		})
	}
}

// routeKey truncates a path to its admin section ("/admin/pages/3/edit"
// becomes "/admin/pages") so nested routes inherit the section's role.
func routeKey(p string) string {
	const prefix = "/admin/"
	if !strings.HasPrefix(p, prefix) {
		return p
	}
	rest := p[len(prefix):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return prefix + rest
}

func renderLoadingPlaceholder(w http.ResponseWriter, r *http.Request, renderer *TemplateRenderer) {
	w.Header().Set("Retry-After", "2")
	w.WriteHeader(http.StatusServiceUnavailable)
	if renderer == nil {
		_, _ = w.Write([]byte("Checking your session..."))
		return
	}
	_ = renderer.Render(w, "loading", NewTemplateData(r, PageMeta{Title: "Loading"}))
}
