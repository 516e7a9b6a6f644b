package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

const (
	ssoStateCookie = "hl_sso_state"
	ssoNonceCookie = "hl_sso_nonce"
)

// AuthService is the surface the auth handlers need from the provider.
type AuthService interface {
	SignIn(ctx context.Context, creds ports.Credentials) (domainauth.Session, error)
	SignInSSO(ctx context.Context, claims ports.SSOClaims) (domainauth.Session, error)
	SignOut(ctx context.Context, token string) error
}

// AuthHandlers serves the admin login page, password sign-in, the SSO
// code flow, and sign-out.
type AuthHandlers struct {
	Auth     AuthService
	SSO      ports.SSOProvider // nil when SSO is not configured
	Renderer *TemplateRenderer
	Logger   *slog.Logger
	Secure   bool
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage serves GET /admin. Signed-in visitors go straight to the
// dashboard.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if IdentityFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Sign In"}).
		With("SSOEnabled", h.SSO != nil)
	_ = h.Renderer.Render(w, "login", data)
}

// Login handles POST /admin/login (the password form).
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")

	sess, err := h.Auth.SignIn(r.Context(), ports.Credentials{
		Email:    email,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		data := NewTemplateData(r, PageMeta{Title: "Sign In"}).
			With("SSOEnabled", h.SSO != nil).
			With("Email", email)
		status := http.StatusUnauthorized
		if domainauth.IsInvalidCredentials(err) {
			data.WithError("Invalid email or password.")
		} else {
			h.logger().ErrorContext(r.Context(), "sign-in failed", "err", err)
			status = http.StatusServiceUnavailable
			data.WithError("Sign-in is temporarily unavailable. Please try again.")
		}
		_ = h.Renderer.RenderStatus(w, status, "login", data)
		return
	}

	h.setSessionCookie(w, sess)
	http.Redirect(w, r, safeRedirect(r.PostFormValue("next")), http.StatusSeeOther)
}

// SSOLogin handles GET /admin/sso/login: starts the provider code flow.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	if h.SSO == nil {
		http.NotFound(w, r)
		return
	}

	authURL, state, nonce, err := h.SSO.Begin(r.Context(), ports.BeginInput{
		RedirectURL: safeRedirect(r.URL.Query().Get("next")),
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sso begin failed", "err", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	h.setFlowCookie(w, ssoStateCookie, state)
	h.setFlowCookie(w, ssoNonceCookie, nonce)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// SSOCallback handles GET /admin/sso/callback: verifies state against the
// pinned cookie, exchanges the code, and issues a local session. The
// provider only authenticates; authorization requires a matching profile
// row, so an unknown email is turned away at the login page.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if h.SSO == nil {
		http.NotFound(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(ssoStateCookie)
	if code == "" || state == "" || err != nil || stateCookie.Value != state {
		h.failLogin(w, r, "Sign-in could not be completed. Please try again.")
		return
	}
	nonce := ""
	if c, err := r.Cookie(ssoNonceCookie); err == nil {
		nonce = c.Value
	}
	h.clearFlowCookies(w)

	claims, err := h.SSO.Exchange(r.Context(), ports.ExchangeInput{Code: code, State: state, Nonce: nonce})
	if err != nil {
		h.logger().WarnContext(r.Context(), "sso exchange failed", "err", err)
		h.failLogin(w, r, "Sign-in could not be completed. Please try again.")
		return
	}

	sess, err := h.Auth.SignInSSO(r.Context(), claims)
	if err != nil {
		if domainauth.IsInvalidCredentials(err) {
			h.failLogin(w, r, "Your account has not been provisioned. Contact an administrator.")
			return
		}
		h.logger().ErrorContext(r.Context(), "sso sign-in failed", "err", err)
		h.failLogin(w, r, "Sign-in is temporarily unavailable. Please try again.")
		return
	}

	h.setSessionCookie(w, sess)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Logout handles POST /admin/logout. Idempotent: a missing or unknown
// token still clears the cookie and lands on the login page.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.Auth.SignOut(r.Context(), cookie.Value); err != nil {
			h.logger().WarnContext(r.Context(), "sign-out failed", "err", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AuthHandlers) failLogin(w http.ResponseWriter, r *http.Request, msg string) {
	data := NewTemplateData(r, PageMeta{Title: "Sign In"}).
		With("SSOEnabled", h.SSO != nil).
		WithError(msg)
	_ = h.Renderer.RenderStatus(w, http.StatusUnauthorized, "login", data)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, sess domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/admin/sso",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearFlowCookies(w http.ResponseWriter) {
	for _, name := range []string{ssoStateCookie, ssoNonceCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/admin/sso", MaxAge: -1})
	}
}

// safeRedirect allows only same-site relative paths; everything else
// falls back to the dashboard.
func safeRedirect(next string) string {
	if next == "" {
		return "/admin/dashboard"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/admin/dashboard"
	}
	return next
}
