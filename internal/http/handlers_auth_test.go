package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/session"
)

func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	renderer, err := NewTemplateRenderer(nil)
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return renderer
}

type fakeAuthService struct {
	sess domainauth.Session
	err  error

	signedInEmail string
	ssoClaims     *ports.SSOClaims
	signedOut     []string
}

func (f *fakeAuthService) SignIn(ctx context.Context, creds ports.Credentials) (domainauth.Session, error) {
	f.signedInEmail = creds.Email
	return f.sess, f.err
}

func (f *fakeAuthService) SignInSSO(ctx context.Context, claims ports.SSOClaims) (domainauth.Session, error) {
	f.ssoClaims = &claims
	return f.sess, f.err
}

func (f *fakeAuthService) SignOut(ctx context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return f.err
}

type fakeSSOProvider struct {
	authURL string
	state   string
	nonce   string
	claims  ports.SSOClaims
	err     error
}

func (f *fakeSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	return f.authURL, f.state, f.nonce, f.err
}

func (f *fakeSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.SSOClaims, error) {
	return f.claims, f.err
}

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLoginPage_Anonymous(t *testing.T) {
	h := &AuthHandlers{Renderer: newTestRenderer(t)}
	w := httptest.NewRecorder()
	h.LoginPage(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Sign In") {
		t.Fatal("login page missing sign-in form")
	}
}

func TestLoginPage_SignedInGoesToDashboard(t *testing.T) {
	h := &AuthHandlers{Renderer: newTestRenderer(t)}
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r = r.WithContext(SetSnapshotInContext(r.Context(),
		session.Authenticated(domainauth.Identity{ID: "u1", Role: domainauth.RoleEditor})))
	w := httptest.NewRecorder()
	h.LoginPage(w, r)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestLogin_Success(t *testing.T) {
	auth := &fakeAuthService{sess: domainauth.Session{
		Token:     "tok-1",
		UserID:    "u1",
		Email:     "jo@harborlight.org",
		Role:      domainauth.RoleEditor,
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}}
	h := &AuthHandlers{Auth: auth, Renderer: newTestRenderer(t)}

	w := httptest.NewRecorder()
	h.Login(w, postForm("/admin/login", url.Values{
		"email":    {"jo@harborlight.org"},
		"password": {"s3cret"},
	}))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if auth.signedInEmail != "jo@harborlight.org" {
		t.Fatalf("signed in as %q", auth.signedInEmail)
	}
	cookie := sessionCookie(t, w)
	if cookie == nil || cookie.Value != "tok-1" {
		t.Fatalf("session cookie = %+v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
}

func TestLogin_HonorsSafeNextParam(t *testing.T) {
	auth := &fakeAuthService{sess: domainauth.Session{Token: "tok-1"}}
	h := &AuthHandlers{Auth: auth, Renderer: newTestRenderer(t)}

	w := httptest.NewRecorder()
	h.Login(w, postForm("/admin/login", url.Values{
		"email":    {"jo@harborlight.org"},
		"password": {"s3cret"},
		"next":     {"/admin/blog"},
	}))

	if loc := w.Header().Get("Location"); loc != "/admin/blog" {
		t.Fatalf("Location = %q, want /admin/blog", loc)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth := &fakeAuthService{err: domainauth.NewAuthError(domainauth.ErrInvalidCredentials, nil)}
	h := &AuthHandlers{Auth: auth, Renderer: newTestRenderer(t)}

	w := httptest.NewRecorder()
	h.Login(w, postForm("/admin/login", url.Values{
		"email":    {"jo@harborlight.org"},
		"password": {"wrong"},
	}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if sessionCookie(t, w) != nil {
		t.Fatal("rejected sign-in must not set a session cookie")
	}
	if !strings.Contains(w.Body.String(), "Invalid email or password") {
		t.Fatal("missing rejection message")
	}
}

func TestLogin_ProviderFailure(t *testing.T) {
	auth := &fakeAuthService{err: errors.New("redis: connection refused")}
	h := &AuthHandlers{Auth: auth, Renderer: newTestRenderer(t)}

	w := httptest.NewRecorder()
	h.Login(w, postForm("/admin/login", url.Values{
		"email":    {"jo@harborlight.org"},
		"password": {"s3cret"},
	}))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if sessionCookie(t, w) != nil {
		t.Fatal("failed sign-in must not set a session cookie")
	}
}

func TestLogout_RevokesAndClearsCookie(t *testing.T) {
	auth := &fakeAuthService{}
	h := &AuthHandlers{Auth: auth}

	r := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	w := httptest.NewRecorder()
	h.Logout(w, r)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if len(auth.signedOut) != 1 || auth.signedOut[0] != "tok-1" {
		t.Fatalf("signed out = %v", auth.signedOut)
	}
	cookie := sessionCookie(t, w)
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatalf("session cookie not cleared: %+v", cookie)
	}
}

func TestLogout_WithoutCookieStillLandsOnLogin(t *testing.T) {
	auth := &fakeAuthService{}
	h := &AuthHandlers{Auth: auth}

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if len(auth.signedOut) != 0 {
		t.Fatal("no token to revoke")
	}
}

func TestSSOLogin_NotConfigured(t *testing.T) {
	h := &AuthHandlers{Renderer: newTestRenderer(t)}
	w := httptest.NewRecorder()
	h.SSOLogin(w, httptest.NewRequest(http.MethodGet, "/admin/sso/login", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSSOLogin_RedirectsToProvider(t *testing.T) {
	sso := &fakeSSOProvider{
		authURL: "https://id.example.org/authorize?client_id=harborlight",
		state:   "state-1",
		nonce:   "nonce-1",
	}
	h := &AuthHandlers{SSO: sso, Renderer: newTestRenderer(t)}

	w := httptest.NewRecorder()
	h.SSOLogin(w, httptest.NewRequest(http.MethodGet, "/admin/sso/login", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != sso.authURL {
		t.Fatalf("Location = %q", loc)
	}
	got := map[string]string{}
	for _, c := range w.Result().Cookies() {
		got[c.Name] = c.Value
	}
	if got[ssoStateCookie] != "state-1" || got[ssoNonceCookie] != "nonce-1" {
		t.Fatalf("flow cookies = %v", got)
	}
}

func TestSSOCallback_Success(t *testing.T) {
	auth := &fakeAuthService{sess: domainauth.Session{
		Token: "tok-sso", UserID: "u1", Role: domainauth.RoleAdmin,
	}}
	sso := &fakeSSOProvider{claims: ports.SSOClaims{
		Subject: "sub-1", Email: "priya@harborlight.org",
	}}
	h := &AuthHandlers{Auth: auth, SSO: sso, Renderer: newTestRenderer(t)}

	r := httptest.NewRequest(http.MethodGet, "/admin/sso/callback?code=c1&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: ssoStateCookie, Value: "state-1"})
	r.AddCookie(&http.Cookie{Name: ssoNonceCookie, Value: "nonce-1"})
	w := httptest.NewRecorder()
	h.SSOCallback(w, r)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if auth.ssoClaims == nil || auth.ssoClaims.Email != "priya@harborlight.org" {
		t.Fatalf("claims = %+v", auth.ssoClaims)
	}
	cookie := sessionCookie(t, w)
	if cookie == nil || cookie.Value != "tok-sso" {
		t.Fatalf("session cookie = %+v", cookie)
	}
}

func TestSSOCallback_StateMismatch(t *testing.T) {
	auth := &fakeAuthService{}
	sso := &fakeSSOProvider{}
	h := &AuthHandlers{Auth: auth, SSO: sso, Renderer: newTestRenderer(t)}

	r := httptest.NewRequest(http.MethodGet, "/admin/sso/callback?code=c1&state=forged", nil)
	r.AddCookie(&http.Cookie{Name: ssoStateCookie, Value: "state-1"})
	w := httptest.NewRecorder()
	h.SSOCallback(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if auth.ssoClaims != nil {
		t.Fatal("forged state must not reach the provider exchange")
	}
	if sessionCookie(t, w) != nil {
		t.Fatal("forged state must not set a session cookie")
	}
}

func TestSSOCallback_UnprovisionedEmail(t *testing.T) {
	auth := &fakeAuthService{err: domainauth.NewAuthError(domainauth.ErrInvalidCredentials, nil)}
	sso := &fakeSSOProvider{claims: ports.SSOClaims{Email: "stranger@example.org"}}
	h := &AuthHandlers{Auth: auth, SSO: sso, Renderer: newTestRenderer(t)}

	r := httptest.NewRequest(http.MethodGet, "/admin/sso/callback?code=c1&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: ssoStateCookie, Value: "state-1"})
	w := httptest.NewRecorder()
	h.SSOCallback(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not been provisioned") {
		t.Fatal("missing provisioning message")
	}
}

func TestSafeRedirect(t *testing.T) {
	cases := []struct {
		next string
		want string
	}{
		{"", "/admin/dashboard"},
		{"/admin/blog", "/admin/blog"},
		{"https://evil.example.org/", "/admin/dashboard"},
		{"//evil.example.org/", "/admin/dashboard"},
		{"relative/path", "/admin/dashboard"},
		{"/admin/users?page=2", "/admin/users?page=2"},
	}
	for _, tc := range cases {
		if got := safeRedirect(tc.next); got != tc.want {
			t.Errorf("safeRedirect(%q) = %q, want %q", tc.next, got, tc.want)
		}
	}
}
