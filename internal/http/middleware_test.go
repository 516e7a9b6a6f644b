package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/gate"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/session"
)

type fakeAuthProvider struct {
	sess domainauth.Session
	err  error
}

func (f *fakeAuthProvider) SignIn(ctx context.Context, creds ports.Credentials) (domainauth.Session, error) {
	return f.sess, f.err
}

func (f *fakeAuthProvider) Validate(ctx context.Context, token string) (domainauth.Session, error) {
	return f.sess, f.err
}

func (f *fakeAuthProvider) SignOut(ctx context.Context, token string) error {
	return f.err
}

func TestCookieResolver_NoCookie(t *testing.T) {
	resolver := CookieResolver{Provider: &fakeAuthProvider{}}
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)

	snap := resolver.Resolve(r)
	if snap.State != session.StateUnauthenticated {
		t.Fatalf("no cookie resolved to %v, want unauthenticated", snap.State)
	}
}

func TestCookieResolver_EmptyCookie(t *testing.T) {
	resolver := CookieResolver{Provider: &fakeAuthProvider{}}
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: ""})

	snap := resolver.Resolve(r)
	if snap.State != session.StateUnauthenticated {
		t.Fatalf("empty cookie resolved to %v, want unauthenticated", snap.State)
	}
}

func TestCookieResolver_UnknownToken(t *testing.T) {
	resolver := CookieResolver{Provider: &fakeAuthProvider{err: ports.ErrNoSession}}
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-token"})

	snap := resolver.Resolve(r)
	if snap.State != session.StateUnauthenticated {
		t.Fatalf("unknown token resolved to %v, want unauthenticated", snap.State)
	}
}

func TestCookieResolver_ProviderDownReadsAsResolving(t *testing.T) {
	// A transient provider failure must not bounce a signed-in user to
	// login; it reads as Resolving so the gate shows the placeholder.
	resolver := CookieResolver{Provider: &fakeAuthProvider{err: errors.New("redis: connection refused")}}
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})

	snap := resolver.Resolve(r)
	if snap.State != session.StateResolving {
		t.Fatalf("provider failure resolved to %v, want resolving", snap.State)
	}
}

func TestCookieResolver_ValidToken(t *testing.T) {
	resolver := CookieResolver{Provider: &fakeAuthProvider{sess: domainauth.Session{
		Token: "tok-1", UserID: "u1", Email: "jo@harborlight.org", Role: domainauth.RoleEditor,
	}}}
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})

	snap := resolver.Resolve(r)
	if snap.State != session.StateAuthenticated {
		t.Fatalf("valid token resolved to %v, want authenticated", snap.State)
	}
	if snap.Identity == nil || snap.Identity.Email != "jo@harborlight.org" {
		t.Fatalf("identity = %+v", snap.Identity)
	}
}

// protect wires the Protect middleware around a marker handler with the
// given snapshot pre-attached, as WithSession would do.
func protect(t *testing.T, path string, snap session.Snapshot) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("view"))
	})
	h := Protect(gate.AdminPolicy(), nil)(next)

	r := httptest.NewRequest(http.MethodGet, path, nil)
	r = r.WithContext(SetSnapshotInContext(r.Context(), snap))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestProtect_SufficientRoleRenders(t *testing.T) {
	w := protect(t, "/admin/blog", session.Authenticated(domainauth.Identity{
		ID: "u1", Role: domainauth.RoleEditor,
	}))
	if w.Code != http.StatusOK || w.Body.String() != "view" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestProtect_InsufficientRoleGoesToDashboard(t *testing.T) {
	w := protect(t, "/admin/users", session.Authenticated(domainauth.Identity{
		ID: "u1", Role: domainauth.RoleAdmin,
	}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/dashboard" {
		t.Fatalf("Location = %q, want /admin/dashboard", loc)
	}
}

func TestProtect_AnonymousGoesToLogin(t *testing.T) {
	w := protect(t, "/admin/dashboard", session.Unauthenticated())
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("Location = %q, want /admin", loc)
	}
}

func TestProtect_ResolvingShowsPlaceholder(t *testing.T) {
	w := protect(t, "/admin/dashboard", session.Resolving())
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After = %q, want 2", got)
	}
	if w.Header().Get("Location") != "" {
		t.Fatal("placeholder must not redirect")
	}
}

func TestProtect_NestedRouteInheritsSectionRole(t *testing.T) {
	// /admin/pages/3/edit falls under the /admin/pages section, which
	// requires ADMIN.
	w := protect(t, "/admin/pages/3/edit", session.Authenticated(domainauth.Identity{
		ID: "u1", Role: domainauth.RoleEditor,
	}))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestRouteKey(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/admin/pages", "/admin/pages"},
		{"/admin/pages/3/edit", "/admin/pages"},
		{"/admin/users/abc/delete", "/admin/users"},
		{"/admin/dashboard", "/admin/dashboard"},
		{"/admin", "/admin"},
		{"/about", "/about"},
	}
	for _, tc := range cases {
		if got := routeKey(tc.path); got != tc.want {
			t.Errorf("routeKey(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestWithSession_AttachesSnapshot(t *testing.T) {
	provider := &fakeAuthProvider{sess: domainauth.Session{
		Token: "tok-1", UserID: "u1", Email: "jo@harborlight.org", Role: domainauth.RoleAdmin,
	}}

	var got session.Snapshot
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SnapshotFromContext(r.Context())
	})
	h := WithSession(CookieResolver{Provider: provider})(next)

	r := httptest.NewRequest(http.MethodGet, "/admin/team", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got.State != session.StateAuthenticated {
		t.Fatalf("snapshot state = %v", got.State)
	}
	if id := got.Identity; id == nil || id.Role != domainauth.RoleAdmin {
		t.Fatalf("identity = %+v", got.Identity)
	}
}

func TestSnapshotFromContext_DefaultsToUnauthenticated(t *testing.T) {
	snap := SnapshotFromContext(context.Background())
	if snap.State != session.StateUnauthenticated {
		t.Fatalf("bare context reads as %v, want unauthenticated", snap.State)
	}
	if IdentityFromContext(context.Background()) != nil {
		t.Fatal("bare context must carry no identity")
	}
}
