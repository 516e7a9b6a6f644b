package gate

import (
	"testing"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/session"
)

func ident(role domainauth.Role) session.Snapshot {
	return session.Authenticated(domainauth.Identity{
		ID: "u1", Email: "u@harborlight.org", FullName: "U One", Role: role,
	})
}

func TestDecide_RoleTable(t *testing.T) {
	// Exhaustive 3x3 table: the view renders iff rank(user) >= rank(required).
	roles := domainauth.Roles()
	for i, user := range roles {
		for j, required := range roles {
			want := RedirectToDashboard
			if i >= j {
				want = RenderView
			}
			if got := Decide(required, ident(user)); got != want {
				t.Errorf("Decide(required=%s, user=%s) = %v, want %v", required, user, got, want)
			}
		}
	}
}

func TestDecide_UnauthenticatedAlwaysLogin(t *testing.T) {
	for _, required := range domainauth.Roles() {
		if got := Decide(required, session.Unauthenticated()); got != RedirectToLogin {
			t.Errorf("Decide(%s, unauthenticated) = %v, want RedirectToLogin", required, got)
		}
	}
}

func TestDecide_ResolvingShowsPlaceholderOnly(t *testing.T) {
	for _, required := range domainauth.Roles() {
		if got := Decide(required, session.Resolving()); got != ShowLoadingPlaceholder {
			t.Errorf("Decide(%s, resolving) = %v, want ShowLoadingPlaceholder", required, got)
		}
	}
}

func TestDecide_Scenarios(t *testing.T) {
	// Editor hits an Admin route: silent demotion to dashboard.
	if got := Decide(domainauth.RoleAdmin, ident(domainauth.RoleEditor)); got != RedirectToDashboard {
		t.Fatalf("editor on admin route: %v", got)
	}
	// SuperAdmin hits an Admin route: renders.
	if got := Decide(domainauth.RoleAdmin, ident(domainauth.RoleSuperAdmin)); got != RenderView {
		t.Fatalf("super admin on admin route: %v", got)
	}
	// No session on a SuperAdmin route: login, not dashboard.
	if got := Decide(domainauth.RoleSuperAdmin, session.Unauthenticated()); got != RedirectToLogin {
		t.Fatalf("anonymous on settings route: %v", got)
	}
}

func TestPolicy_Defaults(t *testing.T) {
	p := AdminPolicy()
	if got := p.RequiredRole("/admin/dashboard"); got != domainauth.RoleEditor {
		t.Fatalf("dashboard requires %s, want EDITOR", got)
	}
	if got := p.RequiredRole("/admin/settings"); got != domainauth.RoleSuperAdmin {
		t.Fatalf("settings requires %s, want SUPER_ADMIN", got)
	}
	if got := p.RequiredRole("/admin/blog"); got != domainauth.RoleEditor {
		t.Fatalf("blog requires %s, want EDITOR", got)
	}
	if got := p.RequiredRole("/admin/team"); got != domainauth.RoleAdmin {
		t.Fatalf("team requires %s, want ADMIN", got)
	}
	if p.LoginPath != "/admin" || p.DashboardPath != "/admin/dashboard" {
		t.Fatalf("unexpected redirect targets: %q %q", p.LoginPath, p.DashboardPath)
	}
}
