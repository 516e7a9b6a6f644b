package gate

import domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"

// Policy is the static mapping from route path to required minimum role.
// It is defined once at startup and consumed read-only; routes with no
// entry require RoleEditor.
type Policy struct {
	// LoginPath receives unauthenticated navigation.
	LoginPath string
	// DashboardPath receives authenticated-but-insufficient navigation.
	DashboardPath string

	rules map[string]domainauth.Role
}

// NewPolicy returns a policy with the standard login and dashboard routes.
func NewPolicy() *Policy {
	return &Policy{
		LoginPath:     "/admin",
		DashboardPath: "/admin/dashboard",
		rules:         make(map[string]domainauth.Role),
	}
}

// Require declares the minimum role for a route path. Returns the policy
// for chaining during startup wiring.
func (p *Policy) Require(path string, role domainauth.Role) *Policy {
	p.rules[path] = role
	return p
}

// RequiredRole returns the minimum role for a route path, defaulting to
// RoleEditor when the route declares none.
func (p *Policy) RequiredRole(path string) domainauth.Role {
	if r, ok := p.rules[path]; ok {
		return r
	}
	return domainauth.RoleEditor
}

// AdminPolicy enumerates the back-office routes and their minimum roles.
func AdminPolicy() *Policy {
	p := NewPolicy()
	p.Require("/admin/pages", domainauth.RoleAdmin)
	p.Require("/admin/team", domainauth.RoleAdmin)
	p.Require("/admin/services", domainauth.RoleAdmin)
	p.Require("/admin/contact", domainauth.RoleAdmin)
	p.Require("/admin/bookings", domainauth.RoleAdmin)
	p.Require("/admin/volunteers", domainauth.RoleAdmin)
	p.Require("/admin/newsletters", domainauth.RoleAdmin)
	p.Require("/admin/faq", domainauth.RoleAdmin)
	p.Require("/admin/legal", domainauth.RoleAdmin)
	p.Require("/admin/settings", domainauth.RoleSuperAdmin)
	p.Require("/admin/users", domainauth.RoleSuperAdmin)
	// /admin/dashboard, /admin/programs, /admin/resources, /admin/blog,
	// /admin/media default to RoleEditor.
	return p
}
