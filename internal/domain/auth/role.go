package auth

import "fmt"

// Role represents an application's authorization role.
// Roles form a total order: Editor < Admin < SuperAdmin.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleEditor     Role = "EDITOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Rank returns the position of the role in the total order.
// Editor=1, Admin=2, SuperAdmin=3; unknown roles rank 0 and
// therefore never satisfy any requirement.
func (r Role) Rank() int {
	switch r {
	case RoleEditor:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool { return r.Rank() > 0 }

// AtLeast reports whether r satisfies a requirement of at least required.
func (r Role) AtLeast(required Role) bool {
	return r.Valid() && required.Valid() && r.Rank() >= required.Rank()
}

// ParseRole converts a stored string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// Roles lists all defined roles in ascending order. Useful for
// admin form selects and validation.
func Roles() []Role {
	return []Role{RoleEditor, RoleAdmin, RoleSuperAdmin}
}
