package auth

import "testing"

func TestRole_Rank(t *testing.T) {
	cases := []struct {
		role Role
		want int
	}{
		{RoleEditor, 1},
		{RoleAdmin, 2},
		{RoleSuperAdmin, 3},
		{Role("viewer"), 0},
		{Role(""), 0},
	}
	for _, tc := range cases {
		if got := tc.role.Rank(); got != tc.want {
			t.Errorf("Rank(%q) = %d, want %d", tc.role, got, tc.want)
		}
	}
}

func TestRole_AtLeast(t *testing.T) {
	// Exhaustive table over the total order.
	roles := Roles()
	for i, user := range roles {
		for j, required := range roles {
			want := i >= j
			if got := user.AtLeast(required); got != want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", user, required, got, want)
			}
		}
	}
}

func TestRole_AtLeast_InvalidNeverSatisfies(t *testing.T) {
	if Role("nope").AtLeast(RoleEditor) {
		t.Fatalf("invalid role satisfied Editor requirement")
	}
	if RoleSuperAdmin.AtLeast(Role("nope")) {
		t.Fatalf("invalid requirement was satisfied")
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		if err != nil || got != r {
			t.Fatalf("ParseRole(%q) = %v, %v", r, got, err)
		}
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
