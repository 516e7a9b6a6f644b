//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
)

// Profile is the role-bearing user record keyed by the auth provider's
// identity id. The provider owns credentials; this row owns the role.
type Profile struct {
	ID           string          `json:"id"         db:"id"`
	Email        string          `json:"email"      db:"email"`
	FullName     string          `json:"full_name"  db:"full_name"`
	Role         domainauth.Role `json:"role"       db:"role"`
	PasswordHash string          `json:"-"          db:"password_hash"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Identity returns the identity snapshot for this profile.
func (p Profile) Identity() domainauth.Identity {
	return domainauth.Identity{ID: p.ID, Email: p.Email, FullName: p.FullName, Role: p.Role}
}

// CreateProfileRequest carries inputs for creating a profile row.
type CreateProfileRequest struct {
	Email        string
	FullName     string
	Role         domainauth.Role
	PasswordHash string
}

// Validate checks required fields.
func (r *CreateProfileRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(r.FullName) == "" {
		return errors.New("full name is required")
	}
	if !r.Role.Valid() {
		return errors.New("role is required")
	}
	if r.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}

// UpdateProfileRequest carries a partial profile update; nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	FullName     *string
	Role         *domainauth.Role
	PasswordHash *string
}

// ProfilesListOptions filters the user list.
type ProfilesListOptions struct {
	ListOptions
	Role *domainauth.Role // exact match
}
