package data

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/harborlight-collective/harborlight/internal/data/database"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// ProfileRepo provides database operations for the role-bearing user
// profiles consumed by the auth provider and the users screen.
type ProfileRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

// NewProfileRepo creates a ProfileRepo with the real clock.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, Clock: RealTimeProvider{}}
}

// Create inserts a new profile row.
func (r *ProfileRepo) Create(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, error) {
	if req == nil {
		return nil, apperrors.Validation("create profile request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("profiles", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("email", strings.ToLower(strings.TrimSpace(req.Email))),
		database.Set("full_name", strings.TrimSpace(req.FullName)),
		database.Set("role", string(req.Role)),
		database.Set("password_hash", req.PasswordHash),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.Profile](ctx, r.DB, query, args...)
}

// GetByID retrieves a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("profiles",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.Profile](ctx, r.DB, query, args...)
}

// GetByEmail retrieves a profile by email (lowercased).
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("profiles",
		database.WithCondition(database.WhereCond("email", database.Equal, strings.ToLower(strings.TrimSpace(email)))),
		database.WithLimit(1),
	))
	return queryRow[model.Profile](ctx, r.DB, query, args...)
}

// List retrieves profiles with search and role filtering.
func (r *ProfileRepo) List(ctx context.Context, opts model.ProfilesListOptions) ([]model.Profile, error) {
	lo := opts.Normalized()
	conds := profileConds(opts, lo)
	sort, dir := sortColumn(lo.Sort, lo.Dir, map[string]bool{"created_at": true, "email": true, "full_name": true})
	query, args := database.BuildListQuery(database.NewListQueryOptions("profiles",
		database.WithConditions(conds...),
		database.WithOrderBy(sort, dir),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.Profile](ctx, r.DB, query, args...)
}

// Count returns the number of profiles matching the filters.
func (r *ProfileRepo) Count(ctx context.Context, opts model.ProfilesListOptions) (int, error) {
	return countRows(ctx, r.DB, "profiles", profileConds(opts, opts.Normalized())...)
}

func profileConds(opts model.ProfilesListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("full_name ILIKE $1 OR email ILIKE $2", pat, pat))
	}
	if opts.Role != nil {
		conds = append(conds, database.WhereCond("role", database.Equal, string(*opts.Role)))
	}
	return conds
}

// Update applies a partial profile update and returns the fresh row.
func (r *ProfileRepo) Update(ctx context.Context, id string, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if req == nil {
		return nil, apperrors.Validation("update profile request is required")
	}
	sets := []database.SetClause{database.Set("updated_at", r.Clock.Now().UTC())}
	if req.FullName != nil {
		sets = append(sets, database.Set("full_name", strings.TrimSpace(*req.FullName)))
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.ValidationField("role", "invalid role")
		}
		sets = append(sets, database.Set("role", string(*req.Role)))
	}
	if req.PasswordHash != nil {
		sets = append(sets, database.Set("password_hash", *req.PasswordHash))
	}
	query, args := database.BuildUpdateQuery("profiles", sets,
		[]database.Condition{database.WhereCond("id", database.Equal, id)}, "*")
	return queryRow[model.Profile](ctx, r.DB, query, args...)
}

// Delete removes a profile row.
func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "profiles", id)
}

// sortColumn validates a sort request against an allowlist, defaulting
// to created_at descending.
func sortColumn(sort, dir string, allowed map[string]bool) (string, string) {
	if !allowed[sort] {
		sort = "created_at"
		if dir == "" {
			dir = "desc"
		}
	}
	if dir == "" {
		dir = "desc"
	}
	return sort, dir
}
