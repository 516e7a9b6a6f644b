package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/harborlight-collective/harborlight/internal/data/database"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// TeamRepo provides database operations for team members.
type TeamRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewTeamRepo(db *sql.DB) *TeamRepo {
	return &TeamRepo{DB: db, Clock: RealTimeProvider{}}
}

// TeamListOptions filters the admin team list.
type TeamListOptions struct {
	model.ListOptions
	Category *model.TeamCategory
}

func validateTeamMember(m *model.TeamMember) error {
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.Validation("name is required")
	}
	if !m.Category.Valid() {
		return apperrors.ValidationField("unknown team category", "category")
	}
	if m.SocialsJSON != "" && !json.Valid([]byte(m.SocialsJSON)) {
		return apperrors.ValidationField("social links must be a JSON object", "socials_json")
	}
	return nil
}

func (r *TeamRepo) Create(ctx context.Context, m *model.TeamMember) (*model.TeamMember, error) {
	if err := validateTeamMember(m); err != nil {
		return nil, err
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("team_members", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("name", strings.TrimSpace(m.Name)),
		database.Set("role_title", m.RoleTitle),
		database.Set("category", m.Category),
		database.Set("bio", m.Bio),
		database.Set("photo_url", m.PhotoURL),
		database.Set("socials_json", m.SocialsJSON),
		database.Set("order_num", m.OrderNum),
		database.Set("is_active", m.IsActive),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.TeamMember](ctx, r.DB, query, args...)
}

func (r *TeamRepo) Update(ctx context.Context, m *model.TeamMember) (*model.TeamMember, error) {
	if err := validateTeamMember(m); err != nil {
		return nil, err
	}
	query, args := database.BuildUpdateQuery("team_members", []database.SetClause{
		database.Set("name", strings.TrimSpace(m.Name)),
		database.Set("role_title", m.RoleTitle),
		database.Set("category", m.Category),
		database.Set("bio", m.Bio),
		database.Set("photo_url", m.PhotoURL),
		database.Set("socials_json", m.SocialsJSON),
		database.Set("order_num", m.OrderNum),
		database.Set("is_active", m.IsActive),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, m.ID)}, "*")
	return queryRow[model.TeamMember](ctx, r.DB, query, args...)
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*model.TeamMember, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("team_members",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.TeamMember](ctx, r.DB, query, args...)
}

func (r *TeamRepo) List(ctx context.Context, opts TeamListOptions) ([]model.TeamMember, error) {
	lo := opts.Normalized()
	sort, dir := sortColumn(lo.Sort, lo.Dir, map[string]bool{"created_at": true, "name": true, "order_num": true})
	query, args := database.BuildListQuery(database.NewListQueryOptions("team_members",
		database.WithConditions(teamConds(opts, lo)...),
		database.WithOrderBy(sort, dir),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.TeamMember](ctx, r.DB, query, args...)
}

// ListActive retrieves active members for the public team page, grouped
// by category in display order.
func (r *TeamRepo) ListActive(ctx context.Context) ([]model.TeamMember, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("team_members",
		database.WithCondition(database.WhereCond("is_active", database.Equal, true)),
		database.WithOrderBy("order_num", "asc"),
	))
	return queryRows[model.TeamMember](ctx, r.DB, query, args...)
}

func (r *TeamRepo) Count(ctx context.Context, opts TeamListOptions) (int, error) {
	return countRows(ctx, r.DB, "team_members", teamConds(opts, opts.Normalized())...)
}

func teamConds(opts TeamListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("name ILIKE $1 OR role_title ILIKE $2", pat, pat))
	}
	if opts.Category != nil {
		conds = append(conds, database.WhereCond("category", database.Equal, *opts.Category))
	}
	return conds
}

func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "team_members", id)
}
