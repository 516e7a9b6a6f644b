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

// VolunteerRepo provides database operations for volunteer applications.
type VolunteerRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewVolunteerRepo(db *sql.DB) *VolunteerRepo {
	return &VolunteerRepo{DB: db, Clock: RealTimeProvider{}}
}

// VolunteerListOptions filters the admin volunteers list.
type VolunteerListOptions struct {
	model.ListOptions
	Status *model.VolunteerStatus
}

// Create records a public volunteer signup; applications start as NEW.
func (r *VolunteerRepo) Create(ctx context.Context, v *model.VolunteerApplication) (*model.VolunteerApplication, error) {
	if strings.TrimSpace(v.Name) == "" {
		return nil, apperrors.Validation("name is required")
	}
	if !strings.Contains(v.Email, "@") {
		return nil, apperrors.ValidationField("a valid email is required", "email")
	}
	query, args := database.BuildInsertQuery("volunteer_applications", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("name", strings.TrimSpace(v.Name)),
		database.Set("email", strings.ToLower(strings.TrimSpace(v.Email))),
		database.Set("phone", v.Phone),
		database.Set("interest_area", v.InterestArea),
		database.Set("message", v.Message),
		database.Set("status", model.VolunteerNew),
		database.Set("created_at", r.Clock.Now().UTC()),
	}, "*")
	return queryRow[model.VolunteerApplication](ctx, r.DB, query, args...)
}

func (r *VolunteerRepo) GetByID(ctx context.Context, id string) (*model.VolunteerApplication, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("volunteer_applications",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.VolunteerApplication](ctx, r.DB, query, args...)
}

// SetStatus moves an application to a new review state.
func (r *VolunteerRepo) SetStatus(ctx context.Context, id string, status model.VolunteerStatus) error {
	if !status.Valid() {
		return apperrors.ValidationField("unknown application status", "status")
	}
	query, args := database.BuildUpdateQuery("volunteer_applications",
		[]database.SetClause{database.Set("status", status)},
		[]database.Condition{database.WhereCond("id", database.Equal, id)})
	affected, err := execRows(ctx, r.DB, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Application not found")
	}
	return nil
}

func (r *VolunteerRepo) List(ctx context.Context, opts VolunteerListOptions) ([]model.VolunteerApplication, error) {
	lo := opts.Normalized()
	query, args := database.BuildListQuery(database.NewListQueryOptions("volunteer_applications",
		database.WithConditions(volunteerConds(opts, lo)...),
		database.WithOrderBy("created_at", "desc"),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.VolunteerApplication](ctx, r.DB, query, args...)
}

func (r *VolunteerRepo) Count(ctx context.Context, opts VolunteerListOptions) (int, error) {
	return countRows(ctx, r.DB, "volunteer_applications", volunteerConds(opts, opts.Normalized())...)
}

func volunteerConds(opts VolunteerListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("name ILIKE $1 OR email ILIKE $2 OR interest_area ILIKE $3", pat, pat, pat))
	}
	if opts.Status != nil {
		conds = append(conds, database.WhereCond("status", database.Equal, *opts.Status))
	}
	return conds
}

func (r *VolunteerRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "volunteer_applications", id)
}
