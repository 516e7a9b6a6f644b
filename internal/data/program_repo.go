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

// ProgramRepo provides database operations for programs and events.
type ProgramRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewProgramRepo(db *sql.DB) *ProgramRepo {
	return &ProgramRepo{DB: db, Clock: RealTimeProvider{}}
}

// ProgramsListOptions filters the admin programs list.
type ProgramsListOptions struct {
	model.ListOptions
	Status *model.ProgramStatus
}

func validateProgram(p *model.ProgramEvent) error {
	if strings.TrimSpace(p.Title) == "" {
		return apperrors.Validation("title is required")
	}
	if err := model.ValidateSlug(p.Slug); err != nil {
		return apperrors.ValidationField(err.Error(), "slug")
	}
	if !p.Status.Valid() {
		return apperrors.ValidationField("unknown program status", "status")
	}
	return nil
}

func (r *ProgramRepo) Create(ctx context.Context, p *model.ProgramEvent) (*model.ProgramEvent, error) {
	if err := validateProgram(p); err != nil {
		return nil, err
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("program_events", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("title", strings.TrimSpace(p.Title)),
		database.Set("slug", p.Slug),
		database.Set("description", p.Description),
		database.Set("event_datetime", p.EventDatetime),
		database.Set("location", p.Location),
		database.Set("link", p.Link),
		database.Set("image_url", p.ImageURL),
		database.Set("status", p.Status),
		database.Set("is_active", p.IsActive),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.ProgramEvent](ctx, r.DB, query, args...)
}

func (r *ProgramRepo) Update(ctx context.Context, p *model.ProgramEvent) (*model.ProgramEvent, error) {
	if err := validateProgram(p); err != nil {
		return nil, err
	}
	query, args := database.BuildUpdateQuery("program_events", []database.SetClause{
		database.Set("title", strings.TrimSpace(p.Title)),
		database.Set("slug", p.Slug),
		database.Set("description", p.Description),
		database.Set("event_datetime", p.EventDatetime),
		database.Set("location", p.Location),
		database.Set("link", p.Link),
		database.Set("image_url", p.ImageURL),
		database.Set("status", p.Status),
		database.Set("is_active", p.IsActive),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, p.ID)}, "*")
	return queryRow[model.ProgramEvent](ctx, r.DB, query, args...)
}

func (r *ProgramRepo) GetByID(ctx context.Context, id string) (*model.ProgramEvent, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("program_events",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.ProgramEvent](ctx, r.DB, query, args...)
}

func (r *ProgramRepo) GetBySlug(ctx context.Context, slug string) (*model.ProgramEvent, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("program_events",
		database.WithConditions(
			database.WhereCond("slug", database.Equal, slug),
			database.WhereCond("is_active", database.Equal, true),
		),
		database.WithLimit(1),
	))
	return queryRow[model.ProgramEvent](ctx, r.DB, query, args...)
}

func (r *ProgramRepo) List(ctx context.Context, opts ProgramsListOptions) ([]model.ProgramEvent, error) {
	lo := opts.Normalized()
	sort, dir := sortColumn(lo.Sort, lo.Dir, map[string]bool{"created_at": true, "title": true, "event_datetime": true})
	query, args := database.BuildListQuery(database.NewListQueryOptions("program_events",
		database.WithConditions(programConds(opts, lo)...),
		database.WithOrderBy(sort, dir),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.ProgramEvent](ctx, r.DB, query, args...)
}

// ListActive retrieves active programs of one status for the public page,
// upcoming soonest first.
func (r *ProgramRepo) ListActive(ctx context.Context, status model.ProgramStatus) ([]model.ProgramEvent, error) {
	dir := "asc"
	if status == model.ProgramPast {
		dir = "desc"
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("program_events",
		database.WithConditions(
			database.WhereCond("status", database.Equal, status),
			database.WhereCond("is_active", database.Equal, true),
		),
		database.WithOrderBy("event_datetime", dir),
	))
	return queryRows[model.ProgramEvent](ctx, r.DB, query, args...)
}

func (r *ProgramRepo) Count(ctx context.Context, opts ProgramsListOptions) (int, error) {
	return countRows(ctx, r.DB, "program_events", programConds(opts, opts.Normalized())...)
}

func programConds(opts ProgramsListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("title ILIKE $1 OR slug ILIKE $2", pat, pat))
	}
	if opts.Status != nil {
		conds = append(conds, database.WhereCond("status", database.Equal, *opts.Status))
	}
	return conds
}

func (r *ProgramRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "program_events", id)
}
