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

// ResourceRepo provides database operations for downloadable resources.
type ResourceRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewResourceRepo(db *sql.DB) *ResourceRepo {
	return &ResourceRepo{DB: db, Clock: RealTimeProvider{}}
}

// ResourcesListOptions filters the admin resources list.
type ResourcesListOptions struct {
	model.ListOptions
	Category string
}

func validateResource(res *model.Resource) error {
	if strings.TrimSpace(res.Title) == "" {
		return apperrors.Validation("title is required")
	}
	if err := model.ValidateSlug(res.Slug); err != nil {
		return apperrors.ValidationField(err.Error(), "slug")
	}
	return nil
}

func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) (*model.Resource, error) {
	if err := validateResource(res); err != nil {
		return nil, err
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("resources", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("title", strings.TrimSpace(res.Title)),
		database.Set("slug", res.Slug),
		database.Set("description", res.Description),
		database.Set("category", res.Category),
		database.Set("tags", res.Tags),
		database.Set("file_url", res.FileURL),
		database.Set("cover_url", res.CoverURL),
		database.Set("download_count", 0),
		database.Set("is_active", res.IsActive),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.Resource](ctx, r.DB, query, args...)
}

func (r *ResourceRepo) Update(ctx context.Context, res *model.Resource) (*model.Resource, error) {
	if err := validateResource(res); err != nil {
		return nil, err
	}
	query, args := database.BuildUpdateQuery("resources", []database.SetClause{
		database.Set("title", strings.TrimSpace(res.Title)),
		database.Set("slug", res.Slug),
		database.Set("description", res.Description),
		database.Set("category", res.Category),
		database.Set("tags", res.Tags),
		database.Set("file_url", res.FileURL),
		database.Set("cover_url", res.CoverURL),
		database.Set("is_active", res.IsActive),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, res.ID)}, "*")
	return queryRow[model.Resource](ctx, r.DB, query, args...)
}

func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("resources",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.Resource](ctx, r.DB, query, args...)
}

func (r *ResourceRepo) GetBySlug(ctx context.Context, slug string) (*model.Resource, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("resources",
		database.WithConditions(
			database.WhereCond("slug", database.Equal, slug),
			database.WhereCond("is_active", database.Equal, true),
		),
		database.WithLimit(1),
	))
	return queryRow[model.Resource](ctx, r.DB, query, args...)
}

// IncrementDownloads bumps the download counter when a visitor fetches
// the resource file.
func (r *ResourceRepo) IncrementDownloads(ctx context.Context, id string) error {
	affected, err := execRows(ctx, r.DB,
		`UPDATE "resources" SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Resource not found")
	}
	return nil
}

func (r *ResourceRepo) List(ctx context.Context, opts ResourcesListOptions) ([]model.Resource, error) {
	lo := opts.Normalized()
	sort, dir := sortColumn(lo.Sort, lo.Dir, map[string]bool{"created_at": true, "title": true, "download_count": true})
	query, args := database.BuildListQuery(database.NewListQueryOptions("resources",
		database.WithConditions(resourceConds(opts, lo)...),
		database.WithOrderBy(sort, dir),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.Resource](ctx, r.DB, query, args...)
}

// ListActive retrieves active resources for the public library page.
func (r *ResourceRepo) ListActive(ctx context.Context, category string) ([]model.Resource, error) {
	conds := []database.Condition{database.WhereCond("is_active", database.Equal, true)}
	if category != "" {
		conds = append(conds, database.WhereCond("category", database.Equal, category))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("resources",
		database.WithConditions(conds...),
		database.WithOrderBy("created_at", "desc"),
	))
	return queryRows[model.Resource](ctx, r.DB, query, args...)
}

func (r *ResourceRepo) Count(ctx context.Context, opts ResourcesListOptions) (int, error) {
	return countRows(ctx, r.DB, "resources", resourceConds(opts, opts.Normalized())...)
}

func resourceConds(opts ResourcesListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("title ILIKE $1 OR slug ILIKE $2", pat, pat))
	}
	if opts.Category != "" {
		conds = append(conds, database.WhereCond("category", database.Equal, opts.Category))
	}
	return conds
}

func (r *ResourceRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "resources", id)
}
