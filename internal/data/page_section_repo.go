package data

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/harborlight-collective/harborlight/internal/data/database"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// PageSectionRepo provides database operations for editable page sections.
type PageSectionRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewPageSectionRepo(db *sql.DB) *PageSectionRepo {
	return &PageSectionRepo{DB: db, Clock: RealTimeProvider{}}
}

// PageSectionsListOptions filters the admin page-sections list.
type PageSectionsListOptions struct {
	model.ListOptions
	PageKey string
}

func (r *PageSectionRepo) Create(ctx context.Context, s *model.PageSection) (*model.PageSection, error) {
	if s.PageKey == "" || s.SectionKey == "" {
		return nil, apperrors.Validation("page key and section key are required")
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("page_sections", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("page_key", s.PageKey),
		database.Set("section_key", s.SectionKey),
		database.Set("title", s.Title),
		database.Set("content", s.Content),
		database.Set("image_url", s.ImageURL),
		database.Set("image_position", s.ImagePosition),
		database.Set("order_num", s.OrderNum),
		database.Set("is_active", s.IsActive),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.PageSection](ctx, r.DB, query, args...)
}

func (r *PageSectionRepo) Update(ctx context.Context, s *model.PageSection) (*model.PageSection, error) {
	query, args := database.BuildUpdateQuery("page_sections", []database.SetClause{
		database.Set("title", s.Title),
		database.Set("content", s.Content),
		database.Set("image_url", s.ImageURL),
		database.Set("image_position", s.ImagePosition),
		database.Set("order_num", s.OrderNum),
		database.Set("is_active", s.IsActive),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, s.ID)}, "*")
	return queryRow[model.PageSection](ctx, r.DB, query, args...)
}

func (r *PageSectionRepo) GetByID(ctx context.Context, id string) (*model.PageSection, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("page_sections",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.PageSection](ctx, r.DB, query, args...)
}

// List retrieves sections for the admin screen, optionally scoped to one page.
func (r *PageSectionRepo) List(ctx context.Context, opts PageSectionsListOptions) ([]model.PageSection, error) {
	lo := opts.Normalized()
	query, args := database.BuildListQuery(database.NewListQueryOptions("page_sections",
		database.WithConditions(pageSectionConds(opts, lo)...),
		database.WithOrderBy("page_key", "asc"),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.PageSection](ctx, r.DB, query, args...)
}

// ListForPage retrieves the active sections of one public page in display order.
func (r *PageSectionRepo) ListForPage(ctx context.Context, pageKey string) ([]model.PageSection, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("page_sections",
		database.WithConditions(
			database.WhereCond("page_key", database.Equal, pageKey),
			database.WhereCond("is_active", database.Equal, true),
		),
		database.WithOrderBy("order_num", "asc"),
	))
	return queryRows[model.PageSection](ctx, r.DB, query, args...)
}

func (r *PageSectionRepo) Count(ctx context.Context, opts PageSectionsListOptions) (int, error) {
	return countRows(ctx, r.DB, "page_sections", pageSectionConds(opts, opts.Normalized())...)
}

func pageSectionConds(opts PageSectionsListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if opts.PageKey != "" {
		conds = append(conds, database.WhereCond("page_key", database.Equal, opts.PageKey))
	}
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("title ILIKE $1 OR section_key ILIKE $2", pat, pat))
	}
	return conds
}

func (r *PageSectionRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "page_sections", id)
}
