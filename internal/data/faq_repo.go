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

// FAQRepo provides database operations for FAQ entries.
type FAQRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewFAQRepo(db *sql.DB) *FAQRepo {
	return &FAQRepo{DB: db, Clock: RealTimeProvider{}}
}

func (r *FAQRepo) Create(ctx context.Context, f *model.FAQItem) (*model.FAQItem, error) {
	if strings.TrimSpace(f.Question) == "" {
		return nil, apperrors.Validation("question is required")
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("faq_items", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("question", strings.TrimSpace(f.Question)),
		database.Set("answer", f.Answer),
		database.Set("category", f.Category),
		database.Set("order_num", f.OrderNum),
		database.Set("is_active", f.IsActive),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.FAQItem](ctx, r.DB, query, args...)
}

func (r *FAQRepo) Update(ctx context.Context, f *model.FAQItem) (*model.FAQItem, error) {
	if strings.TrimSpace(f.Question) == "" {
		return nil, apperrors.Validation("question is required")
	}
	query, args := database.BuildUpdateQuery("faq_items", []database.SetClause{
		database.Set("question", strings.TrimSpace(f.Question)),
		database.Set("answer", f.Answer),
		database.Set("category", f.Category),
		database.Set("order_num", f.OrderNum),
		database.Set("is_active", f.IsActive),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, f.ID)}, "*")
	return queryRow[model.FAQItem](ctx, r.DB, query, args...)
}

func (r *FAQRepo) GetByID(ctx context.Context, id string) (*model.FAQItem, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("faq_items",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.FAQItem](ctx, r.DB, query, args...)
}

func (r *FAQRepo) List(ctx context.Context, opts model.ListOptions) ([]model.FAQItem, error) {
	lo := opts.Normalized()
	query, args := database.BuildListQuery(database.NewListQueryOptions("faq_items",
		database.WithConditions(faqConds(lo)...),
		database.WithOrderBy("category", "asc"),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.FAQItem](ctx, r.DB, query, args...)
}

// ListActive retrieves active FAQ entries ordered for the public page;
// the handler groups them by category.
func (r *FAQRepo) ListActive(ctx context.Context) ([]model.FAQItem, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("faq_items",
		database.WithCondition(database.WhereCond("is_active", database.Equal, true)),
		database.WithOrderBy("order_num", "asc"),
	))
	return queryRows[model.FAQItem](ctx, r.DB, query, args...)
}

func (r *FAQRepo) Count(ctx context.Context, opts model.ListOptions) (int, error) {
	return countRows(ctx, r.DB, "faq_items", faqConds(opts.Normalized())...)
}

func faqConds(lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("question ILIKE $1 OR category ILIKE $2", pat, pat))
	}
	return conds
}

func (r *FAQRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "faq_items", id)
}
