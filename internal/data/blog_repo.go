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

// BlogRepo provides database operations for blog posts.
type BlogRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{DB: db, Clock: RealTimeProvider{}}
}

// BlogListOptions filters the admin blog list.
type BlogListOptions struct {
	model.ListOptions
	Published *bool
}

func validateBlogPost(p *model.BlogPost) error {
	if strings.TrimSpace(p.Title) == "" {
		return apperrors.Validation("title is required")
	}
	if err := model.ValidateSlug(p.Slug); err != nil {
		return apperrors.ValidationField(err.Error(), "slug")
	}
	return nil
}

// Create inserts a post. A post created as published gets its
// published_at stamped now.
func (r *BlogRepo) Create(ctx context.Context, p *model.BlogPost) (*model.BlogPost, error) {
	if err := validateBlogPost(p); err != nil {
		return nil, err
	}
	now := r.Clock.Now().UTC()
	publishedAt := p.PublishedAt
	if p.Published && publishedAt == nil {
		publishedAt = &now
	}
	query, args := database.BuildInsertQuery("blog_posts", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("title", strings.TrimSpace(p.Title)),
		database.Set("slug", p.Slug),
		database.Set("excerpt", p.Excerpt),
		database.Set("content", p.Content),
		database.Set("cover_url", p.CoverURL),
		database.Set("author_name", p.AuthorName),
		database.Set("tags", p.Tags),
		database.Set("published", p.Published),
		database.Set("published_at", publishedAt),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.BlogPost](ctx, r.DB, query, args...)
}

// Update rewrites a post. Flipping published on for the first time
// stamps published_at; unpublishing keeps the original timestamp so
// re-publishing does not reorder the feed.
func (r *BlogRepo) Update(ctx context.Context, p *model.BlogPost) (*model.BlogPost, error) {
	if err := validateBlogPost(p); err != nil {
		return nil, err
	}
	now := r.Clock.Now().UTC()
	sets := []database.SetClause{
		database.Set("title", strings.TrimSpace(p.Title)),
		database.Set("slug", p.Slug),
		database.Set("excerpt", p.Excerpt),
		database.Set("content", p.Content),
		database.Set("cover_url", p.CoverURL),
		database.Set("author_name", p.AuthorName),
		database.Set("tags", p.Tags),
		database.Set("published", p.Published),
		database.Set("updated_at", now),
	}
	if p.Published && p.PublishedAt == nil {
		sets = append(sets, database.Set("published_at", now))
	}
	query, args := database.BuildUpdateQuery("blog_posts", sets,
		[]database.Condition{database.WhereCond("id", database.Equal, p.ID)}, "*")
	return queryRow[model.BlogPost](ctx, r.DB, query, args...)
}

func (r *BlogRepo) GetByID(ctx context.Context, id string) (*model.BlogPost, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("blog_posts",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.BlogPost](ctx, r.DB, query, args...)
}

// GetPublishedBySlug retrieves a published post for the public article page.
func (r *BlogRepo) GetPublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("blog_posts",
		database.WithConditions(
			database.WhereCond("slug", database.Equal, slug),
			database.WhereCond("published", database.Equal, true),
		),
		database.WithLimit(1),
	))
	return queryRow[model.BlogPost](ctx, r.DB, query, args...)
}

func (r *BlogRepo) List(ctx context.Context, opts BlogListOptions) ([]model.BlogPost, error) {
	lo := opts.Normalized()
	sort, dir := sortColumn(lo.Sort, lo.Dir, map[string]bool{"created_at": true, "title": true, "published_at": true})
	query, args := database.BuildListQuery(database.NewListQueryOptions("blog_posts",
		database.WithConditions(blogConds(opts, lo)...),
		database.WithOrderBy(sort, dir),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.BlogPost](ctx, r.DB, query, args...)
}

// ListPublished retrieves published posts newest first for the public blog.
func (r *BlogRepo) ListPublished(ctx context.Context, limit, offset int) ([]model.BlogPost, error) {
	if limit <= 0 {
		limit = 10
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("blog_posts",
		database.WithCondition(database.WhereCond("published", database.Equal, true)),
		database.WithOrderBy("published_at", "desc"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))
	return queryRows[model.BlogPost](ctx, r.DB, query, args...)
}

func (r *BlogRepo) Count(ctx context.Context, opts BlogListOptions) (int, error) {
	return countRows(ctx, r.DB, "blog_posts", blogConds(opts, opts.Normalized())...)
}

func blogConds(opts BlogListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("title ILIKE $1 OR slug ILIKE $2", pat, pat))
	}
	if opts.Published != nil {
		conds = append(conds, database.WhereCond("published", database.Equal, *opts.Published))
	}
	return conds
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "blog_posts", id)
}
