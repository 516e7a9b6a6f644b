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

// MediaRepo provides database operations for gallery items.
type MediaRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewMediaRepo(db *sql.DB) *MediaRepo {
	return &MediaRepo{DB: db, Clock: RealTimeProvider{}}
}

// MediaListOptions filters the admin gallery list.
type MediaListOptions struct {
	model.ListOptions
	Type *model.MediaType
}

func validateMediaItem(m *model.MediaItem) error {
	if !m.Type.Valid() {
		return apperrors.ValidationField("unknown media type", "type")
	}
	if strings.TrimSpace(m.URL) == "" {
		return apperrors.ValidationField("a media URL is required", "url")
	}
	return nil
}

func (r *MediaRepo) Create(ctx context.Context, m *model.MediaItem) (*model.MediaItem, error) {
	if err := validateMediaItem(m); err != nil {
		return nil, err
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("media_items", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("type", m.Type),
		database.Set("title", m.Title),
		database.Set("url", m.URL),
		database.Set("thumbnail_url", m.ThumbnailURL),
		database.Set("order_num", m.OrderNum),
		database.Set("is_active", m.IsActive),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.MediaItem](ctx, r.DB, query, args...)
}

func (r *MediaRepo) Update(ctx context.Context, m *model.MediaItem) (*model.MediaItem, error) {
	if err := validateMediaItem(m); err != nil {
		return nil, err
	}
	query, args := database.BuildUpdateQuery("media_items", []database.SetClause{
		database.Set("type", m.Type),
		database.Set("title", m.Title),
		database.Set("url", m.URL),
		database.Set("thumbnail_url", m.ThumbnailURL),
		database.Set("order_num", m.OrderNum),
		database.Set("is_active", m.IsActive),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, m.ID)}, "*")
	return queryRow[model.MediaItem](ctx, r.DB, query, args...)
}

func (r *MediaRepo) GetByID(ctx context.Context, id string) (*model.MediaItem, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("media_items",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.MediaItem](ctx, r.DB, query, args...)
}

func (r *MediaRepo) List(ctx context.Context, opts MediaListOptions) ([]model.MediaItem, error) {
	lo := opts.Normalized()
	sort, dir := sortColumn(lo.Sort, lo.Dir, map[string]bool{"created_at": true, "title": true, "order_num": true})
	query, args := database.BuildListQuery(database.NewListQueryOptions("media_items",
		database.WithConditions(mediaConds(opts, lo)...),
		database.WithOrderBy(sort, dir),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.MediaItem](ctx, r.DB, query, args...)
}

// ListActive retrieves active gallery items in display order.
func (r *MediaRepo) ListActive(ctx context.Context) ([]model.MediaItem, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("media_items",
		database.WithCondition(database.WhereCond("is_active", database.Equal, true)),
		database.WithOrderBy("order_num", "asc"),
	))
	return queryRows[model.MediaItem](ctx, r.DB, query, args...)
}

func (r *MediaRepo) Count(ctx context.Context, opts MediaListOptions) (int, error) {
	return countRows(ctx, r.DB, "media_items", mediaConds(opts, opts.Normalized())...)
}

func mediaConds(opts MediaListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		conds = append(conds, database.WhereCond("title", database.ILike, "%"+lo.Q+"%"))
	}
	if opts.Type != nil {
		conds = append(conds, database.WhereCond("type", database.Equal, *opts.Type))
	}
	return conds
}

func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "media_items", id)
}
