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

// LegalRepo provides database operations for legal pages.
type LegalRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewLegalRepo(db *sql.DB) *LegalRepo {
	return &LegalRepo{DB: db, Clock: RealTimeProvider{}}
}

// Upsert creates or replaces the legal page for a page key.
func (r *LegalRepo) Upsert(ctx context.Context, p *model.LegalPage) (*model.LegalPage, error) {
	key := strings.TrimSpace(p.PageKey)
	if key == "" {
		return nil, apperrors.Validation("page key is required")
	}
	return queryRow[model.LegalPage](ctx, r.DB,
		`INSERT INTO "legal_pages" ("id", "page_key", "title", "content", "updated_at")
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT ("page_key") DO UPDATE
		 SET "title" = EXCLUDED."title", "content" = EXCLUDED."content", "updated_at" = EXCLUDED."updated_at"
		 RETURNING *`,
		uuid.NewString(), key, p.Title, p.Content, r.Clock.Now().UTC())
}

// GetByKey retrieves the legal page shown at /legal/{key}.
func (r *LegalRepo) GetByKey(ctx context.Context, pageKey string) (*model.LegalPage, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("legal_pages",
		database.WithCondition(database.WhereCond("page_key", database.Equal, pageKey)),
		database.WithLimit(1),
	))
	return queryRow[model.LegalPage](ctx, r.DB, query, args...)
}

// List retrieves every legal page for the admin screen.
func (r *LegalRepo) List(ctx context.Context) ([]model.LegalPage, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("legal_pages",
		database.WithOrderBy("page_key", "asc"),
	))
	return queryRows[model.LegalPage](ctx, r.DB, query, args...)
}

func (r *LegalRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "legal_pages", id)
}
