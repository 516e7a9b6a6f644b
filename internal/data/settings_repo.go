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

// SettingsRepo provides database operations for site-wide settings.
type SettingsRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{DB: db, Clock: RealTimeProvider{}}
}

// Upsert creates or replaces the value for a setting key.
func (r *SettingsRepo) Upsert(ctx context.Context, key, value string) (*model.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.Validation("setting key is required")
	}
	return queryRow[model.SiteSetting](ctx, r.DB,
		`INSERT INTO "site_settings" ("id", "key", "value", "updated_at")
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT ("key") DO UPDATE
		 SET "value" = EXCLUDED."value", "updated_at" = EXCLUDED."updated_at"
		 RETURNING *`,
		uuid.NewString(), key, value, r.Clock.Now().UTC())
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (*model.SiteSetting, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("site_settings",
		database.WithCondition(database.WhereCond("key", database.Equal, key)),
		database.WithLimit(1),
	))
	return queryRow[model.SiteSetting](ctx, r.DB, query, args...)
}

// List retrieves every setting ordered by key.
func (r *SettingsRepo) List(ctx context.Context) ([]model.SiteSetting, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("site_settings",
		database.WithOrderBy("key", "asc"),
	))
	return queryRows[model.SiteSetting](ctx, r.DB, query, args...)
}

func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	query, args := database.BuildDeleteQuery("site_settings",
		[]database.Condition{database.WhereCond("key", database.Equal, key)})
	affected, err := execRows(ctx, r.DB, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Setting not found")
	}
	return nil
}
