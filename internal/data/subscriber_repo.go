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

// SubscriberRepo provides database operations for newsletter subscribers.
type SubscriberRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewSubscriberRepo(db *sql.DB) *SubscriberRepo {
	return &SubscriberRepo{DB: db, Clock: RealTimeProvider{}}
}

// SubscriberListOptions filters the admin subscribers list.
type SubscriberListOptions struct {
	model.ListOptions
	Active *bool
}

// Subscribe records a newsletter signup. Email is unique; re-subscribing
// an existing address reactivates the row instead of failing.
func (r *SubscriberRepo) Subscribe(ctx context.Context, email string, consent bool) (*model.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, apperrors.ValidationField("a valid email is required", "email")
	}
	if !consent {
		return nil, apperrors.Validation("consent is required to subscribe")
	}
	return queryRow[model.Subscriber](ctx, r.DB,
		`INSERT INTO "subscribers" ("id", "email", "consent", "is_active", "created_at")
		 VALUES ($1, $2, $3, TRUE, $4)
		 ON CONFLICT ("email") DO UPDATE
		 SET "is_active" = TRUE, "consent" = EXCLUDED."consent"
		 RETURNING *`,
		uuid.NewString(), email, consent, r.Clock.Now().UTC())
}

// SetActive toggles a subscription without deleting the signup record.
func (r *SubscriberRepo) SetActive(ctx context.Context, id string, active bool) error {
	query, args := database.BuildUpdateQuery("subscribers",
		[]database.SetClause{database.Set("is_active", active)},
		[]database.Condition{database.WhereCond("id", database.Equal, id)})
	affected, err := execRows(ctx, r.DB, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Subscriber not found")
	}
	return nil
}

func (r *SubscriberRepo) List(ctx context.Context, opts SubscriberListOptions) ([]model.Subscriber, error) {
	lo := opts.Normalized()
	query, args := database.BuildListQuery(database.NewListQueryOptions("subscribers",
		database.WithConditions(subscriberConds(opts, lo)...),
		database.WithOrderBy("created_at", "desc"),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.Subscriber](ctx, r.DB, query, args...)
}

func (r *SubscriberRepo) Count(ctx context.Context, opts SubscriberListOptions) (int, error) {
	return countRows(ctx, r.DB, "subscribers", subscriberConds(opts, opts.Normalized())...)
}

func subscriberConds(opts SubscriberListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		conds = append(conds, database.WhereCond("email", database.ILike, "%"+lo.Q+"%"))
	}
	if opts.Active != nil {
		conds = append(conds, database.WhereCond("is_active", database.Equal, *opts.Active))
	}
	return conds
}

func (r *SubscriberRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "subscribers", id)
}
