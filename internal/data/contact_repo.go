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

// ContactRepo provides database operations for contact-form messages.
type ContactRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db, Clock: RealTimeProvider{}}
}

// ContactListOptions filters the admin inbox.
type ContactListOptions struct {
	model.ListOptions
	Read *bool
}

// Create records a public contact-form submission.
func (r *ContactRepo) Create(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error) {
	if err := m.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	query, args := database.BuildInsertQuery("contact_messages", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("name", strings.TrimSpace(m.Name)),
		database.Set("email", strings.ToLower(strings.TrimSpace(m.Email))),
		database.Set("phone", m.Phone),
		database.Set("subject", m.Subject),
		database.Set("message", m.Message),
		database.Set("is_read", false),
		database.Set("created_at", r.Clock.Now().UTC()),
	}, "*")
	return queryRow[model.ContactMessage](ctx, r.DB, query, args...)
}

func (r *ContactRepo) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("contact_messages",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.ContactMessage](ctx, r.DB, query, args...)
}

// MarkRead sets the read flag on a message.
func (r *ContactRepo) MarkRead(ctx context.Context, id string, read bool) error {
	query, args := database.BuildUpdateQuery("contact_messages",
		[]database.SetClause{database.Set("is_read", read)},
		[]database.Condition{database.WhereCond("id", database.Equal, id)})
	affected, err := execRows(ctx, r.DB, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Message not found")
	}
	return nil
}

func (r *ContactRepo) List(ctx context.Context, opts ContactListOptions) ([]model.ContactMessage, error) {
	lo := opts.Normalized()
	query, args := database.BuildListQuery(database.NewListQueryOptions("contact_messages",
		database.WithConditions(contactConds(opts, lo)...),
		database.WithOrderBy("created_at", "desc"),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.ContactMessage](ctx, r.DB, query, args...)
}

func (r *ContactRepo) Count(ctx context.Context, opts ContactListOptions) (int, error) {
	return countRows(ctx, r.DB, "contact_messages", contactConds(opts, opts.Normalized())...)
}

// CountUnread backs the inbox badge on the admin dashboard.
func (r *ContactRepo) CountUnread(ctx context.Context) (int, error) {
	return countRows(ctx, r.DB, "contact_messages",
		database.WhereCond("is_read", database.Equal, false))
}

func contactConds(opts ContactListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("name ILIKE $1 OR email ILIKE $2 OR subject ILIKE $3", pat, pat, pat))
	}
	if opts.Read != nil {
		conds = append(conds, database.WhereCond("is_read", database.Equal, *opts.Read))
	}
	return conds
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "contact_messages", id)
}
