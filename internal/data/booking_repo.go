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

// BookingRepo provides database operations for service booking requests.
type BookingRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{DB: db, Clock: RealTimeProvider{}}
}

// BookingListOptions filters the admin bookings list.
type BookingListOptions struct {
	model.ListOptions
	Status *model.BookingStatus
}

// Create records a public booking submission. New bookings always start
// in the NEW state regardless of what the caller filled in.
func (r *BookingRepo) Create(ctx context.Context, b *model.BookingRequest) (*model.BookingRequest, error) {
	if err := b.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("booking_requests", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("service_id", b.ServiceID),
		database.Set("name", strings.TrimSpace(b.Name)),
		database.Set("email", strings.ToLower(strings.TrimSpace(b.Email))),
		database.Set("phone", b.Phone),
		database.Set("preferred_datetime", b.PreferredDatetime),
		database.Set("message", b.Message),
		database.Set("status", model.BookingNew),
		database.Set("disclaimer_accepted", b.DisclaimerAccepted),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.BookingRequest](ctx, r.DB, query, args...)
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("booking_requests",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.BookingRequest](ctx, r.DB, query, args...)
}

// SetStatus moves a booking to a new workflow state.
func (r *BookingRepo) SetStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if !status.Valid() {
		return apperrors.ValidationField("unknown booking status", "status")
	}
	query, args := database.BuildUpdateQuery("booking_requests", []database.SetClause{
		database.Set("status", status),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, id)})
	affected, err := execRows(ctx, r.DB, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Booking not found")
	}
	return nil
}

func (r *BookingRepo) List(ctx context.Context, opts BookingListOptions) ([]model.BookingRequest, error) {
	lo := opts.Normalized()
	query, args := database.BuildListQuery(database.NewListQueryOptions("booking_requests",
		database.WithConditions(bookingConds(opts, lo)...),
		database.WithOrderBy("created_at", "desc"),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.BookingRequest](ctx, r.DB, query, args...)
}

func (r *BookingRepo) Count(ctx context.Context, opts BookingListOptions) (int, error) {
	return countRows(ctx, r.DB, "booking_requests", bookingConds(opts, opts.Normalized())...)
}

// CountNew backs the bookings badge on the admin dashboard.
func (r *BookingRepo) CountNew(ctx context.Context) (int, error) {
	return countRows(ctx, r.DB, "booking_requests",
		database.WhereCond("status", database.Equal, model.BookingNew))
}

func bookingConds(opts BookingListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("name ILIKE $1 OR email ILIKE $2", pat, pat))
	}
	if opts.Status != nil {
		conds = append(conds, database.WhereCond("status", database.Equal, *opts.Status))
	}
	return conds
}

func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "booking_requests", id)
}
