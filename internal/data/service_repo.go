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

// ServiceRepo provides database operations for offered services.
type ServiceRepo struct {
	DB    *sql.DB
	Clock TimeProvider
}

// NewServiceRepo creates a ServiceRepo with the real clock.
func NewServiceRepo(db *sql.DB) *ServiceRepo {
	return &ServiceRepo{DB: db, Clock: RealTimeProvider{}}
}

// ServicesListOptions filters the admin services list.
type ServicesListOptions struct {
	model.ListOptions
	Active *bool
}

// Create inserts a new service.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) (*model.Service, error) {
	if err := s.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	now := r.Clock.Now().UTC()
	query, args := database.BuildInsertQuery("services", []database.SetClause{
		database.Set("id", uuid.NewString()),
		database.Set("title", strings.TrimSpace(s.Title)),
		database.Set("slug", s.Slug),
		database.Set("description", s.Description),
		database.Set("details", s.Details),
		database.Set("duration", s.Duration),
		database.Set("price", s.Price),
		database.Set("eligibility", s.Eligibility),
		database.Set("order_num", s.OrderNum),
		database.Set("is_active", s.IsActive),
		database.Set("created_at", now),
		database.Set("updated_at", now),
	}, "*")
	return queryRow[model.Service](ctx, r.DB, query, args...)
}

// Update rewrites the editable fields of a service.
func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) (*model.Service, error) {
	if err := s.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	query, args := database.BuildUpdateQuery("services", []database.SetClause{
		database.Set("title", strings.TrimSpace(s.Title)),
		database.Set("slug", s.Slug),
		database.Set("description", s.Description),
		database.Set("details", s.Details),
		database.Set("duration", s.Duration),
		database.Set("price", s.Price),
		database.Set("eligibility", s.Eligibility),
		database.Set("order_num", s.OrderNum),
		database.Set("is_active", s.IsActive),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, s.ID)}, "*")
	return queryRow[model.Service](ctx, r.DB, query, args...)
}

// SetActive toggles a service's visibility.
func (r *ServiceRepo) SetActive(ctx context.Context, id string, active bool) error {
	query, args := database.BuildUpdateQuery("services", []database.SetClause{
		database.Set("is_active", active),
		database.Set("updated_at", r.Clock.Now().UTC()),
	}, []database.Condition{database.WhereCond("id", database.Equal, id)})
	affected, err := execRows(ctx, r.DB, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Service not found")
	}
	return nil
}

// GetByID retrieves a service by id.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*model.Service, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("services",
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
		database.WithLimit(1),
	))
	return queryRow[model.Service](ctx, r.DB, query, args...)
}

// GetBySlug retrieves an active service for the public detail page.
func (r *ServiceRepo) GetBySlug(ctx context.Context, slug string) (*model.Service, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("services",
		database.WithConditions(
			database.WhereCond("slug", database.Equal, slug),
			database.WhereCond("is_active", database.Equal, true),
		),
		database.WithLimit(1),
	))
	return queryRow[model.Service](ctx, r.DB, query, args...)
}

// List retrieves services for the admin screen.
func (r *ServiceRepo) List(ctx context.Context, opts ServicesListOptions) ([]model.Service, error) {
	lo := opts.Normalized()
	conds := serviceConds(opts, lo)
	sort, dir := sortColumn(lo.Sort, lo.Dir, map[string]bool{"created_at": true, "title": true, "order_num": true})
	query, args := database.BuildListQuery(database.NewListQueryOptions("services",
		database.WithConditions(conds...),
		database.WithOrderBy(sort, dir),
		database.WithLimit(lo.Limit),
		database.WithOffset(lo.Offset),
	))
	return queryRows[model.Service](ctx, r.DB, query, args...)
}

// ListActive retrieves every active service ordered for the public site.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]model.Service, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("services",
		database.WithCondition(database.WhereCond("is_active", database.Equal, true)),
		database.WithOrderBy("order_num", "asc"),
	))
	return queryRows[model.Service](ctx, r.DB, query, args...)
}

// Count returns the number of services matching the filters.
func (r *ServiceRepo) Count(ctx context.Context, opts ServicesListOptions) (int, error) {
	return countRows(ctx, r.DB, "services", serviceConds(opts, opts.Normalized())...)
}

func serviceConds(opts ServicesListOptions, lo model.ListOptions) []database.Condition {
	var conds []database.Condition
	if lo.Q != "" {
		pat := "%" + lo.Q + "%"
		conds = append(conds, database.WhereRawCond("title ILIKE $1 OR slug ILIKE $2", pat, pat))
	}
	if opts.Active != nil {
		conds = append(conds, database.WhereCond("is_active", database.Equal, *opts.Active))
	}
	return conds
}

// Delete removes a service.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, "services", id)
}
