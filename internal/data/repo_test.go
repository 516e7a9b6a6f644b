package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harborlight-collective/harborlight/internal/data/database"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
)

func TestSortColumn(t *testing.T) {
	allowed := map[string]bool{"created_at": true, "title": true}

	sort, dir := sortColumn("title", "asc", allowed)
	assert.Equal(t, "title", sort)
	assert.Equal(t, "asc", dir)

	// unknown columns and directions fall back to newest-first
	sort, dir = sortColumn("password_hash", "asc", allowed)
	assert.Equal(t, "created_at", sort)

	_, dir = sortColumn("title", "sideways", allowed)
	assert.Equal(t, "desc", dir)
}

func TestFixedTimeProvider(t *testing.T) {
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := FixedTimeProvider{T: want}
	assert.Equal(t, want, clock.Now())
}

func TestServiceConds_SearchAndActive(t *testing.T) {
	active := true
	opts := ServicesListOptions{Active: &active}
	opts.Q = "grief"

	conds := serviceConds(opts, opts.Normalized())
	query, args := database.BuildListQuery(database.NewListQueryOptions("services",
		database.WithConditions(conds...),
	))
	assert.Contains(t, query, "title ILIKE")
	assert.Contains(t, query, `"is_active" = `)
	assert.Equal(t, []any{"%grief%", "%grief%", true}, args)
}

func TestBookingConds_StatusFilter(t *testing.T) {
	status := model.BookingConfirmed
	opts := BookingListOptions{Status: &status}

	conds := bookingConds(opts, opts.Normalized())
	query, args := database.BuildListQuery(database.NewListQueryOptions("booking_requests",
		database.WithConditions(conds...),
	))
	assert.Contains(t, query, `"status" = $1`)
	assert.Equal(t, []any{model.BookingConfirmed}, args)
}

func TestProfileConds_EmptySearchAddsNothing(t *testing.T) {
	opts := model.ProfilesListOptions{}
	conds := profileConds(opts, opts.Normalized())
	assert.Empty(t, conds)
}
