package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery_Basic(t *testing.T) {
	opts := NewListQueryOptions("services",
		WithColumns("id", "title", "slug"),
		WithCondition(WhereCond("is_active", Equal, true)),
		WithOrderBy("order_num", "asc"),
		WithLimit(10),
		WithOffset(20),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT "id", "title", "slug" FROM "services" WHERE "is_active" = $1 ORDER BY "order_num" ASC LIMIT $2 OFFSET $3`,
		q)
	assert.Equal(t, []any{true, 10, 20}, args)
}

func TestBuildListQuery_CountOnly(t *testing.T) {
	opts := NewListQueryOptions("contact_messages",
		WithCountOnly(),
		WithCondition(WhereCond("is_read", Equal, false)),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t, `SELECT COUNT(*) FROM "contact_messages" WHERE "is_read" = $1`, q)
	assert.Equal(t, []any{false}, args)
}

func TestBuildListQuery_ILikeAndIn(t *testing.T) {
	opts := NewListQueryOptions("booking_requests",
		WithConditions(
			WhereCond("name", ILike, "%ana%"),
			WhereCond("status", In, []string{"NEW", "CONFIRMED"}),
		),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT * FROM "booking_requests" WHERE "name" ILIKE $1 AND "status" IN ($2, $3)`,
		q)
	assert.Equal(t, []any{"%ana%", "NEW", "CONFIRMED"}, args)
}

func TestBuildListQuery_EmptyInMatchesNothing(t *testing.T) {
	opts := NewListQueryOptions("profiles",
		WithCondition(WhereCond("role", In, []string{})),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t, `SELECT * FROM "profiles" WHERE FALSE`, q)
	assert.Empty(t, args)
}

func TestBuildListQuery_RawConditionRenumbered(t *testing.T) {
	opts := NewListQueryOptions("blog_posts",
		WithConditions(
			WhereCond("published", Equal, true),
			WhereRawCond("title ILIKE $1 OR excerpt ILIKE $2", "%care%", "%care%"),
		),
	)
	q, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT * FROM "blog_posts" WHERE "published" = $1 AND (title ILIKE $2 OR excerpt ILIKE $3)`,
		q)
	assert.Equal(t, []any{true, "%care%", "%care%"}, args)
}

func TestRenumberPlaceholders_TwoDigitBase(t *testing.T) {
	// Once the base pushes placeholders to two digits, $13 contains the
	// substring $1; a substring replacement would corrupt it to $113.
	frag, args := renumberPlaceholders("a = $1 AND b = $2 AND c = $3", []any{1, 2, 3}, 11)
	assert.Equal(t, "(a = $11 AND b = $12 AND c = $13)", frag)
	assert.Equal(t, []any{1, 2, 3}, args)

	// Numbers past the argument count are left alone.
	frag, _ = renumberPlaceholders("a = $1 AND b = $9", []any{1}, 5)
	assert.Equal(t, "(a = $5 AND b = $9)", frag)
}

func TestBuildListQuery_SanitizesIdentifiers(t *testing.T) {
	opts := NewListQueryOptions(`bad"table`,
		WithOrderBy(`x"; DROP TABLE users; --`, "asc"),
	)
	q, _ := BuildListQuery(opts)
	// Quotes are escaped, never interpreted.
	assert.NotContains(t, q, `DROP TABLE users; --"`+` `)
	assert.Contains(t, q, `"bad""table"`)
}

func TestBuildInsertQuery(t *testing.T) {
	q, args := BuildInsertQuery("subscribers",
		[]SetClause{Set("id", "s1"), Set("email", "a@b.org"), Set("consent", true)},
		"id", "created_at",
	)
	assert.Equal(t,
		`INSERT INTO "subscribers" ("id", "email", "consent") VALUES ($1, $2, $3) RETURNING "id", "created_at"`,
		q)
	assert.Equal(t, []any{"s1", "a@b.org", true}, args)
}

func TestBuildUpdateQuery(t *testing.T) {
	q, args := BuildUpdateQuery("faq_items",
		[]SetClause{Set("answer", "yes"), Set("is_active", false)},
		[]Condition{WhereCond("id", Equal, "f1")},
		"*",
	)
	assert.Equal(t,
		`UPDATE "faq_items" SET "answer" = $1, "is_active" = $2 WHERE "id" = $3 RETURNING *`,
		q)
	assert.Equal(t, []any{"yes", false, "f1"}, args)
}

func TestBuildUpdateQuery_RefusesUnconditional(t *testing.T) {
	q, args := BuildUpdateQuery("faq_items", []SetClause{Set("answer", "x")}, nil)
	assert.Empty(t, q)
	assert.Nil(t, args)
}

func TestBuildDeleteQuery(t *testing.T) {
	q, args := BuildDeleteQuery("media_items", []Condition{WhereCond("id", Equal, "m1")})
	assert.Equal(t, `DELETE FROM "media_items" WHERE "id" = $1`, q)
	assert.Equal(t, []any{"m1"}, args)

	q, args = BuildDeleteQuery("media_items", nil)
	require.Empty(t, q)
	require.Nil(t, args)
}
