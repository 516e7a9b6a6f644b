package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	require.NoError(t, MapDBError(nil))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_DeadlineExceeded(t *testing.T) {
	err := MapDBError(context.DeadlineExceeded)
	assert.Equal(t, ErrCodeTimeout, GetCode(err))
}

func TestMapDBError_UniqueSlug(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: `Key (slug)=(grief-counselling) already exists.`,
	}
	err := MapDBError(pgErr)
	require.True(t, IsConflict(err))
	assert.Equal(t, "slug", GetField(err))
	assert.Contains(t, UserMessage(err), "slug")
}

func TestMapDBError_UniqueEmail(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       pgerrcode.UniqueViolation,
		ColumnName: "email",
	}
	err := MapDBError(pgErr)
	require.True(t, IsConflict(err))
	assert.Equal(t, "email", GetField(err))
}

func TestMapDBError_ForeignKey(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:      pgerrcode.ForeignKeyViolation,
		TableName: "booking_requests",
	}
	err := MapDBError(pgErr)
	require.True(t, IsForeignKey(err))
	assert.Contains(t, UserMessage(err), "booking request")
}

func TestMapDBError_NotNull(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "title"}
	err := MapDBError(pgErr)
	require.True(t, IsValidation(err))
	assert.Equal(t, "title", GetField(err))
}

func TestMapDBError_Passthrough(t *testing.T) {
	base := errors.New("not a db error")
	assert.Equal(t, base, MapDBError(base))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	assert.True(t, errors.Is(err, cause))
}
