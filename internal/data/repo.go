// Package data contains the PostgreSQL repositories for all content
// tables. Every repository goes through the query builder in the
// database subpackage and maps driver errors through the application
// error taxonomy.
package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/harborlight-collective/harborlight/internal/data/database"
	"github.com/harborlight-collective/harborlight/internal/data/pgxutil"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
)

// TimeProvider supplies the current time; swapped for a fixed clock in tests.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using system time.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider implements TimeProvider with a fixed time for tests.
type FixedTimeProvider struct{ T time.Time }

func (f FixedTimeProvider) Now() time.Time { return f.T }

// queryRows runs a query and collects all rows into T by column name.
func queryRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	var out []T
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// queryRow runs a query expected to yield exactly one row.
func queryRow[T any](ctx context.Context, db *sql.DB, query string, args ...any) (*T, error) {
	var out T
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// execRows runs a statement and returns the affected row count.
func execRows(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return affected, nil
}

// countRows runs a COUNT(*) built from list options.
func countRows(ctx context.Context, db *sql.DB, table string, conds ...database.Condition) (int, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions(table,
		database.WithCountOnly(),
		database.WithConditions(conds...),
	))
	var n int
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&n)
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return n, nil
}

// deleteByID removes one row by id, returning NotFound when absent.
func deleteByID(ctx context.Context, db *sql.DB, table, id string) error {
	query, args := database.BuildDeleteQuery(table, []database.Condition{
		database.WhereCond("id", database.Equal, id),
	})
	affected, err := execRows(ctx, db, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Resource not found")
	}
	return nil
}
