// Package database provides a small SQL builder used by the repositories:
// parameterized select/insert/update/delete with filtering, ordering, and
// counting over named tables. Identifiers are sanitized with
// pgx.Identifier; values always travel as bind parameters.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType enumerates supported WHERE operators.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
	IsNull             ConditionType = "IS NULL"
	Custom             ConditionType = "CUSTOM"

	defaultLimit  = -1
	defaultOffset = -1
)

// Condition is one WHERE predicate.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery *string
}

// WhereCond builds a standard field/operator/value condition.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // panic prevents misuse; custom conditions must provide raw SQL via WhereRawCond.
		panic("use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a raw SQL condition with positional placeholders
// written as $1, $2, ... relative to the fragment; they are renumbered
// during assembly.
func WhereRawCond(rawQuery string, params ...any) Condition {
	queryStr := rawQuery
	var value any = params
	if len(params) == 0 {
		value = nil
	} else if len(params) == 1 {
		value = params[0]
	}
	return Condition{Type: Custom, rawQuery: &queryStr, Value: value}
}

// ListQueryOptions describes a select or count over one table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions during construction.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions builds options for a table with the given modifiers.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithConditions sets the entire list of conditions.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = conds }
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly switches the query to SELECT COUNT(*).
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// BuildListQuery constructs the SQL text and arguments from options.
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil || options.Table == "" {
		return "", nil
	}

	var sb strings.Builder
	if options.CountOnly {
		sb.WriteString("SELECT COUNT(*) ")
	} else if len(options.Columns) == 0 {
		sb.WriteString("SELECT * ")
	} else {
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = sanitizeIdentifier(c)
		}
		sb.WriteString("SELECT " + strings.Join(cols, ", ") + " ")
	}
	sb.WriteString("FROM " + sanitizeIdentifier(options.Table))

	where, args := buildWhereClause(options.Conditions, 1)
	sb.WriteString(where)

	if !options.CountOnly {
		clause, more := buildOrderAndPaging(options, len(args)+1)
		sb.WriteString(clause)
		args = append(args, more...)
	}
	return sb.String(), args
}

func buildOrderAndPaging(options *ListQueryOptions, nextParam int) (string, []any) {
	var sb strings.Builder
	var args []any

	if options.OrderBy != "" {
		sb.WriteString(" ORDER BY " + sanitizeIdentifier(options.OrderBy))
		dir := strings.ToUpper(options.OrderDir)
		if dir == "ASC" || dir == "DESC" {
			sb.WriteString(" " + dir)
		}
	}
	if options.Limit != defaultLimit {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", nextParam))
		args = append(args, options.Limit)
		nextParam++
	}
	if options.Offset != defaultOffset {
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", nextParam))
		args = append(args, options.Offset)
	}
	return sb.String(), args
}

// buildWhereClause assembles WHERE text starting at parameter nextParam.
func buildWhereClause(conds []Condition, nextParam int) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}
	var parts []string
	var args []any

	for _, c := range conds {
		switch c.Type {
		case Custom:
			if c.rawQuery == nil {
				continue
			}
			frag, fragArgs := renumberPlaceholders(*c.rawQuery, c.Value, nextParam)
			parts = append(parts, frag)
			args = append(args, fragArgs...)
			nextParam += len(fragArgs)

		case IsNull:
			parts = append(parts, sanitizeIdentifier(c.Field)+" IS NULL")

		case In:
			vals := valueSlice(c.Value)
			if len(vals) == 0 {
				// Empty IN matches nothing.
				parts = append(parts, "FALSE")
				continue
			}
			ph := make([]string, len(vals))
			for i, v := range vals {
				ph[i] = fmt.Sprintf("$%d", nextParam)
				args = append(args, v)
				nextParam++
			}
			parts = append(parts, fmt.Sprintf("%s IN (%s)", sanitizeIdentifier(c.Field), strings.Join(ph, ", ")))

		default:
			parts = append(parts, fmt.Sprintf("%s %s $%d", sanitizeIdentifier(c.Field), c.Type, nextParam))
			args = append(args, c.Value)
			nextParam++
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// renumberPlaceholders shifts $1.. in a raw fragment to start at base.
// Each placeholder is rewritten in a single pass so an already shifted
// number is never rewritten again.
func renumberPlaceholders(frag string, value any, base int) (string, []any) {
	args := valueSlice(value)
	frag = placeholderPattern.ReplaceAllStringFunc(frag, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(args) {
			return m
		}
		return "$" + strconv.Itoa(base+n-1)
	})
	return "(" + frag + ")", args
}

func valueSlice(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// SetClause is one column assignment in an update.
type SetClause struct {
	Column string
	Value  any
}

// Set builds a SetClause.
func Set(column string, value any) SetClause { return SetClause{Column: column, Value: value} }

// BuildInsertQuery constructs an INSERT for ordered column/value pairs,
// optionally returning columns.
func BuildInsertQuery(table string, sets []SetClause, returning ...string) (string, []any) {
	if table == "" || len(sets) == 0 {
		return "", nil
	}
	cols := make([]string, len(sets))
	ph := make([]string, len(sets))
	args := make([]any, len(sets))
	for i, s := range sets {
		cols[i] = sanitizeIdentifier(s.Column)
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = s.Value
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sanitizeIdentifier(table), strings.Join(cols, ", "), strings.Join(ph, ", "))
	q += returningClause(returning)
	return q, args
}

// BuildUpdateQuery constructs an UPDATE with conditions; refuses to build
// an unconditional update.
func BuildUpdateQuery(table string, sets []SetClause, conds []Condition, returning ...string) (string, []any) {
	if table == "" || len(sets) == 0 || len(conds) == 0 {
		return "", nil
	}
	assigns := make([]string, len(sets))
	args := make([]any, 0, len(sets)+len(conds))
	for i, s := range sets {
		assigns[i] = fmt.Sprintf("%s = $%d", sanitizeIdentifier(s.Column), i+1)
		args = append(args, s.Value)
	}
	where, whereArgs := buildWhereClause(conds, len(sets)+1)
	args = append(args, whereArgs...)
	q := fmt.Sprintf("UPDATE %s SET %s%s", sanitizeIdentifier(table), strings.Join(assigns, ", "), where)
	q += returningClause(returning)
	return q, args
}

// BuildDeleteQuery constructs a DELETE with conditions; refuses to build
// an unconditional delete.
func BuildDeleteQuery(table string, conds []Condition) (string, []any) {
	if table == "" || len(conds) == 0 {
		return "", nil
	}
	where, args := buildWhereClause(conds, 1)
	return "DELETE FROM " + sanitizeIdentifier(table) + where, args
}

func returningClause(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		if c == "*" {
			out[i] = "*"
			continue
		}
		out[i] = sanitizeIdentifier(c)
	}
	return " RETURNING " + strings.Join(out, ", ")
}
