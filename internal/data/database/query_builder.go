// Package database builds parameterized SELECT statements with sanitized identifiers.
package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThanOrEqual ConditionType = ">="
	LessThan           ConditionType = "<"
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"

	unset = -1
)

// Condition is one predicate in the WHERE clause. Conditions are ANDed.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions describes a single-table listing.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    []string
	OrderDir   string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  unset,
		Offset: unset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a condition. Empty string values are skipped so callers
// can pass optional filters straight through.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		if s, ok := cond.Value.(string); ok && s == "" {
			return
		}
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithOrderBy orders by one or more columns in the same direction.
func WithOrderBy(direction string, columns ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = columns
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

func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery renders options into SQL and its positional arguments.
//
//	query, args := BuildListQuery(NewListQueryOptions("admin_activity",
//		WithColumns("id", "actor"),
//		WithCondition(WhereCond("resource", Equal, "products")),
//		WithOrderBy("DESC", "created_at", "id"),
//		WithLimit(50),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	switch {
	case options.CountOnly:
		query.WriteString("SELECT COUNT(*)")
	case len(options.Columns) == 0:
		query.WriteString("SELECT *")
	default:
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = sanitizeIdentifier(c)
		}
		query.WriteString("SELECT " + strings.Join(cols, ", "))
	}
	query.WriteString(" FROM " + sanitizeIdentifier(options.Table))

	where, args := buildWhereClause(options.Conditions)
	if where != "" {
		query.WriteString(" " + where)
	}
	if options.CountOnly {
		return query.String(), args
	}

	if len(options.OrderBy) > 0 {
		dir := strings.ToUpper(options.OrderDir)
		parts := make([]string, len(options.OrderBy))
		for i, c := range options.OrderBy {
			parts[i] = sanitizeIdentifier(c)
			if dir == "ASC" || dir == "DESC" {
				parts[i] += " " + dir
			}
		}
		query.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if options.Limit != unset {
		args = append(args, options.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if options.Offset != unset {
		args = append(args, options.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}
	return query.String(), args
}

func buildWhereClause(conds []Condition) (string, []any) {
	parts := make([]string, 0, len(conds))
	var args []any

	for _, cond := range conds {
		if cond.Field == "" {
			continue
		}
		field := sanitizeIdentifier(cond.Field)

		switch cond.Type {
		case In:
			rv := reflect.ValueOf(cond.Value)
			if rv.Kind() != reflect.Slice || rv.Len() == 0 {
				continue
			}
			ph := make([]string, rv.Len())
			for i := range rv.Len() {
				args = append(args, rv.Index(i).Interface())
				ph[i] = fmt.Sprintf("$%d", len(args))
			}
			parts = append(parts, fmt.Sprintf("%s IN (%s)", field, strings.Join(ph, ", ")))
		case Equal, NotEqual, GreaterThanOrEqual, LessThan, ILike:
			args = append(args, cond.Value)
			parts = append(parts, fmt.Sprintf("%s %s $%d", field, cond.Type, len(args)))
		}
	}

	if len(parts) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}
