package database

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name      string
		opts      *ListQueryOptions
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "basic select",
			opts:      NewListQueryOptions("admin_activity"),
			wantQuery: `SELECT * FROM "admin_activity"`,
		},
		{
			name:      "columns",
			opts:      NewListQueryOptions("admin_activity", WithColumns("id", "actor", "admin_activity.summary")),
			wantQuery: `SELECT "id", "actor", "admin_activity"."summary" FROM "admin_activity"`,
		},
		{
			name: "count only ignores order and paging",
			opts: NewListQueryOptions("admin_activity",
				WithCountOnly(),
				WithCondition(WhereCond("resource", Equal, "products")),
				WithOrderBy("DESC", "created_at"),
				WithLimit(10),
			),
			wantQuery: `SELECT COUNT(*) FROM "admin_activity" WHERE "resource" = $1`,
			wantArgs:  []any{"products"},
		},
		{
			name: "conditions are anded in order",
			opts: NewListQueryOptions("admin_activity",
				WithCondition(WhereCond("resource", Equal, "coupons")),
				WithCondition(WhereCond("actor", ILike, "%admin%")),
			),
			wantQuery: `SELECT * FROM "admin_activity" WHERE "resource" = $1 AND "actor" ILIKE $2`,
			wantArgs:  []any{"coupons", "%admin%"},
		},
		{
			name: "empty string filter skipped",
			opts: NewListQueryOptions("admin_activity",
				WithCondition(WhereCond("resource", Equal, "")),
				WithCondition(WhereCond("actor", Equal, "a@example.com")),
			),
			wantQuery: `SELECT * FROM "admin_activity" WHERE "actor" = $1`,
			wantArgs:  []any{"a@example.com"},
		},
		{
			name: "in clause",
			opts: NewListQueryOptions("admin_activity",
				WithCondition(WhereCond("action", In, []string{"create", "delete"})),
			),
			wantQuery: `SELECT * FROM "admin_activity" WHERE "action" IN ($1, $2)`,
			wantArgs:  []any{"create", "delete"},
		},
		{
			name: "empty in clause skipped",
			opts: NewListQueryOptions("admin_activity",
				WithCondition(WhereCond("action", In, []string{})),
			),
			wantQuery: `SELECT * FROM "admin_activity"`,
		},
		{
			name: "order limit offset",
			opts: NewListQueryOptions("admin_activity",
				WithCondition(WhereCond("resource", Equal, "orders")),
				WithOrderBy("desc", "created_at", "id"),
				WithLimit(50),
				WithOffset(100),
			),
			wantQuery: `SELECT * FROM "admin_activity" WHERE "resource" = $1 ORDER BY "created_at" DESC, "id" DESC LIMIT $2 OFFSET $3`,
			wantArgs:  []any{"orders", 50, 100},
		},
		{
			name:      "invalid direction dropped",
			opts:      NewListQueryOptions("admin_activity", WithOrderBy("sideways", "id")),
			wantQuery: `SELECT * FROM "admin_activity" ORDER BY "id"`,
		},
		{
			name:      "zero limit kept, negative ignored",
			opts:      NewListQueryOptions("admin_activity", WithLimit(0), WithOffset(-5)),
			wantQuery: `SELECT * FROM "admin_activity" LIMIT $1`,
			wantArgs:  []any{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := BuildListQuery(tt.opts)
			if query != tt.wantQuery {
				t.Errorf("query = %q, want %q", query, tt.wantQuery)
			}
			if len(args) != len(tt.wantArgs) || (len(args) > 0 && !reflect.DeepEqual(args, tt.wantArgs)) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildListQuery_Nil(t *testing.T) {
	query, args := BuildListQuery(nil)
	if query != "" || args != nil {
		t.Errorf("expected empty result for nil options, got %q %v", query, args)
	}
}

func TestBuildListQuery_SanitizesIdentifiers(t *testing.T) {
	opts := NewListQueryOptions(`admin_activity"; DROP TABLE x; --`,
		WithColumns(`id"; DELETE FROM admin_activity; --`),
		WithOrderBy("DESC", `created_at"--`),
	)
	query, _ := BuildListQuery(opts)

	want := `SELECT "id""; DELETE FROM admin_activity; --" FROM "admin_activity""; DROP TABLE x; --" ORDER BY "created_at""--" DESC`
	if query != want {
		t.Errorf("identifiers not quoted:\n got %s\nwant %s", query, want)
	}
	if strings.Count(query, `"`)%2 != 0 {
		t.Errorf("unbalanced quotes in %s", query)
	}
}
