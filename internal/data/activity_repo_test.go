package data

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/testutil"
)

func newMockActivityRepo(t *testing.T) (*ActivityRepo, sqlmock.Sqlmock, *FixedTimeProvider) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := NewFixedTimeProvider(testutil.TestTime())
	return NewActivityRepoWithTimeProvider(db, clock), mock, clock
}

func TestActivityRepo_Record(t *testing.T) {
	repo, mock, clock := newMockActivityRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admin_activity")).
		WithArgs(sqlmock.AnyArg(), "admin@example.com", "update", "products", "p1", "Updated price", clock.Now().UTC()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry, err := repo.Record(context.Background(), &model.RecordActivityRequest{
		Actor:      "admin@example.com",
		Action:     model.ActivityUpdate,
		Resource:   "products",
		ResourceID: "p1",
		Summary:    "Updated price",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Len(t, entry.ID, 26)
	assert.Equal(t, model.ActivityUpdate, entry.Action)
	assert.Equal(t, clock.Now().UTC(), entry.CreatedAt)
}

func TestActivityRepo_RecordIDsSortByTime(t *testing.T) {
	repo, mock, clock := newMockActivityRepo(t)
	mock.ExpectExec("INSERT INTO admin_activity").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO admin_activity").WillReturnResult(sqlmock.NewResult(1, 1))

	req := func() *model.RecordActivityRequest {
		return &model.RecordActivityRequest{Actor: "a", Action: model.ActivityCreate, Resource: "coupons"}
	}
	first, err := repo.Record(context.Background(), req())
	require.NoError(t, err)
	clock.AddTime(time.Millisecond)
	second, err := repo.Record(context.Background(), req())
	require.NoError(t, err)

	assert.Less(t, first.ID, second.ID)
}

func TestActivityRepo_RecordValidation(t *testing.T) {
	repo, mock, _ := newMockActivityRepo(t)

	_, err := repo.Record(context.Background(), &model.RecordActivityRequest{Action: model.ActivityCreate, Resource: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Record(context.Background(), nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepo_RecordTruncatesSummary(t *testing.T) {
	repo, mock, _ := newMockActivityRepo(t)
	long := strings.Repeat("x", 600)
	mock.ExpectExec("INSERT INTO admin_activity").
		WithArgs(sqlmock.AnyArg(), "a", "delete", "banners", "", strings.Repeat("x", 500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := repo.Record(context.Background(), &model.RecordActivityRequest{
		Actor: "a", Action: model.ActivityDelete, Resource: "banners", Summary: long,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepo_RecordMapsCheckViolation(t *testing.T) {
	repo, mock, _ := newMockActivityRepo(t)
	mock.ExpectExec("INSERT INTO admin_activity").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "action"})

	_, err := repo.Record(context.Background(), &model.RecordActivityRequest{
		Actor: "a", Action: "bogus", Resource: "products",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "action", apperrors.GetField(err))
}

func TestActivityRepo_List(t *testing.T) {
	repo, mock, _ := newMockActivityRepo(t)
	at := testutil.TestTime()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT "id", "actor", "action", "resource", "resource_id", "summary", "created_at" FROM "admin_activity" ` +
			`WHERE "resource" = $1 ORDER BY "created_at" DESC, "id" DESC LIMIT $2 OFFSET $3`)).
		WithArgs("orders", 20, 0).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow("01B", "admin@example.com", "status", "orders", "o2", "Status -> shipped", at.Add(time.Minute)).
			AddRow("01A", "admin@example.com", "status", "orders", "o1", "Status -> delivered", at))

	entries, err := repo.List(context.Background(), &model.ActivityListOptions{Resource: "orders", Limit: 20})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "01B", entries[0].ID)
	assert.Equal(t, model.ActivityStatus, entries[1].Action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepo_ListClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		opts  *model.ActivityListOptions
		limit int
	}{
		{name: "nil options", opts: nil, limit: defaultActivityLimit},
		{name: "zero", opts: &model.ActivityListOptions{}, limit: defaultActivityLimit},
		{name: "too large", opts: &model.ActivityListOptions{Limit: 50000}, limit: maxActivityLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, _ := newMockActivityRepo(t)
			mock.ExpectQuery("FROM \"admin_activity\"").
				WithArgs(tt.limit, 0).
				WillReturnRows(sqlmock.NewRows(activityColumns))

			entries, err := repo.List(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Empty(t, entries)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActivityRepo_ListErrors(t *testing.T) {
	repo, mock, _ := newMockActivityRepo(t)
	mock.ExpectQuery("FROM \"admin_activity\"").WillReturnError(context.DeadlineExceeded)

	_, err := repo.List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))

	mock.ExpectQuery("FROM \"admin_activity\"").
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow("01A", "a", "create", "products", "p1", "", "not-a-time"))
	_, err = repo.List(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.DeadlineExceeded))
}

func TestActivityRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewActivityRepo(db)
		ctx := context.Background()

		_, err := repo.Record(ctx, &model.RecordActivityRequest{
			Actor: "admin@example.com", Action: model.ActivityCreate, Resource: "products", ResourceID: "p1",
		})
		require.NoError(t, err)
		_, err = repo.Record(ctx, &model.RecordActivityRequest{
			Actor: "admin@example.com", Action: model.ActivityDelete, Resource: "coupons", ResourceID: "c1",
		})
		require.NoError(t, err)

		all, err := repo.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "coupons", all[0].Resource)

		products, err := repo.List(ctx, &model.ActivityListOptions{Resource: "products"})
		require.NoError(t, err)
		require.Len(t, products, 1)
	})
}
