package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/target/storefront-admin/internal/data/database"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
)

const (
	activityTable        = "admin_activity"
	defaultActivityLimit = 100
	maxActivityLimit     = 1000
)

var activityColumns = []string{"id", "actor", "action", "resource", "resource_id", "summary", "created_at"}

// ActivityRepo stores the admin audit trail in Postgres.
type ActivityRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	ids          *ulidSource
}

// NewActivityRepo creates an ActivityRepo using the system clock.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return NewActivityRepoWithTimeProvider(db, RealTimeProvider{})
}

// NewActivityRepoWithTimeProvider creates an ActivityRepo with a custom clock (useful for tests).
func NewActivityRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ActivityRepo {
	return &ActivityRepo{DB: db, timeProvider: tp, ids: newULIDSource()}
}

// Record appends an entry.
func (r *ActivityRepo) Record(ctx context.Context, req *model.RecordActivityRequest) (*model.ActivityEntry, error) {
	if req == nil {
		return nil, errors.New("record activity request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	now := r.timeProvider.Now().UTC()
	id, err := r.ids.New(now)
	if err != nil {
		return nil, fmt.Errorf("generate activity id: %w", err)
	}

	entry := model.ActivityEntry{
		ID:         id,
		Actor:      req.Actor,
		Action:     req.Action,
		Resource:   req.Resource,
		ResourceID: req.ResourceID,
		Summary:    req.Summary,
		CreatedAt:  now,
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO admin_activity (id, actor, action, resource, resource_id, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Actor, string(entry.Action), entry.Resource, entry.ResourceID, entry.Summary, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", apperrors.MapDBError(err))
	}
	return &entry, nil
}

// List returns entries newest first.
func (r *ActivityRepo) List(ctx context.Context, opts *model.ActivityListOptions) ([]*model.ActivityEntry, error) {
	if opts == nil {
		opts = &model.ActivityListOptions{}
	}
	limit := opts.Limit
	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions(activityTable,
		database.WithColumns(activityColumns...),
		database.WithCondition(database.WhereCond("resource", database.Equal, opts.Resource)),
		database.WithCondition(database.WhereCond("actor", database.Equal, opts.Actor)),
		database.WithOrderBy("DESC", "created_at", "id"),
		database.WithLimit(limit),
		database.WithOffset(max(opts.Offset, 0)),
	))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	out := make([]*model.ActivityEntry, 0, limit)
	for rows.Next() {
		var (
			e      model.ActivityEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.Actor, &action, &e.Resource, &e.ResourceID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.Action = model.ActivityAction(action)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", apperrors.MapDBError(err))
	}
	return out, nil
}
