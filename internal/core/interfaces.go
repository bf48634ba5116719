package core

import (
	"context"

	"github.com/target/storefront-admin/internal/domain/model"
)

// Repository interfaces owned by the service layer. The data layer provides
// the implementations.

// ActivityRepository persists the local admin audit trail.
type ActivityRepository interface {
	Record(ctx context.Context, req *model.RecordActivityRequest) (*model.ActivityEntry, error)
	List(ctx context.Context, opts *model.ActivityListOptions) ([]*model.ActivityEntry, error)
}
