package service

import (
	"context"
	"log/slog"

	"github.com/target/storefront-admin/internal/core"
	"github.com/target/storefront-admin/internal/data"
	"github.com/target/storefront-admin/internal/domain/model"
)

// ActivityServiceOptions groups dependencies for ActivityService.
type ActivityServiceOptions struct {
	Repo   core.ActivityRepository // Optional; nil disables the activity log
	Logger *slog.Logger
}

// ActivityService records and lists administrator actions.
type ActivityService struct {
	repo core.ActivityRepository
	log  *slog.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(opts ActivityServiceOptions) *ActivityService {
	return &ActivityService{repo: opts.Repo, log: opts.Logger}
}

func (s *ActivityService) logger() *slog.Logger {
	if s != nil && s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Enabled reports whether entries are persisted.
func (s *ActivityService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record stores an entry for the actor in ctx. Failures are logged, never returned:
// the mutation it describes has already happened upstream.
func (s *ActivityService) Record(ctx context.Context, action model.ActivityAction, resource, resourceID, summary string) {
	if !s.Enabled() {
		return
	}
	_, err := s.repo.Record(ctx, &model.RecordActivityRequest{
		Actor:      actorFrom(ctx),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Summary:    summary,
	})
	if err != nil {
		s.logger().WarnContext(ctx, "record activity failed",
			"action", action, "resource", resource, "resource_id", resourceID, "error", err)
	}
}

// List returns recent entries, newest first.
func (s *ActivityService) List(ctx context.Context, opts model.ActivityListOptions) ([]*model.ActivityEntry, error) {
	if !s.Enabled() {
		return nil, data.ErrActivityDisabled
	}
	return s.repo.List(ctx, &opts)
}
