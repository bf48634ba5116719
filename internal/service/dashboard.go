package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/storefront-admin/internal/apiclient"
	"github.com/target/storefront-admin/internal/data"
	"github.com/target/storefront-admin/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

const dashboardActivityLimit = 10

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
	Logger   *slog.Logger
}

// DashboardService assembles the admin landing page.
type DashboardService struct {
	backend  *Backend
	activity *ActivityService
	log      *slog.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	return &DashboardService{backend: opts.Backend, activity: opts.Activity, log: opts.Logger}
}

func (s *DashboardService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Dashboard is the backend summary plus the most recent local admin actions.
type Dashboard struct {
	model.DashboardData
	AdminActivity []*model.ActivityEntry
}

// Load fetches the backend summary and the local activity log concurrently.
// A failing activity log degrades to an empty list; a failing summary fails the page.
func (s *DashboardService) Load(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := fetch[model.DashboardData](gctx, s.backend, apiclient.Request{Path: "/dashboard/admin"}, exprData)
		if err != nil {
			return err
		}
		out.DashboardData = res.Value
		return nil
	})

	g.Go(func() error {
		entries, err := s.activity.List(gctx, model.ActivityListOptions{Limit: dashboardActivityLimit})
		switch {
		case errors.Is(err, data.ErrActivityDisabled):
		case err != nil:
			s.logger().WarnContext(gctx, "load admin activity failed", "error", err)
		default:
			out.AdminActivity = entries
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}
