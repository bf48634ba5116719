package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/data"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/mocks"
	"go.uber.org/mock/gomock"
)

const dashboardBody = `{"success":true,"data":{
	"stats":{"totalRevenue":1520.5,"totalOrders":12,"totalProducts":40,"totalUsers":9},
	"recentOrders":[{"_id":"o1","total":99}],
	"lowStockProducts":[{"_id":"p1","stock":2}],
	"activityLog":[],
	"charts":{"salesOverTime":[{"date":"2026-10-01","revenue":100},{"date":"2026-10-02","revenue":250}]}
}}`

func TestDashboardService_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivityRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), &model.ActivityListOptions{Limit: dashboardActivityLimit}).
		Return([]*model.ActivityEntry{{ID: "a1", Action: model.ActivityCreate}}, nil)

	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/dashboard/admin": respond(http.StatusOK, dashboardBody),
	})
	svc := NewDashboardService(DashboardServiceOptions{
		Backend:  api.backend,
		Activity: NewActivityService(ActivityServiceOptions{Repo: repo}),
	})

	d, err := svc.Load(adminCtx())
	require.NoError(t, err)
	assert.Equal(t, 12, d.Stats.TotalOrders)
	assert.Len(t, d.RecentOrders, 1)
	assert.InDelta(t, 250, d.MaxRevenue(), 0.001)
	require.Len(t, d.AdminActivity, 1)
	assert.Equal(t, "a1", d.AdminActivity[0].ID)
}

func TestDashboardService_ActivityFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivityRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/dashboard/admin": respond(http.StatusOK, dashboardBody),
	})
	svc := NewDashboardService(DashboardServiceOptions{
		Backend:  api.backend,
		Activity: NewActivityService(ActivityServiceOptions{Repo: repo}),
	})

	d, err := svc.Load(adminCtx())
	require.NoError(t, err)
	assert.Empty(t, d.AdminActivity)
	assert.InDelta(t, 1520.5, d.Stats.TotalRevenue, 0.001)
}

func TestDashboardService_BackendFailureFails(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/dashboard/admin": respond(http.StatusInternalServerError, `{"success":false,"message":"db down"}`),
	})
	svc := NewDashboardService(DashboardServiceOptions{
		Backend:  api.backend,
		Activity: NewActivityService(ActivityServiceOptions{}),
	})

	_, err := svc.Load(adminCtx())
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Equal(t, "db down", apperrors.UserMessage(err, ""))
}

func TestActivityService_Disabled(t *testing.T) {
	svc := NewActivityService(ActivityServiceOptions{})
	assert.False(t, svc.Enabled())

	svc.Record(adminCtx(), model.ActivityDelete, "product", "p1", "Deleted product p1")

	_, err := svc.List(adminCtx(), model.ActivityListOptions{})
	assert.ErrorIs(t, err, data.ErrActivityDisabled)

	var nilSvc *ActivityService
	assert.False(t, nilSvc.Enabled())
	nilSvc.Record(adminCtx(), model.ActivityDelete, "product", "p1", "")
}

func TestActivityService_RecordSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivityRepository(ctrl)
	repo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	svc := NewActivityService(ActivityServiceOptions{Repo: repo})
	assert.NotPanics(t, func() {
		svc.Record(adminCtx(), model.ActivityUpdate, "coupon", "k1", "Updated coupon")
	})
}
