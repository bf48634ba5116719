package httpx

import (
	"bytes"
	"context"
	"net/http"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/util"
)

// StatCard is one headline counter on the dashboard.
type StatCard struct {
	Label  string
	Value  string
	Change float64
	Icon   string
}

// Up reports whether the change is non-negative, for the arrow colour.
func (c StatCard) Up() bool { return c.Change >= 0 }

func statCards(s model.DashboardStats) []StatCard {
	return []StatCard{
		{Label: "Total Revenue", Value: util.FormatMoney(s.TotalRevenue), Change: s.RevenueChange, Icon: "revenue"},
		{Label: "Total Orders", Value: util.FormatCount(s.TotalOrders), Change: s.OrdersChange, Icon: "orders"},
		{Label: "Total Products", Value: util.FormatCount(s.TotalProducts), Change: s.ProductsChange, Icon: "products"},
		{Label: "Total Users", Value: util.FormatCount(s.TotalUsers), Change: s.UsersChange, Icon: "users"},
	}
}

// Index serves the home page with dashboard content.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Stats"] = []StatCard{}
			d, err := h.DashboardSvc.Load(ctx)
			if err != nil {
				return err
			}
			data["Stats"] = statCards(d.Stats)
			data["RecentOrders"] = d.RecentOrders
			data["LowStock"] = d.LowStockProducts
			data["Sales"] = d.Charts.SalesOverTime
			data["MaxRevenue"] = d.MaxRevenue()
			data["BackendActivity"] = d.ActivityLog
			data["AdminActivity"] = d.AdminActivity
			data["ActivityEnabled"] = h.ActivitySvc != nil && h.ActivitySvc.Enabled()
			return nil
		},
	})
}

// RecentActivityFragment serves the admin activity panel for htmx polling.
func (h *UIHandlers) RecentActivityFragment(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{})
	data["AdminActivity"] = []*model.ActivityEntry{}
	data["ActivityEnabled"] = h.ActivitySvc != nil && h.ActivitySvc.Enabled()
	if h.ActivitySvc != nil && h.ActivitySvc.Enabled() {
		entries, err := h.ActivitySvc.List(r.Context(), model.ActivityListOptions{Limit: dashboardActivityLimit})
		if err != nil {
			if h.handleSessionError(w, r, err) {
				return
			}
			h.logger().WarnContext(r.Context(), "recent activity unavailable", "error", err)
			data["ActivityError"] = "Unable to load recent activity"
		} else {
			data["AdminActivity"] = entries
		}
	}

	h.renderFragment(w, r, fragmentRenderOptions{
		Template: "dashboard-activity-fragment",
		Data:     data,
	})
}

const dashboardActivityLimit = 10

// fragmentRenderOptions names an htmx fragment template and its data.
type fragmentRenderOptions struct {
	Template string
	Data     map[string]any
}

// renderFragment renders an htmx fragment with consistent headers and logging.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, opts fragmentRenderOptions) {
	var buf bytes.Buffer
	if err := h.T.executeInto(&buf, opts.Template, opts.Data); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to render fragment",
			"template", opts.Template,
			"error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Vary", "HX-Request")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to write fragment",
			"template", opts.Template,
			"error", err)
	}
}

// DashboardRedirect redirects to the home page (dashboard is now at "/").
func (h *UIHandlers) DashboardRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusMovedPermanently)
}
