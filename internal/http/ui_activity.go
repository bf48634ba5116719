package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/target/storefront-admin/internal/data"
	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/table"
	"github.com/target/storefront-admin/internal/util"
)

const (
	activityPath = "/activity"
	// activityFetchLimit bounds the audit rows searched locally.
	activityFetchLimit = 500
)

//nolint:gochecknoglobals // static filter order
var activityResources = []string{"product", "category", "order", "user", "coupon", "banner", "hero", "promo", "testimonial", "session"}

func activityTableConfig() table.Config[*model.ActivityEntry] {
	return table.Config[*model.ActivityEntry]{
		Columns: []table.Column[*model.ActivityEntry]{
			{
				Key:    "at",
				Header: "When",
				Render: func(e *model.ActivityEntry) string { return util.FormatDateTime(e.CreatedAt) },
			},
			table.Field("actor", "Admin", func(e *model.ActivityEntry) any { return e.Actor }),
			{
				Key:    "action",
				Header: "Action",
				Render: func(e *model.ActivityEntry) string { return util.StatusLabel(string(e.Action)) },
				Class:  func(e *model.ActivityEntry) string { return "badge " + actionBadge(e.Action) },
			},
			{
				Key:    "resource",
				Header: "Resource",
				Render: func(e *model.ActivityEntry) string { return util.StatusLabel(e.Resource) },
			},
			table.Field("summary", "Summary", func(e *model.ActivityEntry) any { return e.Summary }),
		},
		SearchKey: func(e *model.ActivityEntry) string {
			return e.Actor + " " + e.Resource + " " + e.ResourceID + " " + e.Summary
		},
		SearchPlaceholder: "Search activity...",
		PageSize:          20,
		EmptyMessage:      "No admin activity recorded yet",
	}
}

func actionBadge(a model.ActivityAction) string {
	switch a {
	case model.ActivityCreate:
		return "badge-success"
	case model.ActivityDelete:
		return "badge-danger"
	case model.ActivityUpdate, model.ActivityStatus:
		return "badge-info"
	}
	return "badge-muted"
}

// Activity renders the local admin audit trail.
func (h *UIHandlers) Activity(w http.ResponseWriter, r *http.Request) {
	resource := r.URL.Query().Get("resource")
	enabled := h.ActivitySvc != nil && h.ActivitySvc.Enabled()

	opts := TableHandlerOpts[*model.ActivityEntry]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch: func(ctx context.Context) ([]*model.ActivityEntry, error) {
			if !enabled {
				return nil, nil
			}
			entries, err := h.ActivitySvc.List(ctx, model.ActivityListOptions{Resource: resource, Limit: activityFetchLimit})
			if errors.Is(err, data.ErrActivityDisabled) {
				return nil, nil
			}
			return entries, err
		},
		Config:   activityTableConfig(),
		BasePath: activityPath,
		PageMeta: PageMeta{Title: "Activity", PageTitle: "Activity", CurrentPage: PageActivity},
		Filters:  activityFilters(resource),
	}
	if !enabled {
		opts.Notice = "The activity log is disabled because no database is configured."
		opts.Filters = nil
	}
	HandleTable(opts)
}

func activityFilters(active string) []FilterLink {
	links := []FilterLink{{Label: "All", URL: activityPath, Active: active == ""}}
	for _, res := range activityResources {
		links = append(links, FilterLink{
			Label:  util.StatusLabel(res),
			URL:    activityPath + "?" + url.Values{"resource": {res}}.Encode(),
			Active: res == active,
		})
	}
	return links
}
