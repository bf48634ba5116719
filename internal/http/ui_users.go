package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/http/templates/core"
	"github.com/target/storefront-admin/internal/service"
	"github.com/target/storefront-admin/internal/table"
	"github.com/target/storefront-admin/internal/util"
)

const usersPath = "/users"

func userTableConfig() table.Config[model.Account] {
	return table.Config[model.Account]{
		Columns: []table.Column[model.Account]{
			{
				Key:    "user",
				Header: "User",
				Render: func(a model.Account) string { return a.Name },
				Image:  func(a model.Account) string { return a.Avatar },
			},
			table.Field("email", "Email", func(a model.Account) any { return a.Email }),
			{
				Key:    "status",
				Header: "Status",
				Render: func(a model.Account) string { return util.StatusLabel(string(a.Status)) },
				Class:  func(a model.Account) string { return "badge " + core.BadgeClass(string(a.Status)) },
			},
			{
				Key:    "orders",
				Header: "Orders",
				Render: func(a model.Account) string { return strconv.Itoa(a.OrdersCount) },
			},
			{
				Key:    "spent",
				Header: "Total Spent",
				Render: func(a model.Account) string { return util.FormatMoney(a.TotalSpent) },
			},
			{
				Key:    "joined",
				Header: "Joined",
				Render: func(a model.Account) string { return util.FormatDate(a.CreatedAt) },
			},
			{
				Key:    "lastLogin",
				Header: "Last Login",
				Render: func(a model.Account) string {
					if a.LastLogin == nil {
						return "Never"
					}
					return util.FormatDate(*a.LastLogin)
				},
			},
		},
		SearchKey:         func(a model.Account) string { return a.Name + " " + a.Email },
		SearchPlaceholder: "Search users...",
		RowLink:           func(a model.Account) string { return usersPath + "/" + a.RecordID() },
		EmptyMessage:      "No users found",
	}
}

func toggleLabel(a model.Account) string {
	if a.Status == model.AccountActive {
		return "Deactivate"
	}
	return "Activate"
}

// Users renders the storefront account listing.
func (h *UIHandlers) Users(w http.ResponseWriter, r *http.Request) {
	HandleTable(TableHandlerOpts[model.Account]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch:   h.UserSvc.List,
		Config:  userTableConfig(),
		Actions: func(a model.Account) []RowAction {
			return []RowAction{
				{Label: "View", URL: usersPath + "/" + a.RecordID()},
				{Label: toggleLabel(a), URL: usersPath + "/" + a.RecordID() + "/toggle-status", Post: true},
			}
		},
		BasePath: usersPath,
		PageMeta: PageMeta{Title: "Users", PageTitle: "Users", CurrentPage: PageUsers},
	})
}

// UserView renders one account with its recent orders.
func (h *UIHandlers) UserView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "User", PageTitle: "User details", CurrentPage: PageUser},
		Fetch: func(ctx context.Context, data map[string]any) error {
			account, err := h.UserSvc.Get(ctx, id)
			if err != nil {
				return err
			}
			data["Title"] = account.Name + " - " + brandName
			data["Account"] = account
			data["ToggleLabel"] = toggleLabel(account)
			data["ToggleAction"] = usersPath + "/" + id + "/toggle-status"
			data["Orders"] = h.ordersFor(ctx, account)
			return nil
		},
	})
}

// ordersFor picks the account's orders out of the admin listing. The
// history is secondary, so a failure only logs.
func (h *UIHandlers) ordersFor(ctx context.Context, a model.Account) []model.Order {
	if h.OrderSvc == nil {
		return nil
	}
	page, err := h.OrderSvc.List(ctx, service.OrderListOptions{Limit: listFetchLimit})
	if err != nil {
		h.logger().WarnContext(ctx, "order history unavailable", "user", a.RecordID(), "error", err)
		return nil
	}
	var out []model.Order
	for _, o := range page.Items {
		if o.User == a.RecordID() || (o.Customer != nil && o.Customer.ID == a.RecordID()) {
			out = append(out, o)
		}
	}
	return out
}

// UserToggleStatus handles POST /users/{id}/toggle-status.
func (h *UIHandlers) UserToggleStatus(w http.ResponseWriter, r *http.Request) {
	target := usersPath
	if ref := safeRedirectFromURL(r.Header.Get("Referer")); ref != "" {
		target = ref
	}
	h.recordAction(w, r, func(ctx context.Context, id string) error {
		_, err := h.UserSvc.ToggleStatus(ctx, id)
		return err
	}, "User status updated.", "Failed to update user status.", target)
}
