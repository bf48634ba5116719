package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/http/templates/core"
	"github.com/target/storefront-admin/internal/service"
	"github.com/target/storefront-admin/internal/table"
	"github.com/target/storefront-admin/internal/util"
)

const ordersPath = "/orders"

func orderTableConfig() table.Config[model.Order] {
	return table.Config[model.Order]{
		Columns: []table.Column[model.Order]{
			{
				Key:    "orderNumber",
				Header: "Order",
				Render: func(o model.Order) string { return o.OrderNumber },
			},
			{
				Key:    "customer",
				Header: "Customer",
				Render: func(o model.Order) string { return o.CustomerName() },
			},
			{
				Key:    "items",
				Header: "Items",
				Render: func(o model.Order) string { return strconv.Itoa(len(o.Items)) + " items" },
			},
			{
				Key:    "status",
				Header: "Status",
				Render: func(o model.Order) string { return util.StatusLabel(string(o.Status)) },
				Class:  func(o model.Order) string { return "badge " + core.BadgeClass(string(o.Status)) },
			},
			{
				Key:    "paymentStatus",
				Header: "Payment",
				Render: func(o model.Order) string { return util.StatusLabel(string(o.PaymentStatus)) },
				Class:  func(o model.Order) string { return "badge " + core.BadgeClass(string(o.PaymentStatus)) },
			},
			{
				Key:         "total",
				Header:      "Total",
				Render:      func(o model.Order) string { return util.FormatMoney(o.Total) },
				HeaderClass: "text-right",
			},
			{
				Key:    "createdAt",
				Header: "Placed",
				Render: func(o model.Order) string { return util.FormatDate(o.CreatedAt) },
			},
		},
		SearchKey: func(o model.Order) string {
			return o.OrderNumber + " " + o.CustomerName() + " " + o.CustomerEmail()
		},
		SearchPlaceholder: "Search orders...",
		RowLink:           func(o model.Order) string { return ordersPath + "/" + o.RecordID() },
		EmptyMessage:      "No orders found",
	}
}

// Orders renders the order listing with one filter tab per status.
func (h *UIHandlers) Orders(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseOrderStatus(r.URL.Query().Get("status"))
	if err != nil {
		status = ""
	}

	HandleTable(TableHandlerOpts[model.Order]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch: func(ctx context.Context) ([]model.Order, error) {
			page, err := h.OrderSvc.List(ctx, service.OrderListOptions{Status: status, Limit: listFetchLimit})
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		},
		Config: orderTableConfig(),
		Actions: func(o model.Order) []RowAction {
			return []RowAction{{Label: "View", URL: ordersPath + "/" + o.RecordID()}}
		},
		BasePath: ordersPath,
		PageMeta: PageMeta{Title: "Orders", PageTitle: "Orders", CurrentPage: PageOrders},
		Filters:  orderFilters(status),
	})
}

func orderFilters(active model.OrderStatus) []FilterLink {
	links := []FilterLink{{Label: "All", URL: ordersPath, Active: active == ""}}
	for _, s := range model.OrderStatuses {
		links = append(links, FilterLink{
			Label:  util.StatusLabel(string(s)),
			URL:    ordersPath + "?" + url.Values{"status": {string(s)}}.Encode(),
			Active: s == active,
		})
	}
	return links
}

// OrderView renders one order with its items, totals and status control.
func (h *UIHandlers) OrderView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Order", PageTitle: "Order details", CurrentPage: PageOrder},
		Fetch: func(ctx context.Context, data map[string]any) error {
			order, err := h.OrderSvc.Get(ctx, id)
			if err != nil {
				return err
			}
			title := "Order " + order.OrderNumber
			data["Title"] = title + " - " + brandName
			data["PageTitle"] = title
			data["Order"] = order
			data["Statuses"] = model.OrderStatuses
			data["StatusAction"] = ordersPath + "/" + id + "/status"
			return nil
		},
	})
}

// OrderUpdateStatus handles POST /orders/{id}/status.
func (h *UIHandlers) OrderUpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := r.PostFormValue("status")
	h.recordAction(w, r, func(ctx context.Context, id string) error {
		_, err := h.OrderSvc.UpdateStatus(ctx, id, status)
		return err
	}, "Order status changed to "+util.StatusLabel(status)+".", "Failed to update order status.", ordersPath+"/"+r.PathValue("id"))
}
