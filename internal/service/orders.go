package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
)

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// OrderService reads orders and moves them through fulfilment.
type OrderService struct {
	orders resource[model.Order]
}

// NewOrderService constructs an OrderService.
func NewOrderService(opts OrderServiceOptions) *OrderService {
	orders := newResource[model.Order](opts.Backend, opts.Activity, "order", "/orders")
	orders.listPath = "/orders/admin/all"
	return &OrderService{orders: orders}
}

// OrderListOptions filters the admin order listing.
type OrderListOptions struct {
	Status model.OrderStatus
	Page   int
	Limit  int
}

func (o OrderListOptions) values() url.Values {
	v := url.Values{}
	if o.Status != "" {
		v.Set("status", string(o.Status))
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	return v
}

// List returns orders across all customers.
func (s *OrderService) List(ctx context.Context, opts OrderListOptions) (Page[model.Order], error) {
	return s.orders.list(ctx, opts.values())
}

// Get retrieves an order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (model.Order, error) {
	return s.orders.get(ctx, id)
}

// UpdateStatus moves an order to status, which must be one of the known order statuses.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (model.Order, error) {
	st, err := model.ParseOrderStatus(status)
	if err != nil {
		return model.Order{}, apperrors.ValidationField("status", "Unknown order status")
	}
	return s.orders.mutate(ctx, http.MethodPut, id, []string{"status"},
		model.OrderStatusUpdate{Status: st}, model.ActivityStatus, "Order status set to "+string(st))
}

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// UserService reads customer accounts and toggles their status.
type UserService struct {
	users resource[model.Account]
}

// NewUserService constructs a UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{users: newResource[model.Account](opts.Backend, opts.Activity, "user", "/users")}
}

// List returns all customer accounts.
func (s *UserService) List(ctx context.Context) ([]model.Account, error) {
	page, err := s.users.list(ctx, nil)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Get retrieves an account by ID.
func (s *UserService) Get(ctx context.Context, id string) (model.Account, error) {
	return s.users.get(ctx, id)
}

// ToggleStatus flips an account between active and inactive.
func (s *UserService) ToggleStatus(ctx context.Context, id string) (model.Account, error) {
	current, err := s.users.get(ctx, id)
	if err != nil {
		return model.Account{}, err
	}
	next := current.Status.Toggled()
	updated, err := s.users.mutate(ctx, http.MethodPut, id, []string{"status"},
		model.AccountStatusUpdate{Status: next}, model.ActivityStatus, "Account "+current.Email+" set to "+string(next))
	if err != nil {
		return model.Account{}, err
	}
	if updated.RecordID() == "" {
		current.Status = next
		return current, nil
	}
	return updated, nil
}
