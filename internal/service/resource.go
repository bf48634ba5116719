package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/storefront-admin/internal/apiclient"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
)

// exprList accepts both a bare array and the {items|products|orders|users} wrappers
// some list endpoints use.
const exprList = "data.items || data.products || data.orders || data.users || data"

// record is any backend document with an identifier.
type record interface {
	RecordID() string
}

// Page is one page of a backend listing.
type Page[T any] struct {
	Items      []T
	Pagination *model.Pagination
}

// resource performs CRUD against one backend collection and records
// successful mutations in the activity log.
type resource[T record] struct {
	backend  *Backend
	activity *ActivityService
	name     string
	base     string
	listPath string
}

func newResource[T record](b *Backend, a *ActivityService, name, base string) resource[T] {
	return resource[T]{backend: b, activity: a, name: name, base: base, listPath: base}
}

func (r resource[T]) itemPath(id string, suffix ...string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperrors.ValidationField("id", "ID is required")
	}
	parts := append([]string{r.base, url.PathEscape(id)}, suffix...)
	return strings.Join(parts, "/"), nil
}

func (r resource[T]) list(ctx context.Context, query url.Values) (Page[T], error) {
	res, err := fetch[[]T](ctx, r.backend, apiclient.Request{Path: r.listPath, Query: query}, exprList)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: res.Value, Pagination: res.Pagination}, nil
}

func (r resource[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	path, err := r.itemPath(id)
	if err != nil {
		return zero, err
	}
	res, err := fetch[T](ctx, r.backend, apiclient.Request{Path: path}, exprData)
	if err != nil {
		return zero, err
	}
	if res.Value.RecordID() == "" {
		return zero, apperrors.NotFoundf("%s %s not found", r.name, id)
	}
	return res.Value, nil
}

func (r resource[T]) create(ctx context.Context, body any, summary string) (T, error) {
	res, err := fetch[T](ctx, r.backend, apiclient.Request{Method: http.MethodPost, Path: r.base, Body: body}, exprData)
	if err != nil {
		var zero T
		return zero, err
	}
	r.activity.Record(ctx, model.ActivityCreate, r.name, res.Value.RecordID(), summary)
	return res.Value, nil
}

func (r resource[T]) update(ctx context.Context, id string, body any, summary string) (T, error) {
	return r.mutate(ctx, http.MethodPut, id, nil, body, model.ActivityUpdate, summary)
}

// mutate sends body to the item path (plus suffix) and records action on success.
func (r resource[T]) mutate(
	ctx context.Context,
	method, id string,
	suffix []string,
	body any,
	action model.ActivityAction,
	summary string,
) (T, error) {
	var zero T
	path, err := r.itemPath(id, suffix...)
	if err != nil {
		return zero, err
	}
	res, err := fetch[T](ctx, r.backend, apiclient.Request{Method: method, Path: path, Body: body}, exprData)
	if err != nil {
		return zero, err
	}
	r.activity.Record(ctx, action, r.name, id, summary)
	return res.Value, nil
}

func (r resource[T]) delete(ctx context.Context, id, summary string) error {
	path, err := r.itemPath(id)
	if err != nil {
		return err
	}
	if _, err := send(ctx, r.backend, apiclient.Request{Method: http.MethodDelete, Path: path}); err != nil {
		return err
	}
	r.activity.Record(ctx, model.ActivityDelete, r.name, id, summary)
	return nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}
