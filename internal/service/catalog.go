package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/target/storefront-admin/internal/apiclient"
	"github.com/target/storefront-admin/internal/core"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
)

const categoryTreeCacheKey = "categories:tree"

// ProductServiceOptions groups dependencies for ProductService.
type ProductServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// ProductService manages the product catalog.
type ProductService struct {
	backend  *Backend
	products resource[model.Product]
}

// NewProductService constructs a ProductService.
func NewProductService(opts ProductServiceOptions) *ProductService {
	return &ProductService{
		backend:  opts.Backend,
		products: newResource[model.Product](opts.Backend, opts.Activity, "product", "/products"),
	}
}

// List returns one page of products matching q.
func (s *ProductService) List(ctx context.Context, q model.ProductQuery) (Page[model.Product], error) {
	return s.products.list(ctx, q.Values())
}

// Featured returns up to limit featured products.
func (s *ProductService) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	return s.collection(ctx, "/products/featured", limitQuery(limit))
}

// Newest returns up to limit products flagged as new arrivals.
func (s *ProductService) Newest(ctx context.Context, limit int) ([]model.Product, error) {
	return s.collection(ctx, "/products/new", limitQuery(limit))
}

func (s *ProductService) collection(ctx context.Context, path string, q url.Values) ([]model.Product, error) {
	res, err := fetch[[]model.Product](ctx, s.backend, apiclient.Request{Path: path, Query: q}, exprList)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (model.Product, error) {
	return s.products.get(ctx, id)
}

// GetBySlug retrieves a product by its URL slug.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (model.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return model.Product{}, apperrors.ValidationField("slug", "Slug is required")
	}
	res, err := fetch[model.Product](ctx, s.backend,
		apiclient.Request{Path: "/products/slug/" + url.PathEscape(slug)}, exprData)
	if err != nil {
		return model.Product{}, err
	}
	return res.Value, nil
}

// Create validates and creates a product.
func (s *ProductService) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	if err := in.Validate(); err != nil {
		return model.Product{}, validationError(err)
	}
	return s.products.create(ctx, in, "Created product "+in.Name)
}

// Update validates and replaces a product.
func (s *ProductService) Update(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	if err := in.Validate(); err != nil {
		return model.Product{}, validationError(err)
	}
	return s.products.update(ctx, id, in, "Updated product "+in.Name)
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.delete(ctx, id, "Deleted product "+id)
}

// CategoryServiceOptions groups dependencies for CategoryService.
type CategoryServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
	Cache    core.CacheRepository // Optional
	TTL      time.Duration        // Zero disables caching
	Logger   *slog.Logger
}

// CategoryService manages the category tree. The tree is cached briefly and
// dropped on every successful mutation.
type CategoryService struct {
	backend    *Backend
	categories resource[model.Category]
	tree       *core.JSONCache[[]model.CategoryNode]
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(opts CategoryServiceOptions) *CategoryService {
	cache := opts.Cache
	if opts.TTL <= 0 {
		cache = nil
	}
	return &CategoryService{
		backend:    opts.Backend,
		categories: newResource[model.Category](opts.Backend, opts.Activity, "category", "/categories"),
		tree: core.NewJSONCache[[]model.CategoryNode](core.JSONCacheOptions{
			Cache:  cache,
			Key:    categoryTreeCacheKey,
			TTL:    opts.TTL,
			Logger: opts.Logger,
		}),
	}
}

// Tree returns the category hierarchy.
func (s *CategoryService) Tree(ctx context.Context) ([]model.CategoryNode, error) {
	return s.tree.Load(ctx, func(ctx context.Context) ([]model.CategoryNode, error) {
		res, err := fetch[[]model.CategoryNode](ctx, s.backend, apiclient.Request{Path: "/categories"}, exprData)
		if err != nil {
			return nil, err
		}
		return res.Value, nil
	})
}

// FlushTree drops the cached category tree so the next read hits the backend.
func (s *CategoryService) FlushTree(ctx context.Context) {
	s.tree.Invalidate(ctx)
}

// Rows returns the tree flattened depth-first for tabular display.
func (s *CategoryService) Rows(ctx context.Context) ([]model.CategoryRow, error) {
	nodes, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return model.FlattenCategories(nodes), nil
}

// Get retrieves a category and its direct subcategories by slug.
func (s *CategoryService) Get(ctx context.Context, slug string) (model.CategoryDetails, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return model.CategoryDetails{}, apperrors.ValidationField("slug", "Slug is required")
	}
	res, err := fetch[model.CategoryDetails](ctx, s.backend,
		apiclient.Request{Path: "/categories/" + url.PathEscape(slug)}, exprData)
	if err != nil {
		return model.CategoryDetails{}, err
	}
	return res.Value, nil
}

// Create validates and creates a category.
func (s *CategoryService) Create(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	if err := in.Validate(); err != nil {
		return model.Category{}, validationError(err)
	}
	c, err := s.categories.create(ctx, in, "Created category "+in.Name)
	if err != nil {
		return c, err
	}
	s.tree.Invalidate(ctx)
	return c, nil
}

// Update validates and replaces a category.
func (s *CategoryService) Update(ctx context.Context, id string, in model.CategoryInput) (model.Category, error) {
	if err := in.Validate(); err != nil {
		return model.Category{}, validationError(err)
	}
	if in.ParentCategory != nil && *in.ParentCategory == id {
		return model.Category{}, apperrors.ValidationField("parentCategory", "A category cannot be its own parent")
	}
	c, err := s.categories.update(ctx, id, in, "Updated category "+in.Name)
	if err != nil {
		return c, err
	}
	s.tree.Invalidate(ctx)
	return c, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.delete(ctx, id, "Deleted category "+id); err != nil {
		return err
	}
	s.tree.Invalidate(ctx)
	return nil
}
