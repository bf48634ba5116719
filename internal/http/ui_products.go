package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/http/validation"
	"github.com/target/storefront-admin/internal/table"
	"github.com/target/storefront-admin/internal/util"
)

const (
	productsPath = "/products"
	// listFetchLimit caps backend-paginated listings that are searched locally.
	listFetchLimit = 100
)

// productTableConfig renders category IDs through names, which is filled
// in by the fetch before any row renders.
func productTableConfig(names map[string]string) table.Config[model.Product] {
	categoryName := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}
	return table.Config[model.Product]{
		Columns: []table.Column[model.Product]{
			{
				Key:    "name",
				Header: "Product",
				Render: func(p model.Product) string { return p.Name },
				Image:  func(p model.Product) string { return p.Thumbnail },
			},
			table.Field("sku", "SKU", func(p model.Product) any { return p.SKU }),
			table.Field("category", "Category", func(p model.Product) any { return categoryName(p.Category) }),
			{
				Key:    "price",
				Header: "Price",
				Render: func(p model.Product) string { return util.FormatMoney(p.Price) },
			},
			{
				Key:    "stock",
				Header: "Stock",
				Render: func(p model.Product) string { return strconv.Itoa(p.Stock) },
				Class: func(p model.Product) string {
					if p.LowStock() {
						return "text-danger"
					}
					return ""
				},
			},
			{
				Key:    "status",
				Header: "Status",
				Render: func(p model.Product) string { return activeLabel(p.IsActive) },
				Class:  func(p model.Product) string { return activeBadge(p.IsActive) },
			},
		},
		SearchKey: func(p model.Product) string {
			return p.Name + " " + p.SKU + " " + categoryName(p.Category)
		},
		SearchPlaceholder: "Search products...",
		RowLink:           func(p model.Product) string { return productsPath + "/" + p.RecordID() + "/edit" },
		EmptyMessage:      "No products found",
	}
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func activeBadge(active bool) string {
	if active {
		return "badge badge-success"
	}
	return "badge badge-muted"
}

// Products renders the catalogue listing.
func (h *UIHandlers) Products(w http.ResponseWriter, r *http.Request) {
	names := map[string]string{}
	HandleTable(TableHandlerOpts[model.Product]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch: func(ctx context.Context) ([]model.Product, error) {
			page, err := h.ProductSvc.List(ctx, model.ProductQuery{Limit: listFetchLimit, Sort: "createdAt", Order: "desc"})
			if err != nil {
				return nil, err
			}
			if rows, cerr := h.CategorySvc.Rows(ctx); cerr == nil {
				for _, c := range rows {
					names[c.ID] = c.Name
				}
			} else {
				h.logger().WarnContext(ctx, "category names unavailable", "error", cerr)
			}
			return page.Items, nil
		},
		Config: productTableConfig(names),
		Actions: func(p model.Product) []RowAction {
			return []RowAction{
				{Label: "Edit", URL: productsPath + "/" + p.RecordID() + "/edit"},
				{
					Label:   "Delete",
					URL:     productsPath + "/" + p.RecordID() + "/delete",
					Post:    true,
					Confirm: "Delete " + p.Name + "?",
					Class:   "btn-danger",
				},
			}
		},
		BasePath:    productsPath,
		PageMeta:    PageMeta{Title: "Products", PageTitle: "Products", CurrentPage: PageProducts},
		CreateURL:   productsPath + "/new",
		CreateLabel: "Add product",
	})
}

func (h *UIHandlers) productForm(w http.ResponseWriter, r *http.Request, mode FormMode) FormHandlerOpts[model.ProductInput] {
	return FormHandlerOpts[model.ProductInput]{
		Handler:     h,
		W:           w,
		R:           r,
		Mode:        mode,
		Noun:        "Product",
		BasePath:    productsPath,
		CurrentPage: PageProductForm,
		Fields: func(ctx context.Context) ([]FormField, error) {
			roots, subs, err := h.categoryChoices(ctx)
			if err != nil {
				return nil, err
			}
			p := model.Product{IsActive: true}
			if mode == FormModeEdit {
				if p, err = h.ProductSvc.Get(ctx, r.PathValue("id")); err != nil {
					return nil, err
				}
			}
			return productFields(p, roots, subs), nil
		},
		Parser: parseProductForm,
		Save: func(ctx context.Context, id string, in model.ProductInput) error {
			var err error
			if mode == FormModeEdit {
				_, err = h.ProductSvc.Update(ctx, id, in)
			} else {
				_, err = h.ProductSvc.Create(ctx, in)
			}
			return err
		},
	}
}

// ProductNew renders the create form.
func (h *UIHandlers) ProductNew(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.productForm(w, r, FormModeCreate))
}

// ProductEdit renders the edit form.
func (h *UIHandlers) ProductEdit(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.productForm(w, r, FormModeEdit))
}

// ProductCreate handles POST /products.
func (h *UIHandlers) ProductCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.productForm(w, r, FormModeCreate))
}

// ProductUpdate handles POST /products/{id}.
func (h *UIHandlers) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.productForm(w, r, FormModeEdit))
}

// ProductDelete handles POST /products/{id}/delete.
func (h *UIHandlers) ProductDelete(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.ProductSvc.Delete, "Product deleted.", "Failed to delete product.", productsPath)
}

func productFields(p model.Product, roots, subs []FormOption) []FormField {
	return []FormField{
		textField("name", "Name", p.Name, true),
		textField("sku", "SKU", p.SKU, true),
		selectField("category", "Category", p.Category, roots),
		{Name: "subcategory", Label: "Subcategory", Type: "select", Value: p.Subcategory, Options: subs},
		moneyField("price", "Price", nonZero(p.Price), true),
		moneyField("originalPrice", "Original price", p.OriginalPrice, false),
		intField("stock", "Stock", p.Stock),
		{Name: "lowStockThreshold", Label: "Low stock threshold", Type: "number", Step: "1", Value: optionalInt(p.LowStockThreshold)},
		moneyField("weight", "Weight (kg)", p.Weight, false),
		areaField("description", "Description", p.Description),
		{Name: "images", Label: "Image URLs", Type: "textarea", Value: strings.Join(p.Images, "\n"), Wide: true, Help: "One URL per line. The first image is the thumbnail."},
		textField("tags", "Tags", strings.Join(p.Tags, ", "), false),
		checkField("featured", "Featured", p.Featured),
		checkField("isNewProduct", "New arrival", p.IsNewProduct),
		checkField("isActive", "Active", p.IsActive),
	}
}

func parseProductForm(f *validation.Form) model.ProductInput {
	active := f.Bool("isActive")
	in := model.ProductInput{
		Name:              f.String("name", validation.Required("Name", 200)),
		SKU:               f.String("sku", validation.Required("SKU", 64)),
		Category:          f.String("category", validation.Required("Category", 100)),
		Subcategory:       f.String("subcategory", validation.Optional("Subcategory", 100)),
		Price:             f.Float("price", "Price"),
		OriginalPrice:     f.OptionalFloat("originalPrice", "Original price"),
		Stock:             f.Int("stock", "Stock"),
		LowStockThreshold: f.OptionalInt("lowStockThreshold", "Low stock threshold"),
		Weight:            f.OptionalFloat("weight", "Weight"),
		Description:       f.String("description", validation.Optional("Description", 5000)),
		Images:            f.List("images"),
		Tags:              f.List("tags"),
		Featured:          f.Bool("featured"),
		IsNewProduct:      f.Bool("isNewProduct"),
		IsActive:          &active,
	}
	if len(in.Images) > 0 {
		in.Thumbnail = in.Images[0]
	}
	return in
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
