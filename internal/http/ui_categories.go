package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/http/validation"
	"github.com/target/storefront-admin/internal/table"
)

const categoriesPath = "/categories"

func categoryTableConfig() table.Config[model.CategoryRow] {
	return table.Config[model.CategoryRow]{
		Columns: []table.Column[model.CategoryRow]{
			{
				Key:    "category",
				Header: "Category",
				Render: func(c model.CategoryRow) string { return c.Name },
				Class:  func(c model.CategoryRow) string { return "indent-" + strconv.Itoa(min(c.Depth, 3)) },
				Image:  func(c model.CategoryRow) string { return c.Image },
			},
			table.Field("slug", "Slug", func(c model.CategoryRow) any { return c.Slug }),
			{
				Key:    "parent",
				Header: "Parent",
				Render: func(c model.CategoryRow) string {
					if c.ParentName == "" {
						return "Root"
					}
					return c.ParentName
				},
			},
			table.Field("displayOrder", "Order", func(c model.CategoryRow) any { return c.DisplayOrder }),
			{
				Key:    "status",
				Header: "Status",
				Render: func(c model.CategoryRow) string { return activeLabel(c.IsActive) },
				Class:  func(c model.CategoryRow) string { return activeBadge(c.IsActive) },
			},
		},
		SearchKey:         func(c model.CategoryRow) string { return c.Name + " " + c.Slug },
		SearchPlaceholder: "Search categories...",
		EmptyMessage:      "No categories yet",
	}
}

// Categories renders the category tree flattened depth-first.
func (h *UIHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	HandleTable(TableHandlerOpts[model.CategoryRow]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch:   h.CategorySvc.Rows,
		Config:  categoryTableConfig(),
		Actions: func(c model.CategoryRow) []RowAction {
			return []RowAction{
				{Label: "Edit", URL: categoriesPath + "/" + c.ID + "/edit"},
				{
					Label:   "Delete",
					URL:     categoriesPath + "/" + c.ID + "/delete",
					Post:    true,
					Confirm: "Delete category " + c.Name + "?",
					Class:   "btn-danger",
				},
			}
		},
		BasePath:    categoriesPath,
		PageMeta:    PageMeta{Title: "Categories", PageTitle: "Categories", CurrentPage: PageCategories},
		CreateURL:   categoriesPath + "/new",
		CreateLabel: "Add category",
	})
}

// categoryChoices returns root categories for the product category select
// and children (with a blank choice) for the subcategory select.
func (h *UIHandlers) categoryChoices(ctx context.Context) ([]FormOption, []FormOption, error) {
	rows, err := h.CategorySvc.Rows(ctx)
	if err != nil {
		return nil, nil, err
	}
	roots := []FormOption{{Value: "", Label: "Select a category"}}
	subs := []FormOption{{Value: "", Label: "None"}}
	for _, c := range rows {
		if c.Depth == 0 {
			roots = append(roots, FormOption{Value: c.ID, Label: c.Name})
			continue
		}
		subs = append(subs, FormOption{Value: c.ID, Label: c.ParentName + " / " + c.Name})
	}
	return roots, subs, nil
}

func (h *UIHandlers) categoryForm(w http.ResponseWriter, r *http.Request, mode FormMode) FormHandlerOpts[model.CategoryInput] {
	return FormHandlerOpts[model.CategoryInput]{
		Handler:  h,
		W:        w,
		R:        r,
		Mode:     mode,
		Noun:     "Category",
		BasePath: categoriesPath,
		Fields: func(ctx context.Context) ([]FormField, error) {
			rows, err := h.CategorySvc.Rows(ctx)
			if err != nil {
				return nil, err
			}
			current := model.CategoryRow{Category: model.Category{IsActive: true}}
			if mode == FormModeEdit {
				if current, err = findRecord(rows, r.PathValue("id"), "category"); err != nil {
					return nil, err
				}
			}
			return categoryFields(current.Category, parentOptions(rows, current.ID)), nil
		},
		Parser: parseCategoryForm,
		Save: func(ctx context.Context, id string, in model.CategoryInput) error {
			var err error
			if mode == FormModeEdit {
				_, err = h.CategorySvc.Update(ctx, id, in)
			} else {
				_, err = h.CategorySvc.Create(ctx, in)
			}
			return err
		},
	}
}

// parentOptions lists every category except self as a possible parent.
func parentOptions(rows []model.CategoryRow, self string) []FormOption {
	opts := []FormOption{{Value: "", Label: "None (root category)"}}
	for _, c := range rows {
		if c.ID == self {
			continue
		}
		label := c.Name
		if c.ParentName != "" {
			label = c.ParentName + " / " + c.Name
		}
		opts = append(opts, FormOption{Value: c.ID, Label: label})
	}
	return opts
}

// CategoryNew renders the create form.
func (h *UIHandlers) CategoryNew(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.categoryForm(w, r, FormModeCreate))
}

// CategoryEdit renders the edit form.
func (h *UIHandlers) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.categoryForm(w, r, FormModeEdit))
}

// CategoryCreate handles POST /categories.
func (h *UIHandlers) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.categoryForm(w, r, FormModeCreate))
}

// CategoryUpdate handles POST /categories/{id}.
func (h *UIHandlers) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.categoryForm(w, r, FormModeEdit))
}

// CategoryDelete handles POST /categories/{id}/delete.
func (h *UIHandlers) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.CategorySvc.Delete, "Category deleted.", "Failed to delete category.", categoriesPath)
}

func categoryFields(c model.Category, parents []FormOption) []FormField {
	parent := FormField{Name: "parentCategory", Label: "Parent category", Type: "select", Value: c.ParentID(), Options: parents}
	return []FormField{
		textField("name", "Name", c.Name, true),
		parent,
		linkField("image", "Image URL", c.Image),
		intField("displayOrder", "Display order", c.DisplayOrder),
		areaField("description", "Description", c.Description),
		checkField("isActive", "Active", c.IsActive),
	}
}

func parseCategoryForm(f *validation.Form) model.CategoryInput {
	in := model.CategoryInput{
		Name:         f.String("name", validation.Required("Name", 100)),
		Image:        f.String("image", validation.Link("Image URL")),
		DisplayOrder: f.Int("displayOrder", "Display order"),
		Description:  f.String("description", validation.Optional("Description", 1000)),
		IsActive:     f.Bool("isActive"),
	}
	if parent := f.Raw("parentCategory"); parent != "" {
		in.ParentCategory = &parent
	}
	return in
}
