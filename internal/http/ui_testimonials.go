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
	testimonialsPath = "/testimonials"
	// testimonialFetchLimit matches the backend's largest page.
	testimonialFetchLimit = 100
)

func testimonialTableConfig() table.Config[model.Testimonial] {
	return table.Config[model.Testimonial]{
		Columns: []table.Column[model.Testimonial]{
			{
				Key:    "name",
				Header: "User",
				Render: func(t model.Testimonial) string {
					if t.Role == "" {
						return t.Name
					}
					return t.Name + ", " + t.Role
				},
				Image: func(t model.Testimonial) string { return t.Avatar },
			},
			{
				Key:    "rating",
				Header: "Rating",
				Render: func(t model.Testimonial) string { return stars(t.Rating) },
				Class:  func(model.Testimonial) string { return "rating" },
			},
			{
				Key:    "content",
				Header: "Content",
				Render: func(t model.Testimonial) string { return util.PlainText(t.Content, 80) },
			},
			{
				Key:    "isApproved",
				Header: "Status",
				Render: func(t model.Testimonial) string {
					if t.IsApproved {
						return "Approved"
					}
					return "Pending"
				},
				Class: func(t model.Testimonial) string {
					if t.IsApproved {
						return "badge badge-success"
					}
					return "badge badge-warning"
				},
			},
			table.Field("displayOrder", "Order", func(t model.Testimonial) any { return t.DisplayOrder }),
		},
		SearchKey:         func(t model.Testimonial) string { return t.Name + " " + t.Content },
		SearchPlaceholder: "Search testimonials...",
		EmptyMessage:      "No testimonials yet",
	}
}

func stars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func (h *UIHandlers) listTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return h.TestimonialSvc.List(ctx, testimonialFetchLimit)
}

// Testimonials renders the testimonial listing.
func (h *UIHandlers) Testimonials(w http.ResponseWriter, r *http.Request) {
	HandleTable(TableHandlerOpts[model.Testimonial]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch:   h.listTestimonials,
		Config:  testimonialTableConfig(),
		Actions: func(t model.Testimonial) []RowAction {
			return []RowAction{
				{Label: "Edit", URL: testimonialsPath + "/" + t.ID + "/edit"},
				{Label: "Delete", URL: testimonialsPath + "/" + t.ID + "/delete", Post: true, Confirm: "Delete testimonial from " + t.Name + "?", Class: "btn-danger"},
			}
		},
		BasePath:    testimonialsPath,
		PageMeta:    PageMeta{Title: "Testimonials", PageTitle: "Testimonials", CurrentPage: PageTestimonials},
		CreateURL:   testimonialsPath + "/new",
		CreateLabel: "Add testimonial",
	})
}

func (h *UIHandlers) testimonialForm(w http.ResponseWriter, r *http.Request, mode FormMode) FormHandlerOpts[model.TestimonialInput] {
	return FormHandlerOpts[model.TestimonialInput]{
		Handler:  h,
		W:        w,
		R:        r,
		Mode:     mode,
		Noun:     "Testimonial",
		BasePath: testimonialsPath,
		Fields: func(ctx context.Context) ([]FormField, error) {
			t := model.Testimonial{Rating: 5}
			if mode == FormModeEdit {
				list, err := h.listTestimonials(ctx)
				if err != nil {
					return nil, err
				}
				if t, err = findRecord(list, r.PathValue("id"), "testimonial"); err != nil {
					return nil, err
				}
			}
			return testimonialFields(t), nil
		},
		Parser: parseTestimonialForm,
		Save: func(ctx context.Context, id string, in model.TestimonialInput) error {
			var err error
			if mode == FormModeEdit {
				_, err = h.TestimonialSvc.Update(ctx, id, in)
			} else {
				_, err = h.TestimonialSvc.Create(ctx, in)
			}
			return err
		},
	}
}

// TestimonialNew renders the create form.
func (h *UIHandlers) TestimonialNew(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.testimonialForm(w, r, FormModeCreate))
}

// TestimonialEdit renders the edit form.
func (h *UIHandlers) TestimonialEdit(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.testimonialForm(w, r, FormModeEdit))
}

// TestimonialCreate handles POST /testimonials.
func (h *UIHandlers) TestimonialCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.testimonialForm(w, r, FormModeCreate))
}

// TestimonialUpdate handles POST /testimonials/{id}.
func (h *UIHandlers) TestimonialUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.testimonialForm(w, r, FormModeEdit))
}

// TestimonialDelete handles POST /testimonials/{id}/delete.
func (h *UIHandlers) TestimonialDelete(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.TestimonialSvc.Delete, "Testimonial deleted.", "Failed to delete testimonial.", testimonialsPath)
}

//nolint:gochecknoglobals // static select options
var ratingOptions = []FormOption{
	{Value: "5", Label: "5 stars"},
	{Value: "4", Label: "4 stars"},
	{Value: "3", Label: "3 stars"},
	{Value: "2", Label: "2 stars"},
	{Value: "1", Label: "1 star"},
}

func testimonialFields(t model.Testimonial) []FormField {
	rating := ""
	if t.Rating > 0 {
		rating = strconv.Itoa(t.Rating)
	}
	return []FormField{
		textField("name", "Name", t.Name, true),
		textField("role", "Role", t.Role, false),
		selectField("rating", "Rating", rating, ratingOptions),
		linkField("avatar", "Avatar URL", t.Avatar),
		intField("displayOrder", "Display order", t.DisplayOrder),
		areaField("content", "Content", t.Content),
		checkField("isApproved", "Approved", t.IsApproved),
	}
}

func parseTestimonialForm(f *validation.Form) model.TestimonialInput {
	in := model.TestimonialInput{
		Name:         f.String("name", validation.Required("Name", 100)),
		Role:         f.String("role", validation.Optional("Role", 100)),
		Rating:       f.Int("rating", "Rating"),
		Avatar:       f.String("avatar", validation.Link("Avatar URL")),
		DisplayOrder: f.Int("displayOrder", "Display order"),
		Content:      f.String("content", validation.Required("Content", 2000)),
		IsApproved:   f.Bool("isApproved"),
	}
	if in.Rating < 1 || in.Rating > 5 {
		f.Fail("rating", "Rating must be between 1 and 5.")
	}
	return in
}
