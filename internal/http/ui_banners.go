package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/http/validation"
	"github.com/target/storefront-admin/internal/table"
	"github.com/target/storefront-admin/internal/util"
)

const bannersPath = "/banners"

func bannerTableConfig() table.Config[model.Banner] {
	return table.Config[model.Banner]{
		Columns: []table.Column[model.Banner]{
			{
				Key:    "info",
				Header: "Banner Info",
				Render: func(b model.Banner) string { return b.Title },
				Image:  func(b model.Banner) string { return b.Image },
			},
			{
				Key:    "position",
				Header: "Position",
				Render: func(b model.Banner) string { return util.StatusLabel(string(b.Position)) },
			},
			{
				Key:    "dates",
				Header: "Schedule",
				Render: func(b model.Banner) string { return schedule(b) },
			},
			{
				Key:    "status",
				Header: "Status",
				Render: func(b model.Banner) string { return activeLabel(b.IsActive) },
				Class:  func(b model.Banner) string { return activeBadge(b.IsActive) },
			},
			table.Field("displayOrder", "Order", func(b model.Banner) any { return b.DisplayOrder }),
		},
		SearchKey:         func(b model.Banner) string { return b.Title + " " + b.Subtitle + " " + string(b.Position) },
		SearchPlaceholder: "Search banners...",
		RowLink:           func(b model.Banner) string { return bannersPath + "/" + b.ID + "/edit" },
		EmptyMessage:      "No banners yet",
	}
}

func schedule(b model.Banner) string {
	switch {
	case b.StartDate != nil && b.EndDate != nil:
		return util.FormatDate(*b.StartDate) + " to " + util.FormatDate(*b.EndDate)
	case b.StartDate != nil:
		return "From " + util.FormatDate(*b.StartDate)
	case b.EndDate != nil:
		return "Until " + util.FormatDate(*b.EndDate)
	}
	return "Always"
}

// Banners renders the banner listing.
func (h *UIHandlers) Banners(w http.ResponseWriter, r *http.Request) {
	HandleTable(TableHandlerOpts[model.Banner]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch:   h.BannerSvc.List,
		Config:  bannerTableConfig(),
		Actions: func(b model.Banner) []RowAction {
			return []RowAction{
				{Label: "Edit", URL: bannersPath + "/" + b.ID + "/edit"},
				{Label: "Delete", URL: bannersPath + "/" + b.ID + "/delete", Post: true, Confirm: "Delete banner " + b.Title + "?", Class: "btn-danger"},
			}
		},
		BasePath:    bannersPath,
		PageMeta:    PageMeta{Title: "Banners", PageTitle: "Banners", CurrentPage: PageBanners},
		CreateURL:   bannersPath + "/new",
		CreateLabel: "Add banner",
	})
}

func (h *UIHandlers) bannerForm(w http.ResponseWriter, r *http.Request, mode FormMode) FormHandlerOpts[model.BannerInput] {
	return FormHandlerOpts[model.BannerInput]{
		Handler:  h,
		W:        w,
		R:        r,
		Mode:     mode,
		Noun:     "Banner",
		BasePath: bannersPath,
		Fields: func(ctx context.Context) ([]FormField, error) {
			b := model.Banner{Position: model.BannerHero, IsActive: true}
			if mode == FormModeEdit {
				var err error
				if b, err = h.BannerSvc.Get(ctx, r.PathValue("id")); err != nil {
					return nil, err
				}
			}
			return bannerFields(b), nil
		},
		Parser: parseBannerForm,
		Save: func(ctx context.Context, id string, in model.BannerInput) error {
			var err error
			if mode == FormModeEdit {
				_, err = h.BannerSvc.Update(ctx, id, in)
			} else {
				_, err = h.BannerSvc.Create(ctx, in)
			}
			return err
		},
	}
}

// BannerNew renders the create form.
func (h *UIHandlers) BannerNew(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.bannerForm(w, r, FormModeCreate))
}

// BannerEdit renders the edit form.
func (h *UIHandlers) BannerEdit(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.bannerForm(w, r, FormModeEdit))
}

// BannerCreate handles POST /banners.
func (h *UIHandlers) BannerCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.bannerForm(w, r, FormModeCreate))
}

// BannerUpdate handles POST /banners/{id}.
func (h *UIHandlers) BannerUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.bannerForm(w, r, FormModeEdit))
}

// BannerDelete handles POST /banners/{id}/delete.
func (h *UIHandlers) BannerDelete(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.BannerSvc.Delete, "Banner deleted.", "Failed to delete banner.", bannersPath)
}

func bannerPositionOptions() []FormOption {
	opts := make([]FormOption, 0, len(model.BannerPositions))
	for _, p := range model.BannerPositions {
		opts = append(opts, FormOption{Value: string(p), Label: util.StatusLabel(string(p))})
	}
	return opts
}

func bannerFields(b model.Banner) []FormField {
	return []FormField{
		textField("title", "Title", b.Title, true),
		selectField("position", "Position", string(b.Position), bannerPositionOptions()),
		textField("subtitle", "Subtitle", b.Subtitle, false),
		textField("badge", "Badge", b.Badge, false),
		linkField("image", "Image URL", b.Image),
		textField("code", "Coupon code", b.Code, false),
		textField("buttonText", "Button text", b.ButtonText, false),
		linkField("buttonLink", "Button link", b.ButtonLink),
		dateField("startDate", "Start date", b.StartDate),
		dateField("endDate", "End date", b.EndDate),
		intField("displayOrder", "Display order", b.DisplayOrder),
		areaField("description", "Description", b.Description),
		statsField(b.Stats),
		checkField("isActive", "Active", b.IsActive),
	}
}

func parseBannerForm(f *validation.Form) model.BannerInput {
	positions := make([]string, 0, len(model.BannerPositions))
	for _, p := range model.BannerPositions {
		positions = append(positions, string(p))
	}
	return model.BannerInput{
		Title:        f.String("title", validation.Required("Title", 200)),
		Position:     model.BannerPosition(strings.ToLower(f.String("position", validation.OneOf("Position", positions)))),
		Subtitle:     f.String("subtitle", validation.Optional("Subtitle", 200)),
		Badge:        f.String("badge", validation.Optional("Badge", 50)),
		Image:        f.String("image", validation.Required("Image URL", 2048), validation.Link("Image URL")),
		Code:         strings.ToUpper(f.String("code", validation.Optional("Coupon code", 32))),
		ButtonText:   f.String("buttonText", validation.Optional("Button text", 50)),
		ButtonLink:   f.String("buttonLink", validation.Link("Button link")),
		StartDate:    f.OptionalDate("startDate", "Start date"),
		EndDate:      f.OptionalDate("endDate", "End date"),
		DisplayOrder: f.Int("displayOrder", "Display order"),
		Description:  f.String("description", validation.Optional("Description", 1000)),
		Stats:        parseStats(f, "stats"),
		IsActive:     f.Bool("isActive"),
	}
}

// statsField edits value/label pairs as "value | label" lines.
func statsField(stats []model.Stat) FormField {
	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		lines = append(lines, s.Value+" | "+s.Label)
	}
	return FormField{
		Name:        "stats",
		Label:       "Stats",
		Type:        "textarea",
		Value:       strings.Join(lines, "\n"),
		Placeholder: "10k+ | Happy customers",
		Help:        "One per line as value | label.",
		Wide:        true,
	}
}

func parseStats(f *validation.Form, name string) []model.Stat {
	var stats []model.Stat
	for _, line := range strings.Split(f.Raw(name), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, label, ok := strings.Cut(line, "|")
		if !ok {
			f.Fail(name, "Each stat needs a value and a label separated by |.")
			continue
		}
		stats = append(stats, model.Stat{Value: strings.TrimSpace(value), Label: strings.TrimSpace(label)})
	}
	return stats
}
