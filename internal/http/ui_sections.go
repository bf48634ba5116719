package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/http/validation"
	"github.com/target/storefront-admin/internal/table"
)

const (
	heroPath  = "/hero"
	promoPath = "/promo"
)

// sectionActions is shared by hero and promo rows: only one section of each
// kind is live on the storefront, so activation is the main operation.
func sectionActions(base, id, title string, active bool) []RowAction {
	toggle := RowAction{Label: "Activate", URL: base + "/" + id + "/activate", Post: true}
	if active {
		toggle = RowAction{Label: "Deactivate", URL: base + "/" + id + "/deactivate", Post: true}
	}
	return []RowAction{
		{Label: "Edit", URL: base + "/" + id + "/edit"},
		toggle,
		{Label: "Delete", URL: base + "/" + id + "/delete", Post: true, Confirm: "Delete " + title + "?", Class: "btn-danger"},
	}
}

func heroTableConfig() table.Config[model.HeroSection] {
	return table.Config[model.HeroSection]{
		Columns: []table.Column[model.HeroSection]{
			{
				Key:    "info",
				Header: "Hero Info",
				Render: func(s model.HeroSection) string { return s.Title },
				Image:  func(s model.HeroSection) string { return s.Image },
			},
			table.Field("badge", "Badge", func(s model.HeroSection) any { return s.Badge }),
			table.Field("cta", "Call to action", func(s model.HeroSection) any { return s.CTAText }),
			{
				Key:    "status",
				Header: "Status",
				Render: func(s model.HeroSection) string { return activeLabel(s.IsActive) },
				Class:  func(s model.HeroSection) string { return activeBadge(s.IsActive) },
			},
		},
		SearchKey:         func(s model.HeroSection) string { return s.Title + " " + s.Subtitle + " " + s.Badge },
		SearchPlaceholder: "Search hero sections...",
		EmptyMessage:      "No hero sections yet",
	}
}

// HeroSections renders the hero section listing.
func (h *UIHandlers) HeroSections(w http.ResponseWriter, r *http.Request) {
	HandleTable(TableHandlerOpts[model.HeroSection]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch:   h.HeroSvc.List,
		Config:  heroTableConfig(),
		Actions: func(s model.HeroSection) []RowAction {
			return sectionActions(heroPath, s.ID, "hero section "+s.Title, s.IsActive)
		},
		BasePath:    heroPath,
		PageMeta:    PageMeta{Title: "Hero Sections", PageTitle: "Hero Sections", CurrentPage: PageHero},
		CreateURL:   heroPath + "/new",
		CreateLabel: "Add hero section",
	})
}

func (h *UIHandlers) heroForm(w http.ResponseWriter, r *http.Request, mode FormMode) FormHandlerOpts[model.HeroInput] {
	return FormHandlerOpts[model.HeroInput]{
		Handler:  h,
		W:        w,
		R:        r,
		Mode:     mode,
		Noun:     "Hero section",
		BasePath: heroPath,
		Fields: func(ctx context.Context) ([]FormField, error) {
			s := model.HeroSection{}
			if mode == FormModeEdit {
				list, err := h.HeroSvc.List(ctx)
				if err != nil {
					return nil, err
				}
				if s, err = findRecord(list, r.PathValue("id"), "hero section"); err != nil {
					return nil, err
				}
			}
			return heroFields(s), nil
		},
		Parser: parseHeroForm,
		Save: func(ctx context.Context, id string, in model.HeroInput) error {
			var err error
			if mode == FormModeEdit {
				_, err = h.HeroSvc.Update(ctx, id, in)
			} else {
				_, err = h.HeroSvc.Create(ctx, in)
			}
			return err
		},
	}
}

// HeroNew renders the create form.
func (h *UIHandlers) HeroNew(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.heroForm(w, r, FormModeCreate))
}

// HeroEdit renders the edit form.
func (h *UIHandlers) HeroEdit(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.heroForm(w, r, FormModeEdit))
}

// HeroCreate handles POST /hero.
func (h *UIHandlers) HeroCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.heroForm(w, r, FormModeCreate))
}

// HeroUpdate handles POST /hero/{id}.
func (h *UIHandlers) HeroUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.heroForm(w, r, FormModeEdit))
}

// HeroActivate handles POST /hero/{id}/activate.
func (h *UIHandlers) HeroActivate(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, setActive(h.HeroSvc.SetActive, true), "Hero section activated.", "Failed to activate hero section.", heroPath)
}

// HeroDeactivate handles POST /hero/{id}/deactivate.
func (h *UIHandlers) HeroDeactivate(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, setActive(h.HeroSvc.SetActive, false), "Hero section deactivated.", "Failed to deactivate hero section.", heroPath)
}

// HeroDelete handles POST /hero/{id}/delete.
func (h *UIHandlers) HeroDelete(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.HeroSvc.Delete, "Hero section deleted.", "Failed to delete hero section.", heroPath)
}

// setActive adapts a SetActive method to recordAction.
func setActive[T any](fn func(ctx context.Context, id string, active bool) (T, error), active bool) func(context.Context, string) error {
	return func(ctx context.Context, id string) error {
		_, err := fn(ctx, id, active)
		return err
	}
}

func heroFields(s model.HeroSection) []FormField {
	return []FormField{
		textField("title", "Title", s.Title, true),
		textField("badge", "Badge", s.Badge, false),
		areaField("subtitle", "Subtitle", s.Subtitle),
		textField("ctaText", "Button text", s.CTAText, true),
		linkField("ctaLink", "Button link", s.CTALink),
		textField("secondaryCtaText", "Secondary button text", s.SecondaryCTAText, false),
		linkField("secondaryCtaLink", "Secondary button link", s.SecondaryCTALink),
		linkField("image", "Image URL", s.Image),
		statsField(s.Stats),
		checkField("isActive", "Active", s.IsActive),
	}
}

func parseHeroForm(f *validation.Form) model.HeroInput {
	active := f.Bool("isActive")
	return model.HeroInput{
		Title:            f.String("title", validation.Required("Title", 200)),
		Badge:            f.String("badge", validation.Optional("Badge", 50)),
		Subtitle:         f.String("subtitle", validation.Optional("Subtitle", 500)),
		CTAText:          f.String("ctaText", validation.Required("Button text", 50)),
		CTALink:          f.String("ctaLink", validation.Required("Button link", 2048), validation.Link("Button link")),
		SecondaryCTAText: f.String("secondaryCtaText", validation.Optional("Secondary button text", 50)),
		SecondaryCTALink: f.String("secondaryCtaLink", validation.Link("Secondary button link")),
		Image:            f.String("image", validation.Required("Image URL", 2048), validation.Link("Image URL")),
		Stats:            parseStats(f, "stats"),
		IsActive:         &active,
	}
}

func promoTableConfig() table.Config[model.PromoSection] {
	return table.Config[model.PromoSection]{
		Columns: []table.Column[model.PromoSection]{
			{
				Key:    "info",
				Header: "Promo Info",
				Render: func(s model.PromoSection) string { return s.Title },
				Image:  func(s model.PromoSection) string { return s.Image },
			},
			table.Field("tag", "Tag", func(s model.PromoSection) any { return s.Tag }),
			{
				Key:    "code",
				Header: "Code",
				Render: func(s model.PromoSection) string { return s.Code },
				Class:  func(model.PromoSection) string { return "mono" },
			},
			{
				Key:    "status",
				Header: "Status",
				Render: func(s model.PromoSection) string { return activeLabel(s.IsActive) },
				Class:  func(s model.PromoSection) string { return activeBadge(s.IsActive) },
			},
		},
		SearchKey:         func(s model.PromoSection) string { return s.Title + " " + s.Code + " " + s.Tag },
		SearchPlaceholder: "Search promotions...",
		EmptyMessage:      "No promotions yet",
	}
}

// PromoSections renders the promotion listing.
func (h *UIHandlers) PromoSections(w http.ResponseWriter, r *http.Request) {
	HandleTable(TableHandlerOpts[model.PromoSection]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch:   h.PromoSvc.List,
		Config:  promoTableConfig(),
		Actions: func(s model.PromoSection) []RowAction {
			return sectionActions(promoPath, s.ID, "promotion "+s.Title, s.IsActive)
		},
		BasePath:    promoPath,
		PageMeta:    PageMeta{Title: "Promotions", PageTitle: "Promotions", CurrentPage: PagePromo},
		CreateURL:   promoPath + "/new",
		CreateLabel: "Add promotion",
	})
}

func (h *UIHandlers) promoForm(w http.ResponseWriter, r *http.Request, mode FormMode) FormHandlerOpts[model.PromoInput] {
	return FormHandlerOpts[model.PromoInput]{
		Handler:  h,
		W:        w,
		R:        r,
		Mode:     mode,
		Noun:     "Promotion",
		BasePath: promoPath,
		Fields: func(ctx context.Context) ([]FormField, error) {
			s := model.PromoSection{}
			if mode == FormModeEdit {
				list, err := h.PromoSvc.List(ctx)
				if err != nil {
					return nil, err
				}
				if s, err = findRecord(list, r.PathValue("id"), "promotion"); err != nil {
					return nil, err
				}
			}
			return promoFields(s), nil
		},
		Parser: parsePromoForm,
		Save: func(ctx context.Context, id string, in model.PromoInput) error {
			var err error
			if mode == FormModeEdit {
				_, err = h.PromoSvc.Update(ctx, id, in)
			} else {
				_, err = h.PromoSvc.Create(ctx, in)
			}
			return err
		},
	}
}

// PromoNew renders the create form.
func (h *UIHandlers) PromoNew(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.promoForm(w, r, FormModeCreate))
}

// PromoEdit renders the edit form.
func (h *UIHandlers) PromoEdit(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.promoForm(w, r, FormModeEdit))
}

// PromoCreate handles POST /promo.
func (h *UIHandlers) PromoCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.promoForm(w, r, FormModeCreate))
}

// PromoUpdate handles POST /promo/{id}.
func (h *UIHandlers) PromoUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.promoForm(w, r, FormModeEdit))
}

// PromoActivate handles POST /promo/{id}/activate.
func (h *UIHandlers) PromoActivate(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, setActive(h.PromoSvc.SetActive, true), "Promotion activated.", "Failed to activate promotion.", promoPath)
}

// PromoDeactivate handles POST /promo/{id}/deactivate.
func (h *UIHandlers) PromoDeactivate(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, setActive(h.PromoSvc.SetActive, false), "Promotion deactivated.", "Failed to deactivate promotion.", promoPath)
}

// PromoDelete handles POST /promo/{id}/delete.
func (h *UIHandlers) PromoDelete(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.PromoSvc.Delete, "Promotion deleted.", "Failed to delete promotion.", promoPath)
}

func promoFields(s model.PromoSection) []FormField {
	return []FormField{
		textField("title", "Title", s.Title, true),
		textField("tag", "Tag", s.Tag, false),
		textField("code", "Coupon code", s.Code, true),
		linkField("link", "Link", s.Link),
		linkField("image", "Image URL", s.Image),
		areaField("description", "Description", s.Description),
		areaField("terms", "Terms", s.Terms),
		checkField("isActive", "Active", s.IsActive),
	}
}

func parsePromoForm(f *validation.Form) model.PromoInput {
	active := f.Bool("isActive")
	return model.PromoInput{
		Title:       f.String("title", validation.Required("Title", 200)),
		Tag:         f.String("tag", validation.Optional("Tag", 50)),
		Code:        strings.ToUpper(f.String("code", validation.Required("Coupon code", 32))),
		Link:        f.String("link", validation.Required("Link", 2048), validation.Link("Link")),
		Image:       f.String("image", validation.Link("Image URL")),
		Description: f.String("description", validation.Optional("Description", 1000)),
		Terms:       f.String("terms", validation.Optional("Terms", 1000)),
		IsActive:    &active,
	}
}
