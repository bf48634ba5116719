package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/http/validation"
	"github.com/target/storefront-admin/internal/table"
	"github.com/target/storefront-admin/internal/util"
)

const couponsPath = "/coupons"

func couponTableConfig(now time.Time) table.Config[model.Coupon] {
	return table.Config[model.Coupon]{
		Columns: []table.Column[model.Coupon]{
			{
				Key:    "code",
				Header: "Coupon Code",
				Render: func(c model.Coupon) string { return c.Code },
				Class:  func(model.Coupon) string { return "mono" },
			},
			{
				Key:    "discount",
				Header: "Discount",
				Render: func(c model.Coupon) string { return discountText(c.DiscountType, c.DiscountValue) },
			},
			{
				Key:    "rules",
				Header: "Rules",
				Render: func(c model.Coupon) string {
					rule := "No minimum"
					if c.MinPurchaseAmount > 0 {
						rule = "Min " + util.FormatMoney(c.MinPurchaseAmount)
					}
					if c.IsReusable {
						return rule + ", reusable"
					}
					return rule + ", once per customer"
				},
			},
			{
				Key:    "usage",
				Header: "Global Usage",
				Render: func(c model.Coupon) string {
					if c.UsageLimit <= 0 {
						return strconv.Itoa(c.UsedCount) + " / unlimited"
					}
					return strconv.Itoa(c.UsedCount) + " / " + strconv.Itoa(c.UsageLimit)
				},
			},
			{
				Key:    "validUntil",
				Header: "Expires",
				Render: func(c model.Coupon) string { return util.FormatDate(c.ValidUntil) },
			},
			{
				Key:    "status",
				Header: "Status",
				Render: func(c model.Coupon) string {
					if c.Expired(now) {
						return "Expired"
					}
					return activeLabel(c.IsActive)
				},
				Class: func(c model.Coupon) string {
					if c.Expired(now) {
						return "badge badge-danger"
					}
					return activeBadge(c.IsActive)
				},
			},
		},
		SearchKey:         func(c model.Coupon) string { return c.Code + " " + c.Description },
		SearchPlaceholder: "Search coupons...",
		EmptyMessage:      "No coupons yet",
	}
}

func discountText(t model.DiscountType, v float64) string {
	if t == model.DiscountPercentage {
		return strconv.FormatFloat(v, 'f', -1, 64) + "% off"
	}
	return util.FormatMoney(v) + " off"
}

// Coupons renders the coupon listing.
func (h *UIHandlers) Coupons(w http.ResponseWriter, r *http.Request) {
	HandleTable(TableHandlerOpts[model.Coupon]{
		Handler: h,
		W:       w,
		R:       r,
		Fetch:   h.CouponSvc.List,
		Config:  couponTableConfig(h.now()),
		Actions: func(c model.Coupon) []RowAction {
			base := couponsPath + "/" + c.ID
			toggle := "Activate"
			if c.IsActive {
				toggle = "Deactivate"
			}
			return []RowAction{
				{Label: "Edit", URL: base + "/edit"},
				{Label: toggle, URL: base + "/toggle", Post: true},
				{Label: "Delete", URL: base + "/delete", Post: true, Confirm: "Delete coupon " + c.Code + "?", Class: "btn-danger"},
			}
		},
		BasePath:    couponsPath,
		PageMeta:    PageMeta{Title: "Coupons", PageTitle: "Coupons", CurrentPage: PageCoupons},
		CreateURL:   couponsPath + "/new",
		CreateLabel: "Create coupon",
	})
}

func (h *UIHandlers) couponForm(w http.ResponseWriter, r *http.Request, mode FormMode) FormHandlerOpts[model.CouponInput] {
	return FormHandlerOpts[model.CouponInput]{
		Handler:  h,
		W:        w,
		R:        r,
		Mode:     mode,
		Noun:     "Coupon",
		BasePath: couponsPath,
		Fields: func(ctx context.Context) ([]FormField, error) {
			today := h.now().Truncate(24 * time.Hour)
			c := model.Coupon{
				DiscountType: model.DiscountPercentage,
				ValidFrom:    today,
				ValidUntil:   today.AddDate(0, 1, 0),
				IsActive:     true,
			}
			if mode == FormModeEdit {
				list, err := h.CouponSvc.List(ctx)
				if err != nil {
					return nil, err
				}
				if c, err = findRecord(list, r.PathValue("id"), "coupon"); err != nil {
					return nil, err
				}
			}
			return couponFields(c), nil
		},
		Parser: parseCouponForm,
		Save: func(ctx context.Context, id string, in model.CouponInput) error {
			var err error
			if mode == FormModeEdit {
				_, err = h.CouponSvc.Update(ctx, id, in)
			} else {
				_, err = h.CouponSvc.Create(ctx, in)
			}
			return err
		},
	}
}

// CouponNew renders the create form.
func (h *UIHandlers) CouponNew(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.couponForm(w, r, FormModeCreate))
}

// CouponEdit renders the edit form.
func (h *UIHandlers) CouponEdit(w http.ResponseWriter, r *http.Request) {
	ShowForm(h.couponForm(w, r, FormModeEdit))
}

// CouponCreate handles POST /coupons.
func (h *UIHandlers) CouponCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.couponForm(w, r, FormModeCreate))
}

// CouponUpdate handles POST /coupons/{id}.
func (h *UIHandlers) CouponUpdate(w http.ResponseWriter, r *http.Request) {
	HandleForm(h.couponForm(w, r, FormModeEdit))
}

// CouponToggle handles POST /coupons/{id}/toggle.
func (h *UIHandlers) CouponToggle(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, func(ctx context.Context, id string) error {
		list, err := h.CouponSvc.List(ctx)
		if err != nil {
			return err
		}
		current, err := findRecord(list, id, "coupon")
		if err != nil {
			return err
		}
		_, err = h.CouponSvc.SetActive(ctx, id, !current.IsActive)
		return err
	}, "Coupon updated.", "Failed to update coupon.", couponsPath)
}

// CouponDelete handles POST /coupons/{id}/delete.
func (h *UIHandlers) CouponDelete(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.CouponSvc.Delete, "Coupon deleted.", "Failed to delete coupon.", couponsPath)
}

//nolint:gochecknoglobals // static select options
var discountTypeOptions = []FormOption{
	{Value: string(model.DiscountPercentage), Label: "Percentage"},
	{Value: string(model.DiscountFixed), Label: "Fixed amount"},
}

func couponFields(c model.Coupon) []FormField {
	code := textField("code", "Code", c.Code, true)
	code.Help = "Stored in upper case."
	usage := intField("usageLimit", "Usage limit", c.UsageLimit)
	usage.Help = "0 means unlimited."
	return []FormField{
		code,
		selectField("discountType", "Discount type", string(c.DiscountType), discountTypeOptions),
		moneyField("discountValue", "Discount value", nonZero(c.DiscountValue), true),
		moneyField("minPurchaseAmount", "Minimum purchase", nonZero(c.MinPurchaseAmount), false),
		dateField("validFrom", "Valid from", &c.ValidFrom),
		dateField("validUntil", "Valid until", &c.ValidUntil),
		usage,
		areaField("description", "Description", c.Description),
		checkField("isListed", "Show on storefront", c.IsListed),
		checkField("isReusable", "Reusable by the same customer", c.IsReusable),
		checkField("isActive", "Active", c.IsActive),
	}
}

func parseCouponForm(f *validation.Form) model.CouponInput {
	active := f.Bool("isActive")
	types := []string{string(model.DiscountPercentage), string(model.DiscountFixed)}
	in := model.CouponInput{
		Code:              f.String("code", validation.Required("Code", 32)),
		DiscountType:      model.DiscountType(f.String("discountType", validation.OneOf("Discount type", types))),
		DiscountValue:     f.Float("discountValue", "Discount value"),
		MinPurchaseAmount: valueOrZero(f.OptionalFloat("minPurchaseAmount", "Minimum purchase")),
		ValidFrom:         f.Date("validFrom", "Valid from"),
		ValidUntil:        f.Date("validUntil", "Valid until"),
		UsageLimit:        f.Int("usageLimit", "Usage limit"),
		Description:       f.String("description", validation.Optional("Description", 500)),
		IsListed:          f.Bool("isListed"),
		IsReusable:        f.Bool("isReusable"),
		IsActive:          &active,
	}
	if in.DiscountType == model.DiscountPercentage && in.DiscountValue > 100 {
		f.Fail("discountValue", "Percentage discount cannot exceed 100.")
	}
	return in
}

func valueOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
