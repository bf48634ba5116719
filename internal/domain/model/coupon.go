//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"strings"
	"time"
)

// DiscountType is how a coupon's value is applied.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Coupon is a discount code.
type Coupon struct {
	ID                string       `json:"_id"`
	Code              string       `json:"code"`
	Description       string       `json:"description"`
	DiscountType      DiscountType `json:"discountType"`
	DiscountValue     float64      `json:"discountValue"`
	MinPurchaseAmount float64      `json:"minPurchaseAmount"`
	ValidFrom         time.Time    `json:"validFrom"`
	ValidUntil        time.Time    `json:"validUntil"`
	UsageLimit        int          `json:"usageLimit"`
	UsedCount         int          `json:"usedCount"`
	UsedBy            []string     `json:"usedBy"`
	IsListed          bool         `json:"isListed"`
	IsReusable        bool         `json:"isReusable"`
	IsActive          bool         `json:"isActive"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func (c Coupon) RecordID() string { return c.ID }

// Expired reports whether the validity window has closed at now.
func (c Coupon) Expired(now time.Time) bool {
	return !c.ValidUntil.IsZero() && now.After(c.ValidUntil)
}

// CouponInput is the body for create and update calls.
type CouponInput struct {
	Code              string       `json:"code"`
	Description       string       `json:"description"`
	DiscountType      DiscountType `json:"discountType"`
	DiscountValue     float64      `json:"discountValue"`
	MinPurchaseAmount float64      `json:"minPurchaseAmount"`
	ValidFrom         time.Time    `json:"validFrom"`
	ValidUntil        time.Time    `json:"validUntil"`
	UsageLimit        int          `json:"usageLimit"`
	IsListed          bool         `json:"isListed"`
	IsReusable        bool         `json:"isReusable"`
	IsActive          *bool        `json:"isActive,omitempty"`
}

func (in *CouponInput) Validate() error {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	errs := FieldErrors{}
	errs.require("code", in.Code, "Code is required")
	switch in.DiscountType {
	case DiscountFixed:
	case DiscountPercentage:
		if in.DiscountValue > 100 {
			errs["discountValue"] = "Percentage discount cannot exceed 100"
		}
	default:
		errs["discountType"] = "Discount type must be fixed or percentage"
	}
	if in.DiscountValue <= 0 {
		errs["discountValue"] = "Discount value must be greater than zero"
	}
	if in.MinPurchaseAmount < 0 {
		errs["minPurchaseAmount"] = "Minimum purchase cannot be negative"
	}
	if in.UsageLimit < 0 {
		errs["usageLimit"] = "Usage limit cannot be negative"
	}
	if in.ValidFrom.IsZero() {
		errs["validFrom"] = "Start date is required"
	}
	if in.ValidUntil.IsZero() {
		errs["validUntil"] = "End date is required"
	} else if !in.ValidFrom.IsZero() && !in.ValidUntil.After(in.ValidFrom) {
		errs["validUntil"] = "End date must be after start date"
	}
	return errs.Err()
}

// CouponActiveUpdate toggles a coupon through PUT /coupons/{id}.
type CouponActiveUpdate struct {
	IsActive bool `json:"isActive"`
}
