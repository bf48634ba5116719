//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import "time"

// BannerPosition is the storefront slot a banner renders in.
type BannerPosition string

const (
	BannerHero       BannerPosition = "hero"
	BannerPromo      BannerPosition = "promo"
	BannerDeal       BannerPosition = "deal"
	BannerNewsletter BannerPosition = "newsletter"
)

// BannerPositions lists the valid slots.
var BannerPositions = []BannerPosition{BannerHero, BannerPromo, BannerDeal, BannerNewsletter}

// Stat is a value/label pair shown on hero sections and banners.
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Banner is a scheduled storefront banner.
type Banner struct {
	ID           string         `json:"_id"`
	Title        string         `json:"title"`
	Subtitle     string         `json:"subtitle,omitempty"`
	Badge        string         `json:"badge,omitempty"`
	Description  string         `json:"description,omitempty"`
	Image        string         `json:"image"`
	ButtonText   string         `json:"buttonText,omitempty"`
	ButtonLink   string         `json:"buttonLink,omitempty"`
	Position     BannerPosition `json:"position"`
	Code         string         `json:"code,omitempty"`
	Stats        []Stat         `json:"stats,omitempty"`
	StartDate    *time.Time     `json:"startDate,omitempty"`
	EndDate      *time.Time     `json:"endDate,omitempty"`
	IsActive     bool           `json:"isActive"`
	DisplayOrder int            `json:"displayOrder"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (b Banner) RecordID() string { return b.ID }

// BannerInput is the body for create and update calls.
type BannerInput struct {
	Title        string         `json:"title"`
	Subtitle     string         `json:"subtitle,omitempty"`
	Badge        string         `json:"badge,omitempty"`
	Description  string         `json:"description,omitempty"`
	Image        string         `json:"image"`
	ButtonText   string         `json:"buttonText,omitempty"`
	ButtonLink   string         `json:"buttonLink,omitempty"`
	Position     BannerPosition `json:"position"`
	Code         string         `json:"code,omitempty"`
	Stats        []Stat         `json:"stats,omitempty"`
	StartDate    *time.Time     `json:"startDate,omitempty"`
	EndDate      *time.Time     `json:"endDate,omitempty"`
	IsActive     bool           `json:"isActive"`
	DisplayOrder int            `json:"displayOrder"`
}

func (in *BannerInput) Validate() error {
	errs := FieldErrors{}
	errs.require("title", in.Title, "Title is required")
	errs.require("image", in.Image, "Image is required")
	valid := false
	for _, p := range BannerPositions {
		if in.Position == p {
			valid = true
			break
		}
	}
	if !valid {
		errs["position"] = "Position must be hero, promo, deal or newsletter"
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		errs["endDate"] = "End date must be after start date"
	}
	return errs.Err()
}

// HeroSection is the storefront landing hero.
type HeroSection struct {
	ID               string    `json:"_id"`
	Badge            string    `json:"badge"`
	Title            string    `json:"title"`
	Subtitle         string    `json:"subtitle"`
	CTAText          string    `json:"ctaText"`
	CTALink          string    `json:"ctaLink"`
	SecondaryCTAText string    `json:"secondaryCtaText,omitempty"`
	SecondaryCTALink string    `json:"secondaryCtaLink,omitempty"`
	Image            string    `json:"image"`
	Stats            []Stat    `json:"stats"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (h HeroSection) RecordID() string { return h.ID }

// HeroInput is the body for create and update calls.
type HeroInput struct {
	Badge            string `json:"badge"`
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	CTAText          string `json:"ctaText"`
	CTALink          string `json:"ctaLink"`
	SecondaryCTAText string `json:"secondaryCtaText,omitempty"`
	SecondaryCTALink string `json:"secondaryCtaLink,omitempty"`
	Image            string `json:"image"`
	Stats            []Stat `json:"stats"`
	IsActive         *bool  `json:"isActive,omitempty"`
}

func (in *HeroInput) Validate() error {
	errs := FieldErrors{}
	errs.require("title", in.Title, "Title is required")
	errs.require("ctaText", in.CTAText, "Button text is required")
	errs.require("ctaLink", in.CTALink, "Button link is required")
	errs.require("image", in.Image, "Image is required")
	return errs.Err()
}

// PromoSection is a promotional strip carrying a coupon code.
type PromoSection struct {
	ID          string    `json:"_id"`
	Tag         string    `json:"tag"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Terms       string    `json:"terms"`
	Link        string    `json:"link"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p PromoSection) RecordID() string { return p.ID }

// PromoInput is the body for create and update calls.
type PromoInput struct {
	Tag         string `json:"tag"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Terms       string `json:"terms"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func (in *PromoInput) Validate() error {
	errs := FieldErrors{}
	errs.require("title", in.Title, "Title is required")
	errs.require("code", in.Code, "Code is required")
	errs.require("link", in.Link, "Link is required")
	return errs.Err()
}

// Testimonial is a customer quote shown on the storefront.
type Testimonial struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	Rating       int       `json:"rating"`
	Avatar       string    `json:"avatar"`
	IsApproved   bool      `json:"isApproved"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (t Testimonial) RecordID() string { return t.ID }

// TestimonialInput is the body for create and update calls.
type TestimonialInput struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	Rating       int    `json:"rating"`
	Avatar       string `json:"avatar"`
	IsApproved   bool   `json:"isApproved"`
	DisplayOrder int    `json:"displayOrder"`
}

func (in *TestimonialInput) Validate() error {
	errs := FieldErrors{}
	errs.require("name", in.Name, "Name is required")
	errs.require("content", in.Content, "Content is required")
	if in.Rating < 1 || in.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	return errs.Err()
}
