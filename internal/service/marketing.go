package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/target/storefront-admin/internal/domain/model"
)

// CouponServiceOptions groups dependencies for CouponService.
type CouponServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// CouponService manages discount codes.
type CouponService struct {
	coupons resource[model.Coupon]
}

// NewCouponService constructs a CouponService.
func NewCouponService(opts CouponServiceOptions) *CouponService {
	return &CouponService{coupons: newResource[model.Coupon](opts.Backend, opts.Activity, "coupon", "/coupons")}
}

// List returns every coupon.
func (s *CouponService) List(ctx context.Context) ([]model.Coupon, error) {
	page, err := s.coupons.list(ctx, nil)
	return page.Items, err
}

// Create validates and creates a coupon. Codes are stored upper-case.
func (s *CouponService) Create(ctx context.Context, in model.CouponInput) (model.Coupon, error) {
	if err := in.Validate(); err != nil {
		return model.Coupon{}, validationError(err)
	}
	return s.coupons.create(ctx, in, "Created coupon "+in.Code)
}

// Update validates and replaces a coupon.
func (s *CouponService) Update(ctx context.Context, id string, in model.CouponInput) (model.Coupon, error) {
	if err := in.Validate(); err != nil {
		return model.Coupon{}, validationError(err)
	}
	return s.coupons.update(ctx, id, in, "Updated coupon "+in.Code)
}

// SetActive enables or disables a coupon without touching its other fields.
func (s *CouponService) SetActive(ctx context.Context, id string, active bool) (model.Coupon, error) {
	return s.coupons.mutate(ctx, http.MethodPut, id, nil,
		model.CouponActiveUpdate{IsActive: active}, model.ActivityStatus, activeSummary("coupon", active))
}

// Delete removes a coupon.
func (s *CouponService) Delete(ctx context.Context, id string) error {
	return s.coupons.delete(ctx, id, "Deleted coupon "+id)
}

// BannerServiceOptions groups dependencies for BannerService.
type BannerServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// BannerService manages storefront banners.
type BannerService struct {
	banners resource[model.Banner]
}

// NewBannerService constructs a BannerService.
func NewBannerService(opts BannerServiceOptions) *BannerService {
	return &BannerService{banners: newResource[model.Banner](opts.Backend, opts.Activity, "banner", "/banners")}
}

// List returns every banner.
func (s *BannerService) List(ctx context.Context) ([]model.Banner, error) {
	page, err := s.banners.list(ctx, nil)
	return page.Items, err
}

// Get retrieves a banner by ID.
func (s *BannerService) Get(ctx context.Context, id string) (model.Banner, error) {
	return s.banners.get(ctx, id)
}

// Create validates and creates a banner.
func (s *BannerService) Create(ctx context.Context, in model.BannerInput) (model.Banner, error) {
	if err := in.Validate(); err != nil {
		return model.Banner{}, validationError(err)
	}
	return s.banners.create(ctx, in, "Created "+string(in.Position)+" banner "+in.Title)
}

// Update validates and replaces a banner.
func (s *BannerService) Update(ctx context.Context, id string, in model.BannerInput) (model.Banner, error) {
	if err := in.Validate(); err != nil {
		return model.Banner{}, validationError(err)
	}
	return s.banners.update(ctx, id, in, "Updated banner "+in.Title)
}

// Delete removes a banner.
func (s *BannerService) Delete(ctx context.Context, id string) error {
	return s.banners.delete(ctx, id, "Deleted banner "+id)
}

// sections is the shared shape of the hero and promo endpoints:
// GET {base}/all, POST {base}, PUT|DELETE {base}/{id}, PATCH {base}/{id}/activate|deactivate.
type sections[T record] struct {
	resource[T]
}

func newSections[T record](b *Backend, a *ActivityService, name, base string) sections[T] {
	r := newResource[T](b, a, name, base)
	r.listPath = base + "/all"
	return sections[T]{resource: r}
}

func (s sections[T]) all(ctx context.Context) ([]T, error) {
	page, err := s.list(ctx, nil)
	return page.Items, err
}

func (s sections[T]) setActive(ctx context.Context, id string, active bool) (T, error) {
	verb := "deactivate"
	if active {
		verb = "activate"
	}
	return s.mutate(ctx, http.MethodPatch, id, []string{verb}, nil, model.ActivityStatus, activeSummary(s.name, active))
}

// HeroServiceOptions groups dependencies for HeroService.
type HeroServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// HeroService manages homepage hero sections. The backend keeps at most one active.
type HeroService struct {
	heroes sections[model.HeroSection]
}

// NewHeroService constructs a HeroService.
func NewHeroService(opts HeroServiceOptions) *HeroService {
	return &HeroService{heroes: newSections[model.HeroSection](opts.Backend, opts.Activity, "hero", "/hero")}
}

// List returns every hero section, active or not.
func (s *HeroService) List(ctx context.Context) ([]model.HeroSection, error) {
	return s.heroes.all(ctx)
}

// Create validates and creates a hero section.
func (s *HeroService) Create(ctx context.Context, in model.HeroInput) (model.HeroSection, error) {
	if err := in.Validate(); err != nil {
		return model.HeroSection{}, validationError(err)
	}
	return s.heroes.create(ctx, in, "Created hero "+in.Title)
}

// Update validates and replaces a hero section.
func (s *HeroService) Update(ctx context.Context, id string, in model.HeroInput) (model.HeroSection, error) {
	if err := in.Validate(); err != nil {
		return model.HeroSection{}, validationError(err)
	}
	return s.heroes.update(ctx, id, in, "Updated hero "+in.Title)
}

// SetActive activates or deactivates a hero section.
func (s *HeroService) SetActive(ctx context.Context, id string, active bool) (model.HeroSection, error) {
	return s.heroes.setActive(ctx, id, active)
}

// Delete removes a hero section.
func (s *HeroService) Delete(ctx context.Context, id string) error {
	return s.heroes.delete(ctx, id, "Deleted hero "+id)
}

// PromoServiceOptions groups dependencies for PromoService.
type PromoServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// PromoService manages promotional sections.
type PromoService struct {
	promos sections[model.PromoSection]
}

// NewPromoService constructs a PromoService.
func NewPromoService(opts PromoServiceOptions) *PromoService {
	return &PromoService{promos: newSections[model.PromoSection](opts.Backend, opts.Activity, "promo", "/promo")}
}

// List returns every promo section.
func (s *PromoService) List(ctx context.Context) ([]model.PromoSection, error) {
	return s.promos.all(ctx)
}

// Create validates and creates a promo section.
func (s *PromoService) Create(ctx context.Context, in model.PromoInput) (model.PromoSection, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if err := in.Validate(); err != nil {
		return model.PromoSection{}, validationError(err)
	}
	return s.promos.create(ctx, in, "Created promo "+in.Title)
}

// Update validates and replaces a promo section.
func (s *PromoService) Update(ctx context.Context, id string, in model.PromoInput) (model.PromoSection, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if err := in.Validate(); err != nil {
		return model.PromoSection{}, validationError(err)
	}
	return s.promos.update(ctx, id, in, "Updated promo "+in.Title)
}

// SetActive activates or deactivates a promo section.
func (s *PromoService) SetActive(ctx context.Context, id string, active bool) (model.PromoSection, error) {
	return s.promos.setActive(ctx, id, active)
}

// Delete removes a promo section.
func (s *PromoService) Delete(ctx context.Context, id string) error {
	return s.promos.delete(ctx, id, "Deleted promo "+id)
}

// TestimonialServiceOptions groups dependencies for TestimonialService.
type TestimonialServiceOptions struct {
	Backend  *Backend
	Activity *ActivityService
}

// TestimonialService manages customer testimonials.
type TestimonialService struct {
	testimonials resource[model.Testimonial]
}

// NewTestimonialService constructs a TestimonialService.
func NewTestimonialService(opts TestimonialServiceOptions) *TestimonialService {
	return &TestimonialService{
		testimonials: newResource[model.Testimonial](opts.Backend, opts.Activity, "testimonial", "/testimonials"),
	}
}

// List returns up to limit testimonials; zero means the backend default.
func (s *TestimonialService) List(ctx context.Context, limit int) ([]model.Testimonial, error) {
	page, err := s.testimonials.list(ctx, limitQuery(limit))
	return page.Items, err
}

// Create validates and creates a testimonial.
func (s *TestimonialService) Create(ctx context.Context, in model.TestimonialInput) (model.Testimonial, error) {
	if err := in.Validate(); err != nil {
		return model.Testimonial{}, validationError(err)
	}
	return s.testimonials.create(ctx, in, "Created testimonial from "+in.Name)
}

// Update validates and replaces a testimonial.
func (s *TestimonialService) Update(ctx context.Context, id string, in model.TestimonialInput) (model.Testimonial, error) {
	if err := in.Validate(); err != nil {
		return model.Testimonial{}, validationError(err)
	}
	return s.testimonials.update(ctx, id, in, "Updated testimonial from "+in.Name)
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	return s.testimonials.delete(ctx, id, "Deleted testimonial "+id)
}

func activeSummary(name string, active bool) string {
	if active {
		return "Activated " + name
	}
	return "Deactivated " + name
}
