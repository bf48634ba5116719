package httpx

import (
	"bytes"
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/storefront-admin/internal/apiclient"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/http/ui/viewmodel"
	"github.com/target/storefront-admin/internal/ports"
	"github.com/target/storefront-admin/internal/service"
)

const (
	errMsgFixBelow   = "Please fix the errors below."
	errMsgPageFailed = "Something went wrong loading this page. Please try again."
	brandName        = "EcoAdmin"
)

// AuthService is what the login flow and the settings page need.
type AuthService interface {
	SessionReader
	Login(ctx context.Context, in ports.LoginInput) (domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context) (service.Profile, error)
	ChangePassword(ctx context.Context, in service.ChangePasswordInput) error
}

// ProductsService is a minimal interface for the catalogue UI.
type ProductsService interface {
	List(ctx context.Context, q model.ProductQuery) (service.Page[model.Product], error)
	Get(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, in model.ProductInput) (model.Product, error)
	Update(ctx context.Context, id string, in model.ProductInput) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

// CategoriesService is a minimal interface for the categories UI.
type CategoriesService interface {
	Rows(ctx context.Context) ([]model.CategoryRow, error)
	Create(ctx context.Context, in model.CategoryInput) (model.Category, error)
	Update(ctx context.Context, id string, in model.CategoryInput) (model.Category, error)
	Delete(ctx context.Context, id string) error
}

// OrdersService is a minimal interface for the orders UI.
type OrdersService interface {
	List(ctx context.Context, opts service.OrderListOptions) (service.Page[model.Order], error)
	Get(ctx context.Context, id string) (model.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (model.Order, error)
}

// UsersService is a minimal interface for the users UI.
type UsersService interface {
	List(ctx context.Context) ([]model.Account, error)
	Get(ctx context.Context, id string) (model.Account, error)
	ToggleStatus(ctx context.Context, id string) (model.Account, error)
}

// CouponsService is a minimal interface for the coupons UI.
type CouponsService interface {
	List(ctx context.Context) ([]model.Coupon, error)
	Create(ctx context.Context, in model.CouponInput) (model.Coupon, error)
	Update(ctx context.Context, id string, in model.CouponInput) (model.Coupon, error)
	SetActive(ctx context.Context, id string, active bool) (model.Coupon, error)
	Delete(ctx context.Context, id string) error
}

// BannersService is a minimal interface for the banners UI.
type BannersService interface {
	List(ctx context.Context) ([]model.Banner, error)
	Get(ctx context.Context, id string) (model.Banner, error)
	Create(ctx context.Context, in model.BannerInput) (model.Banner, error)
	Update(ctx context.Context, id string, in model.BannerInput) (model.Banner, error)
	Delete(ctx context.Context, id string) error
}

// HeroSectionsService is a minimal interface for the hero sections UI.
type HeroSectionsService interface {
	List(ctx context.Context) ([]model.HeroSection, error)
	Create(ctx context.Context, in model.HeroInput) (model.HeroSection, error)
	Update(ctx context.Context, id string, in model.HeroInput) (model.HeroSection, error)
	SetActive(ctx context.Context, id string, active bool) (model.HeroSection, error)
	Delete(ctx context.Context, id string) error
}

// PromoSectionsService is a minimal interface for the promotions UI.
type PromoSectionsService interface {
	List(ctx context.Context) ([]model.PromoSection, error)
	Create(ctx context.Context, in model.PromoInput) (model.PromoSection, error)
	Update(ctx context.Context, id string, in model.PromoInput) (model.PromoSection, error)
	SetActive(ctx context.Context, id string, active bool) (model.PromoSection, error)
	Delete(ctx context.Context, id string) error
}

// TestimonialsService is a minimal interface for the testimonials UI.
type TestimonialsService interface {
	List(ctx context.Context, limit int) ([]model.Testimonial, error)
	Create(ctx context.Context, in model.TestimonialInput) (model.Testimonial, error)
	Update(ctx context.Context, id string, in model.TestimonialInput) (model.Testimonial, error)
	Delete(ctx context.Context, id string) error
}

// DashboardLoader loads the landing page summary.
type DashboardLoader interface {
	Load(ctx context.Context) (service.Dashboard, error)
}

// ActivityLister reads the local admin audit trail.
type ActivityLister interface {
	Enabled() bool
	List(ctx context.Context, opts model.ActivityListOptions) ([]*model.ActivityEntry, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AuthService          = (*service.AuthService)(nil)
	_ ProductsService      = (*service.ProductService)(nil)
	_ CategoriesService    = (*service.CategoryService)(nil)
	_ OrdersService        = (*service.OrderService)(nil)
	_ UsersService         = (*service.UserService)(nil)
	_ CouponsService       = (*service.CouponService)(nil)
	_ BannersService       = (*service.BannerService)(nil)
	_ HeroSectionsService  = (*service.HeroService)(nil)
	_ PromoSectionsService = (*service.PromoService)(nil)
	_ TestimonialsService  = (*service.TestimonialService)(nil)
	_ DashboardLoader      = (*service.DashboardService)(nil)
	_ ActivityLister       = (*service.ActivityService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T              *TemplateRenderer
	AuthSvc        AuthService
	ProductSvc     ProductsService
	CategorySvc    CategoriesService
	OrderSvc       OrdersService
	UserSvc        UsersService
	CouponSvc      CouponsService
	BannerSvc      BannersService
	HeroSvc        HeroSectionsService
	PromoSvc       PromoSectionsService
	TestimonialSvc TestimonialsService
	DashboardSvc   DashboardLoader
	ActivitySvc    ActivityLister
	CookieDomain   string
	IsDev          bool // Development mode flag for enhanced error reporting
	Now            func() time.Time
	Logger         *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	title := meta.Title
	if title == "" {
		title = meta.PageTitle
	}
	layout := viewmodel.Layout{
		Title:       title + " - " + brandName,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	if session := sessionFromContext(r.Context()); session != nil {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			Name:    session.User.DisplayName(),
			Email:   session.User.Email,
			Initial: session.User.Initial(),
			Role:    string(session.User.Role),
		}
	}

	active := navSection(meta.CurrentPage)
	layout.Nav = make([]viewmodel.NavItem, 0, len(navItems))
	for _, item := range navItems {
		layout.Nav = append(layout.Nav, viewmodel.NavItem{
			Path:   item.Path,
			Label:  item.Label,
			Active: item.Page == active,
		})
	}
	return layout
}

// navSection maps detail and form pages onto their sidebar entry.
func navSection(page string) string {
	switch page {
	case PageProductForm:
		return PageProducts
	case PageOrder:
		return PageOrders
	case PageUser:
		return PageUsers
	}
	return page
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"Nav":             layout.Nav,
		"Brand":           brandName,
		"CSRFToken":       layout.CSRFToken,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// Expired sessions redirect to login and missing records render the 404 page;
// any other fetch failure renders the page with an inline error.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if h.handleSessionError(w, r, err) {
				return
			}
			if apperrors.IsNotFound(err) {
				h.NotFound(w, r)
				return
			}
			h.logger().WarnContext(r.Context(), "page fetch failed",
				"page", spec.Meta.CurrentPage,
				"error", err,
			)
			markPageError(data, err)
		}
	}
	h.renderDashboardPage(w, r, data)
}

func markPageError(data map[string]any, err error) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = apperrors.UserMessage(err, errMsgPageFailed)
}

// handleSessionError signs the browser out when the backend session can no
// longer be renewed. It reports whether a response was written.
func (h *UIHandlers) handleSessionError(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apiclient.IsAuthExpired(err) && !apperrors.IsUnauthorized(err) {
		return false
	}
	h.logger().InfoContext(r.Context(), "session expired; redirecting to login", "path", r.URL.Path)
	clearSessionCookie(w, r, h.CookieDomain)
	redirectToLogin(w, r)
	return true
}

// renderDashboardPage renders a dashboard page with proper HTMX partial support.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// Partial: a <title> for document.title, an out-of-band header swap, then the content.
	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	currentPage, _ := data["CurrentPage"].(string)

	var buf bytes.Buffer
	buf.WriteString(`<title>` + html.EscapeString(title) + `</title>`)
	buf.WriteString(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)
	if err := h.T.executeInto(&buf, ContentTemplateFor(currentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": navPath(currentPage)})
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write partial response", "error", err)
	}
}

func navPath(page string) string {
	active := navSection(page)
	for _, item := range navItems {
		if item.Page == active {
			return item.Path
		}
	}
	return "/"
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// mutationError maps a failed POST to a toast and status for htmx callers,
// or a redirect-with-flash for plain form posts.
func (h *UIHandlers) mutationError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if h.handleSessionError(w, r, err) {
		return
	}
	msg := apperrors.UserMessage(err, fallback)
	h.logger().WarnContext(r.Context(), "mutation failed", "path", r.URL.Path, "error", err)

	status := http.StatusBadGateway
	switch {
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case apperrors.IsConflict(err), apperrors.IsForeignKey(err):
		status = http.StatusConflict
	case apperrors.IsForbidden(err):
		status = http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if IsHTMX(r) {
		triggerToast(w, msg, "error")
		// htmx ignores non-2xx bodies by default; the toast carries the message.
		w.WriteHeader(status)
		return
	}
	http.Error(w, msg, status)
}

// mutationDone finishes a successful POST: toast plus redirect for htmx, 303 otherwise.
func mutationDone(w http.ResponseWriter, r *http.Request, message, target string) {
	triggerToast(w, message, "success")
	redirect(w, r, target)
}

// recordAction runs a record-level POST such as delete or toggle, then
// returns the browser to target.
func (h *UIHandlers) recordAction(
	w http.ResponseWriter,
	r *http.Request,
	do func(ctx context.Context, id string) error,
	done, fallback, target string,
) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if err := do(r.Context(), id); err != nil {
		h.mutationError(w, r, err, fallback)
		return
	}
	mutationDone(w, r, done, target)
}
