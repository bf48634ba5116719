package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	storefront "github.com/target/storefront-admin"
	"github.com/target/storefront-admin/internal/observability/metrics"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthService
	Products     ProductsService
	Categories   CategoriesService
	Orders       OrdersService
	Users        UsersService
	Coupons      CouponsService
	Banners      BannersService
	Hero         HeroSectionsService
	Promo        PromoSectionsService
	Testimonials TestimonialsService
	Dashboard    DashboardLoader
	Activity     ActivityLister

	// Optional: Prometheus collectors. Nil disables /metrics and instrumentation.
	Metrics *metrics.Metrics
	// MetricsPath is where the scrape endpoint is mounted; defaults to /metrics.
	MetricsPath string
	// Sign-in throttling; zero values fall back to one attempt per minute.
	LoginLimit LoginLimiterConfig

	CookieDomain string
	IsDev        bool         // Development mode flag for hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Metrics != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, services.Metrics.Handler())
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticWithFallback(services.IsDev))

	uiHandlers := setupUIHandlers(services)
	if uiHandlers != nil {
		cfg := uiRouteConfig{
			Auth:         services.Auth,
			CookieDomain: services.CookieDomain,
			LoginLimit:   services.LoginLimit,
			Metrics:      services.Metrics,
		}
		registerUIRoutes(mux, uiHandlers, cfg)
	}

	handler := &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}

	// Instrument sits directly above the mux so it sees the matched pattern.
	return BrowserDetection()(services.Metrics.Instrument(handler))
}

// templateFS picks the disk templates in dev mode and the embedded copy otherwise.
func templateFS(isDev bool) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(storefront.TemplateFS, "frontend/templates")
	if err != nil {
		log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// setupUIHandlers creates UI handlers with the template renderer. Dev mode
// reads templates from disk and re-parses them per request.
func setupUIHandlers(services RouterServices) *UIHandlers {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services.IsDev),
		Reload:     services.IsDev,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	return &UIHandlers{
		T:              tr,
		AuthSvc:        services.Auth,
		ProductSvc:     services.Products,
		CategorySvc:    services.Categories,
		OrderSvc:       services.Orders,
		UserSvc:        services.Users,
		CouponSvc:      services.Coupons,
		BannerSvc:      services.Banners,
		HeroSvc:        services.Hero,
		PromoSvc:       services.Promo,
		TestimonialSvc: services.Testimonials,
		DashboardSvc:   services.Dashboard,
		ActivitySvc:    services.Activity,
		CookieDomain:   services.CookieDomain,
		IsDev:          services.IsDev,
		Logger:         services.Logger,
	}
}

// staticWithFallback serves /static/* assets.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), false)
	}

	staticSub, err := fs.Sub(storefront.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), false)
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))), true)
}

// staticWithCacheHeaders wraps a static file handler to add cache headers.
// Embedded assets change only with a deploy, so they get a short public
// cache; disk assets in dev mode are never cached.
func staticWithCacheHeaders(handler http.Handler, cacheable bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound && r.Pattern == "" {
		// For missing static assets, preserve the default file server response
		if strings.HasPrefix(r.URL.Path, "/static/") {
			cw.flushTo(w)
			return
		}
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth         AuthService
	CookieDomain string
	LoginLimit   LoginLimiterConfig
	Metrics      *metrics.Metrics
}

func (cfg uiRouteConfig) csrf() func(http.Handler) http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
}

// authWrap requires a signed-in administrator and applies CSRF protection.
// Without an auth service every page is refused rather than served openly.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrf()
	if cfg.Auth == nil {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(redirectToLogin)
		}
	}
	requireAuth := RequireAuthBrowser(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return requireAuth(csrf(h))
	}
}

// routeSet registers handlers that share one middleware chain.
type routeSet struct {
	mux  *http.ServeMux
	wrap func(http.Handler) http.Handler
}

func (s routeSet) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.wrap(h))
}

// registerUIRoutes delegates to per-area UI route registration functions.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUIAuthRoutes(mux, h, cfg)

	rs := routeSet{mux: mux, wrap: cfg.authWrap()}
	registerUIDashboardRoutes(rs, h)
	registerUICatalogRoutes(rs, h)
	registerUISalesRoutes(rs, h)
	registerUIMarketingRoutes(rs, h)
}

// registerUIAuthRoutes wires the public sign-in flow.
func registerUIAuthRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	csrf := cfg.csrf()
	limitCfg := cfg.LoginLimit
	if limitCfg.OnLimited == nil {
		limitCfg.OnLimited = cfg.Metrics.LoginThrottled
	}
	limiter := NewLoginLimiter(limitCfg)

	mux.Handle("GET /auth/login", csrf(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /auth/login", csrf(limiter.Middleware(h.LoginThrottled)(http.HandlerFunc(h.LoginSubmit))))
	mux.Handle("POST /auth/logout", csrf(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(h.SignedOut))
}

// registerUIDashboardRoutes wires the overview, activity log and settings pages.
func registerUIDashboardRoutes(rs routeSet, h *UIHandlers) {
	rs.handle("GET /{$}", h.Index)
	rs.handle("GET /dashboard", h.DashboardRedirect)
	rs.handle("GET /dashboard/activity", h.RecentActivityFragment)
	rs.handle("GET /activity", h.Activity)
	rs.handle("GET /settings", h.Settings)
	rs.handle("POST /settings/password", h.ChangePassword)
}

// registerUICatalogRoutes wires products and categories.
func registerUICatalogRoutes(rs routeSet, h *UIHandlers) {
	rs.handle("GET /products", h.Products)
	rs.handle("GET /products/new", h.ProductNew)
	rs.handle("GET /products/{id}/edit", h.ProductEdit)
	rs.handle("POST /products", h.ProductCreate)
	rs.handle("POST /products/{id}", h.ProductUpdate)
	rs.handle("POST /products/{id}/delete", h.ProductDelete)

	rs.handle("GET /categories", h.Categories)
	rs.handle("GET /categories/new", h.CategoryNew)
	rs.handle("GET /categories/{id}/edit", h.CategoryEdit)
	rs.handle("POST /categories", h.CategoryCreate)
	rs.handle("POST /categories/{id}", h.CategoryUpdate)
	rs.handle("POST /categories/{id}/delete", h.CategoryDelete)
}

// registerUISalesRoutes wires orders and customer accounts.
func registerUISalesRoutes(rs routeSet, h *UIHandlers) {
	rs.handle("GET /orders", h.Orders)
	rs.handle("GET /orders/{id}", h.OrderView)
	rs.handle("POST /orders/{id}/status", h.OrderUpdateStatus)

	rs.handle("GET /users", h.Users)
	rs.handle("GET /users/{id}", h.UserView)
	rs.handle("POST /users/{id}/toggle-status", h.UserToggleStatus)
}

// registerUIMarketingRoutes wires coupons, banners, homepage sections and testimonials.
func registerUIMarketingRoutes(rs routeSet, h *UIHandlers) {
	rs.handle("GET /coupons", h.Coupons)
	rs.handle("GET /coupons/new", h.CouponNew)
	rs.handle("GET /coupons/{id}/edit", h.CouponEdit)
	rs.handle("POST /coupons", h.CouponCreate)
	rs.handle("POST /coupons/{id}", h.CouponUpdate)
	rs.handle("POST /coupons/{id}/toggle", h.CouponToggle)
	rs.handle("POST /coupons/{id}/delete", h.CouponDelete)

	rs.handle("GET /banners", h.Banners)
	rs.handle("GET /banners/new", h.BannerNew)
	rs.handle("GET /banners/{id}/edit", h.BannerEdit)
	rs.handle("POST /banners", h.BannerCreate)
	rs.handle("POST /banners/{id}", h.BannerUpdate)
	rs.handle("POST /banners/{id}/delete", h.BannerDelete)

	rs.handle("GET /hero", h.HeroSections)
	rs.handle("GET /hero/new", h.HeroNew)
	rs.handle("GET /hero/{id}/edit", h.HeroEdit)
	rs.handle("POST /hero", h.HeroCreate)
	rs.handle("POST /hero/{id}", h.HeroUpdate)
	rs.handle("POST /hero/{id}/activate", h.HeroActivate)
	rs.handle("POST /hero/{id}/deactivate", h.HeroDeactivate)
	rs.handle("POST /hero/{id}/delete", h.HeroDelete)

	rs.handle("GET /promo", h.PromoSections)
	rs.handle("GET /promo/new", h.PromoNew)
	rs.handle("GET /promo/{id}/edit", h.PromoEdit)
	rs.handle("POST /promo", h.PromoCreate)
	rs.handle("POST /promo/{id}", h.PromoUpdate)
	rs.handle("POST /promo/{id}/activate", h.PromoActivate)
	rs.handle("POST /promo/{id}/deactivate", h.PromoDeactivate)
	rs.handle("POST /promo/{id}/delete", h.PromoDelete)

	rs.handle("GET /testimonials", h.Testimonials)
	rs.handle("GET /testimonials/new", h.TestimonialNew)
	rs.handle("GET /testimonials/{id}/edit", h.TestimonialEdit)
	rs.handle("POST /testimonials", h.TestimonialCreate)
	rs.handle("POST /testimonials/{id}", h.TestimonialUpdate)
	rs.handle("POST /testimonials/{id}/delete", h.TestimonialDelete)
}
