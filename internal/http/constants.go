package httpx

// CurrentPage constants identify pages for navigation state and template lookup.
const (
	PageDashboard = "dashboard"

	// Catalogue.
	PageProducts    = "products"
	PageProductForm = "product-form"
	PageCategories  = "categories"

	// Sales and customers.
	PageOrders = "orders"
	PageOrder  = "order"
	PageUsers  = "users"
	PageUser   = "user"

	// Marketing.
	PageCoupons      = "coupons"
	PageBanners      = "banners"
	PageHero         = "hero"
	PagePromo        = "promo"
	PageTestimonials = "testimonials"

	// Shared create/edit form for marketing and category records.
	PageResourceForm = "resource-form"

	PageActivity = "activity"
	PageSettings = "settings"
)

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
)

// Session cookie name shared by the auth handlers and middleware.
const sessionCookieName = "session_id"

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageDashboard:    "dashboard-content",
	PageProducts:     "table-content",
	PageProductForm:  "resource-form-content",
	PageCategories:   "table-content",
	PageOrders:       "table-content",
	PageOrder:        "order-content",
	PageUsers:        "table-content",
	PageUser:         "user-content",
	PageCoupons:      "table-content",
	PageBanners:      "table-content",
	PageHero:         "table-content",
	PagePromo:        "table-content",
	PageTestimonials: "table-content",
	PageResourceForm: "resource-form-content",
	PageActivity:     "table-content",
	PageSettings:     "settings-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}

// navItem is one sidebar entry.
type navItem struct {
	Page  string
	Path  string
	Label string
}

//nolint:gochecknoglobals // static navigation order
var navItems = []navItem{
	{PageDashboard, "/", "Dashboard"},
	{PageProducts, "/products", "Products"},
	{PageOrders, "/orders", "Orders"},
	{PageUsers, "/users", "Users"},
	{PageCategories, "/categories", "Categories"},
	{PageCoupons, "/coupons", "Coupons"},
	{PageBanners, "/banners", "Banners"},
	{PageHero, "/hero", "Hero Sections"},
	{PagePromo, "/promo", "Promotions"},
	{PageTestimonials, "/testimonials", "Testimonials"},
	{PageActivity, "/activity", "Activity"},
	{PageSettings, "/settings", "Settings"},
}
