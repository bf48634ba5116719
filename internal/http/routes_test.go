package httpx

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/apiclient"
	"github.com/target/storefront-admin/internal/observability/metrics"
	"github.com/target/storefront-admin/internal/testutil"
)

func TestRouter_Healthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz", reqOpts{})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodHead, "/healthz", reqOpts{})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	t.Run("browser redirects to login", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/products?q=mug", reqOpts{})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/login?redirect_uri="+url.QueryEscape("/products?q=mug"), rec.Header().Get("Location"))
	})

	t.Run("htmx gets a client redirect", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/products", reqOpts{htmx: true})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Hx-Redirect"), "/auth/signed-out"))
	})

	t.Run("api client gets json", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/products", reqOpts{accept: "application/json"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "authentication_required", body["error"])
	})
}

func TestRouter_LoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/auth/login?redirect_uri=/orders", reqOpts{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="csrf_token"`)

	rec = env.do(http.MethodPost, "/auth/login", reqOpts{form: url.Values{
		"email":        {"admin@example.com"},
		"password":     {"secret"},
		"redirect_uri": {"/orders"},
	}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/orders", rec.Header().Get("Location"))

	cookie := findCookie(rec, sessionCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, env.sessions.Len())

	rec = env.do(http.MethodPost, "/auth/logout", reqOpts{session: cookie.Value, form: url.Values{}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signed-out", rec.Header().Get("Location"))
	assert.Equal(t, 0, env.sessions.Len())
	assert.Equal(t, 1, env.backend.LogoutCalls())
}

func TestRouter_LoginRejectsOffsiteRedirect(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/auth/login", reqOpts{form: url.Values{
		"email":        {"admin@example.com"},
		"password":     {"secret"},
		"redirect_uri": {"https://evil.example/phish"},
	}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRouter_LoginValidation(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/auth/login", reqOpts{form: url.Values{"email": {"admin@example.com"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email and password are required")
	assert.Nil(t, findCookie(rec, sessionCookieName))
}

func TestRouter_LoginRequiresCSRF(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/auth/login", reqOpts{form: url.Values{
		csrfFieldName: {"wrong"},
		"email":       {"admin@example.com"},
		"password":    {"secret"},
	}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, env.sessions.Len())
}

func TestRouter_LoginThrottled(t *testing.T) {
	throttled := 0
	env := newTestEnv(t, func(rs *RouterServices) {
		rs.LoginLimit = LoginLimiterConfig{PerMinute: 1, Burst: 2, OnLimited: func() { throttled++ }}
	})

	form := func() url.Values { return url.Values{"email": {"x@example.com"}, "password": {"bad"}} }
	for range 2 {
		rec := env.do(http.MethodPost, "/auth/login", reqOpts{form: form()})
		assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
	}

	rec := env.do(http.MethodPost, "/auth/login", reqOpts{form: form()})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many sign-in attempts")
	assert.Equal(t, 1, throttled)
}

func TestRouter_SignedInPagesRender(t *testing.T) {
	env := newTestEnv(t)
	sid := env.signIn(t)
	env.products.items = testutil.Products(3)

	rec := env.do(http.MethodGet, "/products", reqOpts{session: sid})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, "Product p1")
	assert.Contains(t, body, "Kitchen")
	assert.NotContains(t, body, `class="pagination"`)
}

func TestRouter_PartialRenderSwapsHeader(t *testing.T) {
	env := newTestEnv(t)
	sid := env.signIn(t)

	rec := env.do(http.MethodGet, "/products", reqOpts{session: sid, htmx: true})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `hx-swap-oob="outerHTML"`)
	assert.Contains(t, body, "No products found")
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "nav:activate")
}

func TestRouter_ExpiredBackendSessionSignsOut(t *testing.T) {
	env := newTestEnv(t)
	sid := env.signIn(t)
	env.products.listErr = &apiclient.Error{Kind: apiclient.KindAuthExpired, StatusCode: http.StatusUnauthorized}

	rec := env.do(http.MethodGet, "/products", reqOpts{session: sid})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/auth/login"))
	cleared := findCookie(rec, sessionCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestRouter_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/no-such-page", reqOpts{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")

	rec = env.do(http.MethodGet, "/no-such-page", reqOpts{accept: "application/json"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestRouter_MissingRecordRendersNotFound(t *testing.T) {
	env := newTestEnv(t)
	sid := env.signIn(t)

	rec := env.do(http.MethodGet, "/products/missing/edit", reqOpts{session: sid})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	env := newTestEnv(t, func(rs *RouterServices) {
		rs.Metrics = m
		rs.MetricsPath = "/internal/metrics"
	})

	env.do(http.MethodGet, "/healthz", reqOpts{})

	rec := env.do(http.MethodGet, "/internal/metrics", reqOpts{accept: "text/plain"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="GET /healthz"`)

	rec = env.do(http.MethodGet, "/metrics", reqOpts{accept: "text/plain"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_StaticAssets(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/static/js/admin.js", reqOpts{accept: "*/*"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=3600")
}
