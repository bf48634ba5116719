package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/mocks/auth"
	"github.com/target/storefront-admin/internal/ports"
	"github.com/target/storefront-admin/internal/service"
)

const testCSRF = "test-csrf-token"

var errNotFound = apperrors.NotFound("Product not found")

// fakeProducts is an in-memory ProductsService.
type fakeProducts struct {
	mu      sync.Mutex
	items   []model.Product
	listErr error
	saveErr error
	created []model.ProductInput
	deleted []string
}

func (f *fakeProducts) List(context.Context, model.ProductQuery) (service.Page[model.Product], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return service.Page[model.Product]{}, f.listErr
	}
	return service.Page[model.Product]{Items: append([]model.Product(nil), f.items...)}, nil
}

func (f *fakeProducts) Get(_ context.Context, id string) (model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.RecordID() == id {
			return p, nil
		}
	}
	return model.Product{}, errNotFound
}

func (f *fakeProducts) Create(_ context.Context, in model.ProductInput) (model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return model.Product{}, f.saveErr
	}
	f.created = append(f.created, in)
	return model.Product{ID: "new", Name: in.Name}, nil
}

func (f *fakeProducts) Update(_ context.Context, id string, in model.ProductInput) (model.Product, error) {
	if f.saveErr != nil {
		return model.Product{}, f.saveErr
	}
	return model.Product{ID: id, Name: in.Name}, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeCategories serves a fixed two-level tree.
type fakeCategories struct{}

func (fakeCategories) Rows(context.Context) ([]model.CategoryRow, error) {
	return []model.CategoryRow{
		{Category: model.Category{ID: "cat-1", Name: "Kitchen"}},
		{Category: model.Category{ID: "cat-2", Name: "Mugs"}, Depth: 1, ParentName: "Kitchen"},
	}, nil
}

func (fakeCategories) Create(_ context.Context, in model.CategoryInput) (model.Category, error) {
	return model.Category{ID: "c-new", Name: in.Name}, nil
}

func (fakeCategories) Update(_ context.Context, id string, in model.CategoryInput) (model.Category, error) {
	return model.Category{ID: id, Name: in.Name}, nil
}

func (fakeCategories) Delete(context.Context, string) error { return nil }

type testEnv struct {
	handler  http.Handler
	auth     *service.AuthService
	backend  *auth.FakeBackend
	sessions *auth.MemorySessionStore
	products *fakeProducts
}

type envOption func(*RouterServices)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	backend := auth.NewFakeBackend()
	sessions := auth.NewMemorySessionStore()
	authSvc := service.NewAuthService(service.AuthServiceOptions{Backend: backend, Sessions: sessions})
	products := &fakeProducts{}

	rs := RouterServices{
		Auth:       authSvc,
		Products:   products,
		Categories: fakeCategories{},
		LoginLimit: LoginLimiterConfig{PerMinute: 60, Burst: 100},
	}
	for _, o := range opts {
		o(&rs)
	}
	return &testEnv{
		handler:  NewRouter(rs),
		auth:     authSvc,
		backend:  backend,
		sessions: sessions,
		products: products,
	}
}

// signIn creates a live session and returns its ID.
func (e *testEnv) signIn(t *testing.T) string {
	t.Helper()
	sess, err := e.auth.Login(context.Background(), ports.LoginInput{Email: "admin@example.com", Password: "secret"})
	require.NoError(t, err)
	return sess.ID
}

type reqOpts struct {
	session string
	form    url.Values
	htmx    bool
	accept  string
}

// do sends a request through the router with the CSRF cookie attached.
func (e *testEnv) do(method, target string, o reqOpts) *httptest.ResponseRecorder {
	var req *http.Request
	if o.form != nil {
		if o.form.Get(csrfFieldName) == "" {
			o.form.Set(csrfFieldName, testCSRF)
		}
		req = httptest.NewRequest(method, target, strings.NewReader(o.form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	if o.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: o.session})
	}
	if o.htmx {
		req.Header.Set("Hx-Request", "true")
	}
	accept := o.accept
	if accept == "" {
		accept = "text/html"
	}
	req.Header.Set("Accept", accept)

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
