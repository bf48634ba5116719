package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/apiclient"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	mocks "github.com/target/storefront-admin/internal/mocks/auth"
	"golang.org/x/oauth2"
)

const testSessionID = "sess-1"

// recordedRequest captures what the fake storefront API received.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]http.HandlerFunc
	backend  *Backend
	store    *mocks.MemorySessionStore
	auth     *mocks.FakeBackend
}

// newFakeAPI serves routes keyed by "METHOD /path" behind a real pipeline.
// Unknown routes answer 404 with an envelope message.
func newFakeAPI(t *testing.T, routes map[string]http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, routes: routes}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		if h, ok := f.routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		reply(w, http.StatusNotFound, `{"success":false,"message":"Route not found"}`)
	}))
	t.Cleanup(srv.Close)

	f.store = mocks.NewMemorySessionStore()
	require.NoError(t, f.store.Save(context.Background(), domainauth.Session{
		ID:        testSessionID,
		User:      domainauth.User{ID: "admin-1", Email: "admin@example.com", Role: domainauth.RoleAdmin},
		Token:     oauth2.Token{AccessToken: "access-0", RefreshToken: "refresh-0"},
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	f.auth = mocks.NewFakeBackend()

	f.backend = NewBackend(BackendOptions{
		Pipeline: apiclient.New(apiclient.Options{
			BaseURL:   srv.URL + "/api",
			Sessions:  f.store,
			Refresher: f.auth,
		}),
	})
	return f
}

func (f *fakeAPI) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeAPI) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Last() recordedRequest {
	reqs := f.Requests()
	require.NotEmpty(f.t, reqs, "no requests recorded")
	return reqs[len(reqs)-1]
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { reply(w, status, body) }
}

// adminCtx scopes calls to the seeded session and its actor.
func adminCtx() context.Context {
	return WithActor(apiclient.WithSession(context.Background(), testSessionID), "admin@example.com")
}

// memCache is a map-backed core.CacheRepository.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.sets++
	return nil
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key], nil
}

func (m *memCache) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

func (m *memCache) Health(context.Context) error { return nil }
