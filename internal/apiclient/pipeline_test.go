package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	mocks "github.com/target/storefront-admin/internal/mocks/auth"
	"github.com/target/storefront-admin/internal/observability/metrics"
	"golang.org/x/oauth2"
)

const testSessionID = "sess-1"

type fixture struct {
	server  *httptest.Server
	hits    *atomic.Int32
	store   *mocks.MemorySessionStore
	backend *mocks.FakeBackend
	p       *Pipeline
	ctx     context.Context
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store := mocks.NewMemorySessionStore()
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID:   testSessionID,
		User: domainauth.User{ID: "admin-1", Email: "admin@example.com", Role: domainauth.RoleAdmin},
		Token: oauth2.Token{
			AccessToken:  "access-0",
			RefreshToken: "refresh-0",
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	backend := mocks.NewFakeBackend()
	p := New(Options{
		BaseURL:   srv.URL + "/api/",
		Sessions:  store,
		Refresher: backend,
		Metrics:   metrics.New(prometheus.NewRegistry()),
	})

	return &fixture{
		server:  srv,
		hits:    hits,
		store:   store,
		backend: backend,
		p:       p,
		ctx:     WithSession(context.Background(), testSessionID),
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// acceptOnly returns 401 unless the request carries the given bearer token.
func acceptOnly(token, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, `{"message":"jwt expired"}`)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func TestExecute_AttachesDefaultHeaders(t *testing.T) {
	var got http.Header
	var path string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.Path
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})

	out := f.p.Execute(f.ctx, Request{Path: "/products"})

	require.True(t, out.Ok())
	assert.JSONEq(t, `{"success":true}`, string(out.Data()))
	assert.Equal(t, "/api/products", path)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "Bearer access-0", got.Get("Authorization"))
}

func TestExecute_NoSessionSendsNoAuthorization(t *testing.T) {
	var auth []string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		writeJSON(w, http.StatusOK, `[]`)
	})

	out := f.p.Execute(context.Background(), Request{Path: "testimonials"})

	require.True(t, out.Ok())
	assert.Empty(t, auth)
}

func TestExecute_CallerHeadersOverrideDefaults(t *testing.T) {
	var got http.Header
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, `{}`)
	})

	out := f.p.Execute(f.ctx, Request{
		Path: "/uploads",
		Header: http.Header{
			"Content-Type":  {"text/plain"},
			"Authorization": {"Custom abc"},
			"X-Request-Id":  {"req-1"},
		},
	})

	require.True(t, out.Ok())
	assert.Equal(t, "text/plain", got.Get("Content-Type"))
	assert.Equal(t, []string{"Custom abc"}, got.Values("Authorization"))
	assert.Equal(t, "req-1", got.Get("X-Request-Id"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestExecute_EncodesBodyAndQuery(t *testing.T) {
	var body map[string]any
	var method, rawQuery string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		rawQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"_id":"p1"}}`)
	})

	out := f.p.Execute(f.ctx, Request{
		Method: http.MethodPost,
		Path:   "/products",
		Query:  map[string][]string{"draft": {"true"}},
		Body:   map[string]any{"name": "Mug", "price": 9.5},
	})

	require.True(t, out.Ok())
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "draft=true", rawQuery)
	assert.Equal(t, "Mug", body["name"])
}

func TestExecute_AbsoluteURLBypassesBase(t *testing.T) {
	var path string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, http.StatusOK, `{}`)
	})

	out := f.p.Execute(f.ctx, Request{Path: f.server.URL + "/elsewhere"})

	require.True(t, out.Ok())
	assert.Equal(t, "/elsewhere", path)
}

func TestExecute_RefreshesOnceThenRetries(t *testing.T) {
	f := newFixture(t, acceptOnly("access-1", `{"data":"ok"}`))

	out := f.p.Execute(f.ctx, Request{Path: "/orders/admin/all"})

	require.True(t, out.Ok(), "outcome: %v", out.Err())
	assert.JSONEq(t, `{"data":"ok"}`, string(out.Data()))
	assert.Equal(t, int32(2), f.hits.Load())
	assert.Equal(t, 1, f.backend.RefreshCalls())

	sess, err := f.store.Get(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, "access-1", sess.AccessToken())
	assert.Equal(t, "refresh-1", sess.RefreshToken())
}

func TestExecute_RetryUsesRenewedTokenOverCallerHeader(t *testing.T) {
	f := newFixture(t, acceptOnly("access-1", `{}`))

	out := f.p.Execute(f.ctx, Request{
		Path:   "/coupons",
		Header: http.Header{"Authorization": {"Bearer access-0"}},
	})

	require.True(t, out.Ok())
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestExecute_AlwaysUnauthorizedClearsSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"nope"}`)
	})

	out := f.p.Execute(f.ctx, Request{Path: "/dashboard/admin"})

	require.False(t, out.Ok())
	apiErr := out.Err()
	assert.Equal(t, KindAuthExpired, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Session expired. Please login again.", apiErr.Message)
	assert.Equal(t, int32(2), f.hits.Load())
	assert.Equal(t, 1, f.backend.RefreshCalls())
	assert.Equal(t, 0, f.store.Len())
}

func TestExecute_RefreshFailureClearsSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	})
	f.backend.RefreshFunc = func(context.Context, string) (oauth2.Token, error) {
		return oauth2.Token{}, errors.New("refresh token revoked")
	}

	out := f.p.Execute(f.ctx, Request{Path: "/users"})

	require.False(t, out.Ok())
	assert.Equal(t, KindAuthExpired, out.Err().Kind)
	assert.Equal(t, int32(1), f.hits.Load())
	assert.Equal(t, 1, f.backend.RefreshCalls())
	_, err := f.store.Get(context.Background(), testSessionID)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestExecute_RefreshMissingTokensIsFailure(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	})
	f.backend.RefreshFunc = func(context.Context, string) (oauth2.Token, error) {
		return oauth2.Token{AccessToken: "only-access"}, nil
	}

	out := f.p.Execute(f.ctx, Request{Path: "/users"})

	assert.Equal(t, KindAuthExpired, out.Err().Kind)
	assert.Equal(t, 0, f.store.Len())
}

func TestExecute_UnauthorizedWithoutSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	})

	out := f.p.Execute(context.Background(), Request{Path: "/auth/profile"})

	assert.Equal(t, KindAuthExpired, out.Err().Kind)
	assert.Equal(t, 0, f.backend.RefreshCalls())
	assert.Equal(t, int32(1), f.hits.Load())
	assert.Equal(t, 1, f.store.Len())
}

func TestExecute_FailedRetryClearsSession(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"message":"database down"}`},
		{"not found", http.StatusNotFound, `{"message":"Product not found"}`},
		{"forbidden", http.StatusForbidden, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") == "Bearer access-0" {
					writeJSON(w, http.StatusUnauthorized, `{}`)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})

			out := f.p.Execute(f.ctx, Request{Path: "/products"})

			require.False(t, out.Ok())
			assert.Equal(t, KindAuthExpired, out.Err().Kind)
			assert.Equal(t, http.StatusUnauthorized, out.Err().StatusCode)
			assert.Equal(t, "Session expired. Please login again.", out.Err().Message)
			assert.Equal(t, int32(2), f.hits.Load())
			assert.Equal(t, 1, f.backend.RefreshCalls())
			_, err := f.store.Get(context.Background(), testSessionID)
			assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
		})
	}
}

func TestExecute_HTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message from body", http.StatusNotFound, `{"message":"Product not found"}`, "Product not found"},
		{"empty message", http.StatusBadRequest, `{"message":""}`, "Request failed"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed"},
		{"no body", http.StatusForbidden, ``, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			out := f.p.Execute(f.ctx, Request{Path: "/products/1"})

			require.False(t, out.Ok())
			assert.Equal(t, KindHTTP, out.Err().Kind)
			assert.Equal(t, tt.status, out.Err().StatusCode)
			assert.Equal(t, tt.wantMsg, out.Err().Message)
			assert.Equal(t, 0, f.backend.RefreshCalls())

			sess, err := f.store.Get(context.Background(), testSessionID)
			require.NoError(t, err)
			assert.Equal(t, "access-0", sess.AccessToken())
		})
	}
}

func TestExecute_NetworkErrorHasStatusZero(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	f.server.Close()

	out := f.p.Execute(f.ctx, Request{Path: "/products"})

	require.False(t, out.Ok())
	assert.Equal(t, KindNetwork, out.Err().Kind)
	assert.Equal(t, 0, out.Err().StatusCode)
	assert.NotEmpty(t, out.Err().Message)
}

func TestExecute_MalformedSuccessBodyIsNetworkError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":tru`)
	})

	out := f.p.Execute(f.ctx, Request{Path: "/products"})

	require.False(t, out.Ok())
	assert.Equal(t, KindNetwork, out.Err().Kind)
	assert.Equal(t, 0, out.Err().StatusCode)
}

func TestExecute_EmptySuccessBody(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := f.p.Execute(f.ctx, Request{Method: http.MethodDelete, Path: "/banners/b1"})

	require.True(t, out.Ok())
	assert.Equal(t, "null", string(out.Data()))

	typed := Call[map[string]any](f.ctx, f.p, Request{Method: http.MethodDelete, Path: "/banners/b1"})
	require.True(t, typed.Ok())
	assert.Nil(t, typed.Data())
}

func TestCall_DecodesPayload(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"name":"Mug"}}`)
	})

	type envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Name string `json:"name"`
		} `json:"data"`
	}

	out := Call[envelope](f.ctx, f.p, Request{Path: "/products/p1"})
	v, err := out.Unwrap()
	require.NoError(t, err)
	assert.True(t, v.Success)
	assert.Equal(t, "Mug", v.Data.Name)
}

func TestCall_DecodeMismatchIsNetworkError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"count":"many"}`)
	})

	out := Call[struct {
		Count int `json:"count"`
	}](f.ctx, f.p, Request{Path: "/count"})

	require.False(t, out.Ok())
	assert.Equal(t, KindNetwork, out.Err().Kind)
}

func TestExecute_ConcurrentUnauthorizedCoalescesRefresh(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer access-0" {
			writeJSON(w, http.StatusUnauthorized, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{}`)
	})

	release := make(chan struct{})
	f.backend.RefreshFunc = func(context.Context, string) (oauth2.Token, error) {
		<-release
		return oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]Outcome[json.RawMessage], workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.p.Execute(f.ctx, Request{Path: "/products"})
		}(i)
	}

	// Let the first 401s arrive before the refresh completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, out := range results {
		assert.True(t, out.Ok(), "worker %d: %v", i, out.Err())
	}
	assert.Equal(t, 1, f.backend.RefreshCalls())
}

func TestExecute_SiblingRotationIsReused(t *testing.T) {
	f := newFixture(t, acceptOnly("rotated", `{}`))

	// Another request already rotated the pair after this one read access-0.
	f.backend.RefreshFunc = func(context.Context, string) (oauth2.Token, error) {
		t.Fatal("refresh should not be called")
		return oauth2.Token{}, nil
	}
	f.p.sessions = &rotatingStore{MemorySessionStore: f.store, rotateTo: "rotated"}

	out := f.p.Execute(f.ctx, Request{Path: "/products"})

	require.True(t, out.Ok(), "outcome: %v", out.Err())
	assert.Equal(t, 0, f.backend.RefreshCalls())
}

// rotatingStore simulates a concurrent rotation landing between send and refresh:
// the first read returns the stale token, later reads the rotated one.
type rotatingStore struct {
	*mocks.MemorySessionStore
	rotateTo string
	reads    atomic.Int32
}

func (s *rotatingStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	sess, err := s.MemorySessionStore.Get(ctx, id)
	if err != nil {
		return sess, err
	}
	if s.reads.Add(1) > 1 {
		sess.Token.AccessToken = s.rotateTo
	}
	return sess, nil
}
