package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/adapters/backend"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/mocks"
	authmocks "github.com/target/storefront-admin/internal/mocks/auth"
	"github.com/target/storefront-admin/internal/ports"
	"go.uber.org/mock/gomock"
	"golang.org/x/oauth2"
)

var fixedNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func newAuthService(t *testing.T, fake *authmocks.FakeBackend, store ports.SessionStore, api *Backend) *AuthService {
	t.Helper()
	return NewAuthService(AuthServiceOptions{
		Backend:    fake,
		Sessions:   store,
		API:        api,
		SessionTTL: 12 * time.Hour,
		Now:        func() time.Time { return fixedNow },
	})
}

func TestAuthService_Login(t *testing.T) {
	refreshExp := fixedNow.Add(48 * time.Hour).Truncate(time.Second)

	tests := []struct {
		name       string
		token      oauth2.Token
		wantExpiry time.Time
	}{
		{
			name:       "expiry from refresh token claim",
			token:      oauth2.Token{AccessToken: "a", RefreshToken: signedToken(t, refreshExp)},
			wantExpiry: refreshExp,
		},
		{
			name:       "opaque refresh token falls back to configured ttl",
			token:      oauth2.Token{AccessToken: "a", RefreshToken: "opaque"},
			wantExpiry: fixedNow.Add(12 * time.Hour),
		},
		{
			name:       "already expired claim falls back to configured ttl",
			token:      oauth2.Token{AccessToken: "a", RefreshToken: signedToken(t, fixedNow.Add(-time.Minute))},
			wantExpiry: fixedNow.Add(12 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := authmocks.NewFakeBackend()
			fake.LoginFunc = func(_ context.Context, in ports.LoginInput) (ports.LoginResult, error) {
				assert.Equal(t, "admin@example.com", in.Email, "email is trimmed")
				return ports.LoginResult{User: fake.DefaultUser, Token: tt.token}, nil
			}
			store := authmocks.NewMemorySessionStore()
			svc := newAuthService(t, fake, store, nil)

			sess, err := svc.Login(context.Background(), ports.LoginInput{Email: "  admin@example.com ", Password: "hunter22"})
			require.NoError(t, err)
			assert.NotEmpty(t, sess.ID)
			assert.True(t, sess.ExpiresAt.Equal(tt.wantExpiry), "expiry %v, want %v", sess.ExpiresAt, tt.wantExpiry)

			stored, err := store.Get(context.Background(), sess.ID)
			require.NoError(t, err)
			assert.Equal(t, "admin-1", stored.User.ID)
		})
	}
}

func TestAuthService_Login_RejectsNonAdmin(t *testing.T) {
	fake := authmocks.NewFakeBackend()
	fake.DefaultUser.Role = domainauth.RoleCustomer
	store := authmocks.NewMemorySessionStore()
	svc := newAuthService(t, fake, store, nil)

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "shopper@example.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, "Access denied. Admin privileges required.", apperrors.UserMessage(err, ""))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, fake.LogoutCalls(), "tokens issued to a non-admin are revoked")
}

func TestAuthService_Login_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    ports.LoginInput
		err   error
		check func(error) bool
		msg   string
	}{
		{
			name:  "missing credentials",
			in:    ports.LoginInput{Email: " "},
			check: apperrors.IsValidation,
			msg:   "Email and password are required",
		},
		{
			name:  "bad password",
			in:    ports.LoginInput{Email: "a@example.com", Password: "x"},
			err:   &backend.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"},
			check: apperrors.IsUnauthorized,
			msg:   "Invalid email or password",
		},
		{
			name:  "backend client error",
			in:    ports.LoginInput{Email: "a@example.com", Password: "x"},
			err:   &backend.Error{StatusCode: http.StatusTooManyRequests, Message: "Too many attempts"},
			check: apperrors.IsValidation,
			msg:   "Too many attempts",
		},
		{
			name:  "backend down",
			in:    ports.LoginInput{Email: "a@example.com", Password: "x"},
			err:   errors.New("dial tcp: connection refused"),
			check: apperrors.IsUpstream,
			msg:   "Login failed. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := authmocks.NewFakeBackend()
			fake.LoginFunc = func(context.Context, ports.LoginInput) (ports.LoginResult, error) {
				return ports.LoginResult{}, tt.err
			}
			svc := newAuthService(t, fake, authmocks.NewMemorySessionStore(), nil)

			_, err := svc.Login(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected classification: %v", err)
			assert.Equal(t, tt.msg, apperrors.UserMessage(err, ""))
		})
	}
}

func TestAuthService_Login_RecordsActivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivityRepository(ctrl)
	repo.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.RecordActivityRequest) (*model.ActivityEntry, error) {
			assert.Equal(t, "admin@example.com", req.Actor)
			assert.Equal(t, model.ActivityLogin, req.Action)
			return &model.ActivityEntry{}, nil
		})

	svc := NewAuthService(AuthServiceOptions{
		Backend:  authmocks.NewFakeBackend(),
		Sessions: authmocks.NewMemorySessionStore(),
		Activity: NewActivityService(ActivityServiceOptions{Repo: repo}),
	})
	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
}

func TestAuthService_GetSession(t *testing.T) {
	store := authmocks.NewMemorySessionStore()
	ctx := context.Background()
	live := domainauth.Session{
		ID:        "live",
		User:      domainauth.User{ID: "admin-1", Role: domainauth.RoleAdmin},
		Token:     oauth2.Token{AccessToken: "a", RefreshToken: "r"},
		ExpiresAt: fixedNow.Add(time.Hour),
	}
	expired := live
	expired.ID = "expired"
	expired.ExpiresAt = fixedNow.Add(-time.Second)
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, expired))

	svc := newAuthService(t, authmocks.NewFakeBackend(), store, nil)

	got, err := svc.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", got.User.ID)

	_, err = svc.GetSession(ctx, "expired")
	assert.True(t, apperrors.IsUnauthorized(err))
	_, err = store.Get(ctx, "expired")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound, "expired sessions are deleted")

	_, err = svc.GetSession(ctx, "unknown")
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = svc.GetSession(ctx, "")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_GetSession_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "s1").Return(domainauth.Session{}, assert.AnError)

	svc := newAuthService(t, authmocks.NewFakeBackend(), store, nil)
	_, err := svc.GetSession(context.Background(), "s1")
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_Logout_AlwaysDeletes(t *testing.T) {
	fake := authmocks.NewFakeBackend()
	var revoked string
	fake.LogoutFunc = func(_ context.Context, _, refreshToken string) error {
		revoked = refreshToken
		return errors.New("backend unavailable")
	}
	store := authmocks.NewMemorySessionStore()
	svc := newAuthService(t, fake, store, nil)

	sess, err := svc.Login(context.Background(), ports.LoginInput{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess.ID))
	assert.Equal(t, "refresh-0", revoked)
	assert.Equal(t, 0, store.Len())

	require.NoError(t, svc.Logout(context.Background(), "already-gone"))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestAuthService_Profile(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /api/auth/profile": respond(http.StatusOK,
			`{"success":true,"data":{"userId":"admin-1","email":"admin@example.com","firstName":"Ada","lastName":"Admin","role":"admin"}}`),
	})
	svc := newAuthService(t, api.auth, api.store, api.backend)

	p, err := svc.Profile(adminCtx())
	require.NoError(t, err)
	assert.Equal(t, "admin-1", p.ID)
	assert.Equal(t, "Ada Admin", p.Name())
}

func TestChangePasswordInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		in     ChangePasswordInput
		fields []string
	}{
		{name: "valid", in: ChangePasswordInput{Current: "old-secret", New: "new-secret-1", Confirm: "new-secret-1"}},
		{name: "missing current", in: ChangePasswordInput{New: "new-secret-1", Confirm: "new-secret-1"}, fields: []string{"currentPassword"}},
		{name: "too short", in: ChangePasswordInput{Current: "old", New: "short", Confirm: "short"}, fields: []string{"newPassword"}},
		{name: "unchanged", in: ChangePasswordInput{Current: "same-secret", New: "same-secret", Confirm: "same-secret"}, fields: []string{"newPassword"}},
		{name: "mismatch", in: ChangePasswordInput{Current: "old", New: "new-secret-1", Confirm: "new-secret-2"}, fields: []string{"confirmPassword"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var fields model.FieldErrors
			require.ErrorAs(t, err, &fields)
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
			assert.Len(t, fields, len(tt.fields))
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/auth/change-password": respond(http.StatusOK, `{"success":true,"message":"Password changed"}`),
	})
	svc := newAuthService(t, api.auth, api.store, api.backend)

	err := svc.ChangePassword(adminCtx(), ChangePasswordInput{Current: "old-secret", New: "new-secret-1", Confirm: "new-secret-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"currentPassword": "old-secret", "newPassword": "new-secret-1"}, api.Last().Body)

	err = svc.ChangePassword(adminCtx(), ChangePasswordInput{Current: "old-secret", New: "short", Confirm: "short"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 1, api.Count(http.MethodPost, "/api/auth/change-password"))
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST /api/auth/change-password": respond(http.StatusBadRequest, `{"success":false,"message":"Current password is incorrect"}`),
	})
	svc := newAuthService(t, api.auth, api.store, api.backend)

	err := svc.ChangePassword(adminCtx(), ChangePasswordInput{Current: "wrong-one", New: "new-secret-1", Confirm: "new-secret-1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Current password is incorrect", apperrors.UserMessage(err, ""))
}

func TestAuthService_Logout_RevokesStoredTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	be := mocks.NewMockAuthBackend(ctrl)
	be.EXPECT().Logout(gomock.Any(), "access-7", "refresh-7").Return(nil)

	store := authmocks.NewMemorySessionStore()
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID:    "s7",
		User:  domainauth.User{ID: "admin-1", Email: "admin@example.com", Role: domainauth.RoleAdmin},
		Token: oauth2.Token{AccessToken: "access-7", RefreshToken: "refresh-7"},
	}))

	svc := NewAuthService(AuthServiceOptions{Backend: be, Sessions: store})
	require.NoError(t, svc.Logout(context.Background(), "s7"))
	assert.Equal(t, 0, store.Len())
}
