package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/storefront-admin/internal/adapters/backend"
	"github.com/target/storefront-admin/internal/apiclient"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
	"github.com/target/storefront-admin/internal/util"
)

const (
	minPasswordLength = 8
	msgAccessDenied   = "Access denied. Admin privileges required."
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend  ports.AuthBackend
	Sessions ports.SessionStore
	// API serves the authenticated profile endpoints.
	API      *Backend
	Activity *ActivityService
	// SessionTTL applies when the refresh token carries no exp claim.
	SessionTTL time.Duration
	AdminRole  domainauth.Role
	Now        func() time.Time
	Logger     *slog.Logger
}

// AuthService signs administrators in and out and manages their sessions.
type AuthService struct {
	backend   ports.AuthBackend
	sessions  ports.SessionStore
	api       *Backend
	activity  *ActivityService
	ttl       time.Duration
	adminRole domainauth.Role
	now       func() time.Time
	log       *slog.Logger
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		backend:   opts.Backend,
		sessions:  opts.Sessions,
		api:       opts.API,
		activity:  opts.Activity,
		ttl:       opts.SessionTTL,
		adminRole: opts.AdminRole,
		now:       opts.Now,
		log:       opts.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = 7 * 24 * time.Hour
	}
	if s.adminRole == "" {
		s.adminRole = domainauth.RoleAdmin
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *AuthService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Login verifies credentials with the backend and persists a session for administrators.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (domainauth.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return domainauth.Session{}, apperrors.Validation("Email and password are required")
	}

	res, err := s.backend.Login(ctx, in)
	if err != nil {
		if backend.IsUnauthorized(err) {
			return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "Invalid email or password")
		}
		var be *backend.Error
		if errors.As(err, &be) && be.StatusCode < http.StatusInternalServerError {
			return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, be.Message)
		}
		return domainauth.Session{}, apperrors.Upstream(err, "Login failed. Please try again.")
	}

	if res.User.Role != s.adminRole {
		s.logger().WarnContext(ctx, "non-admin login rejected", "user_id", res.User.ID, "role", res.User.Role)
		if lerr := s.backend.Logout(ctx, res.Token.AccessToken, res.Token.RefreshToken); lerr != nil {
			s.logger().DebugContext(ctx, "revoke non-admin tokens failed", "error", lerr)
		}
		return domainauth.Session{}, apperrors.Forbidden(msgAccessDenied)
	}

	sess := domainauth.Session{
		ID:        generateSessionID(),
		User:      res.User,
		Token:     res.Token,
		ExpiresAt: s.sessionExpiry(res.Token.RefreshToken),
	}
	if err := sess.Validate(); err != nil {
		return domainauth.Session{}, apperrors.Upstream(err, "Login failed. Please try again.")
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.activity.Record(WithActor(ctx, sess.User.Email), model.ActivityLogin, "session", sess.User.ID, "Signed in")
	return sess, nil
}

func (s *AuthService) sessionExpiry(refreshToken string) time.Time {
	now := s.now()
	if exp, ok := util.TokenExpiry(refreshToken); ok && exp.After(now) {
		return exp
	}
	return now.Add(s.ttl)
}

// GetSession retrieves a live session by ID. Expired sessions are deleted.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, apperrors.Unauthorized("Not signed in")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, domainauth.ErrSessionNotFound) {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "Not signed in")
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}

	if !sess.ExpiresAt.IsZero() && s.now().After(sess.ExpiresAt) {
		expired := apperrors.Wrap(errSessionExpired, apperrors.ErrCodeUnauthorized, "Session expired. Please login again.")
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return domainauth.Session{}, errors.Join(expired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return domainauth.Session{}, expired
	}
	if !sess.IsAuthenticated() {
		return domainauth.Session{}, apperrors.Unauthorized("Not signed in")
	}
	return sess, nil
}

// Logout revokes the refresh token (best effort) and always deletes the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	switch {
	case err == nil && sess.RefreshToken() != "":
		if rerr := s.backend.Logout(ctx, sess.AccessToken(), sess.RefreshToken()); rerr != nil {
			s.logger().WarnContext(ctx, "backend logout failed", "error", rerr)
		}
	case err != nil && !errors.Is(err, domainauth.ErrSessionNotFound):
		s.logger().WarnContext(ctx, "load session for logout failed", "error", err)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if sess.User.Email != "" {
		s.activity.Record(WithActor(ctx, sess.User.Email), model.ActivityLogout, "session", sess.User.ID, "Signed out")
	}
	return nil
}

// Profile is the signed-in administrator as reported by the backend.
type Profile struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Name joins first and last name.
func (p Profile) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Profile loads the current administrator's profile. The session travels in ctx.
func (s *AuthService) Profile(ctx context.Context) (Profile, error) {
	res, err := fetch[Profile](ctx, s.api, apiclient.Request{Path: "/auth/profile"}, exprData)
	if err != nil {
		return Profile{}, err
	}
	return res.Value, nil
}

// ChangePasswordInput is the settings form payload.
type ChangePasswordInput struct {
	Current string
	New     string
	Confirm string
}

// Validate checks the form before anything is sent upstream.
func (in ChangePasswordInput) Validate() error {
	errs := model.FieldErrors{}
	if in.Current == "" {
		errs["currentPassword"] = "Current password is required"
	}
	switch {
	case len(in.New) < minPasswordLength:
		errs["newPassword"] = fmt.Sprintf("New password must be at least %d characters", minPasswordLength)
	case in.New == in.Current:
		errs["newPassword"] = "New password must differ from the current one"
	}
	if in.Confirm != in.New {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs.Err()
}

// ChangePassword updates the current administrator's password.
func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := in.Validate(); err != nil {
		return validationError(err)
	}
	body := map[string]string{"currentPassword": in.Current, "newPassword": in.New}
	if _, err := send(ctx, s.api, apiclient.Request{Method: http.MethodPost, Path: "/auth/change-password", Body: body}); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityUpdate, "session", "", "Changed password")
	return nil
}

// generateSessionID creates a random, URL-safe session ID.
func generateSessionID() string {
	return uuid.New().String()
}
