package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
)

const errMsgLoginFailed = "Login failed. Please try again."

// LoginPage renders the sign-in form. Visitors who already hold a live
// session go straight to their destination.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirectURI := loginRedirect(r.URL.Query().Get("redirect_uri"))
	if h.AuthSvc != nil && sessionFromRequest(r, h.AuthSvc) != nil {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, loginView{RedirectURI: redirectURI})
}

// LoginSubmit exchanges credentials for a session cookie.
// POST /auth/login.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, loginView{Error: "Invalid form submission."})
		return
	}
	view := loginView{
		Email:       strings.TrimSpace(r.PostForm.Get("email")),
		RedirectURI: loginRedirect(r.PostForm.Get("redirect_uri")),
	}

	sess, err := h.AuthSvc.Login(r.Context(), ports.LoginInput{
		Email:    view.Email,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		view.Error = apperrors.UserMessage(err, errMsgLoginFailed)
		status := loginErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger().ErrorContext(r.Context(), "login failed", "email", view.Email, "error", err)
			view.Error = errMsgLoginFailed
		} else {
			h.logger().InfoContext(r.Context(), "login rejected", "email", view.Email, "status", status)
		}
		h.renderLogin(w, r, status, view)
		return
	}

	h.setSessionCookie(w, r, sess)
	h.logger().InfoContext(r.Context(), "admin signed in", "email", sess.User.Email)
	redirect(w, r, view.RedirectURI)
}

// Logout ends the session both locally and at the backend.
// POST /auth/logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		if err := h.AuthSvc.Logout(r.Context(), c.Value); err != nil {
			// The cookie is cleared regardless.
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	clearSessionCookie(w, r, h.CookieDomain)
	redirect(w, r, "/auth/signed-out")
}

// loginView is the data behind the "login-page" template.
type loginView struct {
	Email       string
	Error       string
	RedirectURI string
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, view loginView) {
	data := map[string]any{
		"Title":       "Sign in - " + brandName,
		"Brand":       brandName,
		"CSRFToken":   GetCSRFToken(r),
		"Email":       view.Email,
		"Error":       view.Error,
		"RedirectURI": view.RedirectURI,
	}
	h.renderStandalone(w, r, "login-page", status, data)
}

// renderStandalone renders a page that does not use the dashboard layout.
func (h *UIHandlers) renderStandalone(w http.ResponseWriter, r *http.Request, name string, status int, data map[string]any) {
	if h.T == nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.T.RenderNamed(w, name, data); err != nil {
		h.logger().ErrorContext(r.Context(), "standalone render failed", "template", name, "error", err)
	}
}

func loginErrorStatus(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	}
	return http.StatusBadGateway
}

// loginRedirect returns a same-site destination for after sign-in.
func loginRedirect(raw string) string {
	if p := safeRedirectPath(raw); p != "" {
		return p
	}
	return "/"
}

func (h *UIHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sess domainauth.Session) {
	// Without a known expiry the cookie lives for the browser session.
	maxAge := 0
	if !sess.ExpiresAt.IsZero() {
		maxAge = max(int(time.Until(sess.ExpiresAt).Seconds()), 1)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie in the browser.
func clearSessionCookie(w http.ResponseWriter, r *http.Request, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// SignedOut renders the page shown after logout or when an htmx request
// finds its session gone.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirectURI := loginRedirect(r.URL.Query().Get("redirect_uri"))
	if h.T == nil {
		http.Redirect(w, r, "/auth/login?redirect_uri="+url.QueryEscape(redirectURI), http.StatusSeeOther)
		return
	}
	h.renderStandalone(w, r, "signed-out-page", http.StatusOK, map[string]any{
		"Title":       "Signed out - " + brandName,
		"Brand":       brandName,
		"RedirectURI": redirectURI,
	})
}
