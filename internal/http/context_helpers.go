package httpx

import (
	"context"
	"net/http"

	"github.com/target/storefront-admin/internal/apiclient"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/service"
)

type sessionKey struct{}

// sessionFromRequest resolves the session cookie to a live session, or nil.
func sessionFromRequest(r *http.Request, sessions SessionReader) *domainauth.Session {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	sess, err := sessions.GetSession(r.Context(), c.Value)
	if err != nil {
		return nil
	}
	return &sess
}

// withSession binds sess to ctx three ways: for templates, for backend calls
// through the request pipeline, and as the activity log actor.
func withSession(ctx context.Context, sess *domainauth.Session) context.Context {
	if sess == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionKey{}, sess)
	ctx = apiclient.WithSession(ctx, sess.ID)
	return service.WithActor(ctx, sess.User.Email)
}

// sessionFromContext returns the session bound by withSession, or nil.
func sessionFromContext(ctx context.Context) *domainauth.Session {
	s, _ := ctx.Value(sessionKey{}).(*domainauth.Session)
	return s
}
