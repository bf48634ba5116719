package apiclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/target/storefront-admin/internal/observability/metrics"
	"github.com/target/storefront-admin/internal/util"
)

var (
	errNoSession      = errors.New("no session")
	errNoRefreshToken = errors.New("no refresh token stored")
)

// refresh renews the session's access token and returns the new one.
// Concurrent callers for the same session share a single backend call; a
// caller whose rejected token was already rotated by another request gets
// the stored token without refreshing again.
func (p *Pipeline) refresh(ctx context.Context, sessionID, rejected string) (string, error) {
	if sessionID == "" || p.sessions == nil {
		p.metrics.RefreshAttempt(metrics.ResultError)
		return "", errNoSession
	}

	v, err, _ := p.flights.Do(sessionID, func() (any, error) {
		return p.doRefresh(context.WithoutCancel(ctx), sessionID, rejected)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *Pipeline) doRefresh(ctx context.Context, sessionID, rejected string) (string, error) {
	sess, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		p.metrics.RefreshAttempt(metrics.ResultError)
		return "", fmt.Errorf("load session: %w", err)
	}

	if current := sess.AccessToken(); current != "" && current != rejected {
		p.metrics.RefreshAttempt(metrics.ResultReused)
		return current, nil
	}

	if sess.RefreshToken() == "" {
		p.metrics.RefreshAttempt(metrics.ResultError)
		return "", errNoRefreshToken
	}
	if p.refresher == nil {
		p.metrics.RefreshAttempt(metrics.ResultError)
		return "", errors.New("no token refresher configured")
	}

	tok, err := p.refresher.Refresh(ctx, sess.RefreshToken())
	if err != nil {
		p.metrics.RefreshAttempt(metrics.ResultError)
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if tok.AccessToken == "" || tok.RefreshToken == "" {
		p.metrics.RefreshAttempt(metrics.ResultError)
		return "", errors.New("refresh response missing tokens")
	}

	updated := sess.WithToken(tok)
	if exp, ok := util.TokenExpiry(tok.RefreshToken); ok && exp.After(updated.ExpiresAt) {
		updated.ExpiresAt = exp
	}
	if err := p.sessions.Save(ctx, updated); err != nil {
		p.metrics.RefreshAttempt(metrics.ResultError)
		return "", fmt.Errorf("save refreshed session: %w", err)
	}

	p.metrics.RefreshAttempt(metrics.ResultSuccess)
	p.logger().InfoContext(ctx, "access token refreshed", "session", sessionTag(sessionID))
	return tok.AccessToken, nil
}
