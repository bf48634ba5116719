// Package apiclient sends authenticated requests to the storefront backend.
//
// Every call goes through a small state machine:
//
//	Sending --401--> Refreshing --ok--> Retrying --> Done
//	   |                 |
//	   +--other--> Done  +--fail--> Done (session cleared)
//
// A call sends at most twice and refreshes at most once.
package apiclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	obserrors "github.com/target/storefront-admin/internal/observability/errors"
	"github.com/target/storefront-admin/internal/observability/metrics"
	"github.com/target/storefront-admin/internal/ports"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	maxResponseBytes = 10 << 20
	maxSends         = 2
	maxRefreshes     = 1
)

var errBudgetExhausted = errors.New("request budget exhausted")

// Request describes one backend call.
type Request struct {
	// Method defaults to GET.
	Method string
	// Path is joined to the base URL unless it is already absolute.
	Path  string
	Query url.Values
	// Body is JSON-encoded unless it is already a json.RawMessage or []byte.
	Body any
	// Header entries replace the defaults with the same name.
	Header http.Header
}

// Options configures a Pipeline.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Sessions   ports.SessionStore
	Refresher  ports.TokenRefresher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Pipeline executes backend requests on behalf of the session found in the context.
type Pipeline struct {
	baseURL   string
	client    *http.Client
	sessions  ports.SessionStore
	refresher ports.TokenRefresher
	metrics   *metrics.Metrics
	log       *slog.Logger
	flights   singleflight.Group
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Pipeline{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		client:    client,
		sessions:  opts.Sessions,
		refresher: opts.Refresher,
		metrics:   opts.Metrics,
		log:       opts.Logger,
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return slog.Default()
}

// Call executes req and decodes a successful body into T.
// A 2xx body that does not decode is reported as a network failure.
func Call[T any](ctx context.Context, p *Pipeline, req Request) Outcome[T] {
	raw := p.Execute(ctx, req)
	if !raw.Ok() {
		return Failure[T](raw.Err())
	}
	var out T
	body := raw.Data()
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return Success(out)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return Failure[T](networkError(err))
	}
	return Success(out)
}

type state int

const (
	stateSending state = iota
	stateRefreshing
	stateRetrying
	stateDone
)

func (s state) String() string {
	switch s {
	case stateSending:
		return "sending"
	case stateRefreshing:
		return "refreshing"
	case stateRetrying:
		return "retrying"
	default:
		return "done"
	}
}

// call is the per-Execute state machine.
type call struct {
	p         *Pipeline
	req       Request
	sessionID string
	token     string
	sends     int
	refreshes int
	outcome   Outcome[json.RawMessage]
}

// Execute runs req through the state machine and returns the raw JSON payload.
func (p *Pipeline) Execute(ctx context.Context, req Request) Outcome[json.RawMessage] {
	c := &call{p: p, req: req, sessionID: SessionFrom(ctx)}
	st := stateSending
	for st != stateDone {
		st = c.step(ctx, st)
	}
	return c.outcome
}

func (c *call) step(ctx context.Context, st state) state {
	switch st {
	case stateSending:
		c.token = c.p.accessToken(ctx, c.sessionID)
		resp := c.send(ctx)
		if resp.status == http.StatusUnauthorized {
			return stateRefreshing
		}
		c.outcome = resp.outcome()
		return stateDone

	case stateRefreshing:
		if c.refreshes >= maxRefreshes {
			c.expire(ctx)
			return stateDone
		}
		c.refreshes++
		tok, err := c.p.refresh(ctx, c.sessionID, c.token)
		if err != nil {
			c.p.logger().WarnContext(ctx, "token refresh failed",
				"session", sessionTag(c.sessionID),
				"path", c.req.Path,
				"error", err)
			c.expire(ctx)
			return stateDone
		}
		c.token = tok
		return stateRetrying

	case stateRetrying:
		resp := c.send(ctx)
		// Any HTTP failure after a refresh ends the session; transport
		// failures stay network errors.
		if resp.err == nil && (resp.status < 200 || resp.status > 299) {
			c.p.logger().WarnContext(ctx, "retry failed with renewed token",
				"session", sessionTag(c.sessionID),
				"path", c.req.Path,
				"status", resp.status)
			c.expire(ctx)
			return stateDone
		}
		c.outcome = resp.outcome()
		return stateDone
	}

	c.outcome = Failure[json.RawMessage](networkError(fmt.Errorf("unexpected pipeline state %s", st)))
	return stateDone
}

func (c *call) expire(ctx context.Context) {
	c.p.clearSession(ctx, c.sessionID)
	c.outcome = Failure[json.RawMessage](authExpiredError())
}

type response struct {
	status int
	body   []byte
	err    error
}

func (c *call) send(ctx context.Context) response {
	if c.sends >= maxSends {
		return response{err: errBudgetExhausted}
	}
	renewed := c.refreshes > 0
	c.sends++
	httpReq, err := c.p.buildRequest(ctx, c.req, c.token, renewed)
	if err != nil {
		return response{err: err}
	}

	start := time.Now()
	resp, err := c.p.client.Do(httpReq)
	if err != nil {
		c.p.metrics.ObserveUpstream(httpReq.Method, 0, time.Since(start))
		c.p.logger().WarnContext(ctx, "backend unreachable",
			"method", httpReq.Method,
			"path", c.req.Path,
			"error_type", obserrors.Classify(err),
			"error", err)
		return response{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.p.metrics.ObserveUpstream(httpReq.Method, resp.StatusCode, time.Since(start))
	if err != nil {
		return response{err: fmt.Errorf("read response: %w", err)}
	}
	return response{status: resp.StatusCode, body: body}
}

func (r response) outcome() Outcome[json.RawMessage] {
	if r.err != nil {
		return Failure[json.RawMessage](networkError(r.err))
	}
	if r.status < 200 || r.status > 299 {
		return Failure[json.RawMessage](&Error{
			Kind:       KindHTTP,
			Message:    errorMessage(r.body),
			StatusCode: r.status,
		})
	}
	if len(bytes.TrimSpace(r.body)) == 0 {
		return Success(json.RawMessage("null"))
	}
	var payload json.RawMessage
	if err := json.Unmarshal(r.body, &payload); err != nil {
		return Failure[json.RawMessage](networkError(err))
	}
	return Success(payload)
}

func errorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || strings.TrimSpace(parsed.Message) == "" {
		return msgRequestFailed
	}
	return parsed.Message
}

// buildRequest applies default headers, then caller headers. A renewed token
// always wins over a caller-supplied Authorization header.
func (p *Pipeline) buildRequest(ctx context.Context, req Request, token string, renewed bool) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := p.resolve(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}
	for name, values := range req.Header {
		httpReq.Header.Del(name)
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if renewed && token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}
	return httpReq, nil
}

func (p *Pipeline) resolve(path string, query url.Values) (string, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = p.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

func (p *Pipeline) accessToken(ctx context.Context, sessionID string) string {
	if sessionID == "" || p.sessions == nil {
		return ""
	}
	sess, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		return ""
	}
	return sess.AccessToken()
}

func (p *Pipeline) clearSession(ctx context.Context, sessionID string) {
	p.metrics.SessionExpired()
	if sessionID == "" || p.sessions == nil {
		return
	}
	if err := p.sessions.Delete(context.WithoutCancel(ctx), sessionID); err != nil {
		p.logger().ErrorContext(ctx, "failed to clear expired session",
			"session", sessionTag(sessionID),
			"error", err)
		return
	}
	p.logger().InfoContext(ctx, "session expired", "session", sessionTag(sessionID))
}

// sessionTag is a short, non-reversible label for logs.
func sessionTag(id string) string {
	if id == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:4])
}
