// Package backend talks to the storefront REST API's auth endpoints directly.
// These calls must never go through the authenticated request pipeline:
// the pipeline itself depends on Refresh.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/domain/model"
	"github.com/target/storefront-admin/internal/ports"
	"github.com/target/storefront-admin/internal/util"
	"golang.org/x/oauth2"
)

const maxAuthResponseBytes = 1 << 20

// Client implements ports.AuthBackend against the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.AuthBackend = (*Client)(nil)

// Config holds configuration for the backend auth client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // Optional, defaults to a client with a 15s timeout
}

// NewClient creates a new backend auth client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("backend base URL must be absolute: %q", base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: base, httpClient: httpClient}, nil
}

// Error is a non-2xx answer from an auth endpoint.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend auth %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.StatusCode == http.StatusUnauthorized
}

type apiUser struct {
	ID        string `json:"_id"`
	AltID     string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type apiTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginData struct {
	User   apiUser   `json:"user"`
	Tokens apiTokens `json:"tokens"`
}

// refreshData accepts both {tokens:{...}} and a flat {accessToken, refreshToken}.
type refreshData struct {
	Tokens *apiTokens `json:"tokens"`
	apiTokens
}

// Login exchanges email and password for the user record and a token pair.
// POST /auth/login.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return ports.LoginResult{}, errors.New("email and password are required")
	}

	var data loginData
	body := map[string]string{"email": strings.TrimSpace(in.Email), "password": in.Password}
	if err := c.post(ctx, "/auth/login", "", body, &data); err != nil {
		return ports.LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if data.Tokens.AccessToken == "" || data.Tokens.RefreshToken == "" {
		return ports.LoginResult{}, errors.New("login: response missing tokens")
	}

	id := data.User.ID
	if id == "" {
		id = data.User.AltID
	}
	if id == "" {
		return ports.LoginResult{}, errors.New("login: response missing user")
	}

	return ports.LoginResult{
		User: domainauth.User{
			ID:        id,
			Email:     data.User.Email,
			FirstName: data.User.FirstName,
			LastName:  data.User.LastName,
			Role:      domainauth.Role(strings.ToLower(data.User.Role)),
		},
		Token: newToken(data.Tokens),
	}, nil
}

// Refresh trades a refresh token for a new token pair. Both tokens must be
// present and the envelope must report success.
// POST /auth/refresh-token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (oauth2.Token, error) {
	if refreshToken == "" {
		return oauth2.Token{}, errors.New("refresh token is required")
	}

	var data refreshData
	if err := c.post(ctx, "/auth/refresh-token", "", map[string]string{"refreshToken": refreshToken}, &data); err != nil {
		return oauth2.Token{}, fmt.Errorf("refresh: %w", err)
	}

	tokens := data.apiTokens
	if data.Tokens != nil {
		tokens = *data.Tokens
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return oauth2.Token{}, errors.New("refresh: response missing tokens")
	}
	return newToken(tokens), nil
}

// Logout revokes refreshToken at the backend.
// POST /auth/logout.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := c.post(ctx, "/auth/logout", accessToken, map[string]string{"refreshToken": refreshToken}, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func newToken(t apiTokens) oauth2.Token {
	tok := oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, ok := util.TokenExpiry(t.AccessToken); ok {
		tok.Expiry = exp
	}
	return tok
}

// post sends a JSON body and decodes the envelope's data field into out (when non-nil).
// A 2xx envelope with success:false is an error whenever out is requested.
func (c *Client) post(ctx context.Context, path, bearer string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env model.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Request failed"
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Request failed"
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	if len(env.Data) == 0 {
		return errors.New("decode response: missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
