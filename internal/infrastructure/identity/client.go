// Package identity is the HTTP client for the external users service that
// owns OAuth sign-in and provider-side sessions.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseBody = 1 << 20
	apiKeyHeader    = "x-api-key"
)

// Config holds the users service connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// RedirectURL returns the provider's OAuth authorization URL.
func (c *Client) RedirectURL(ctx context.Context, provider string) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/oauth/"+url.PathEscape(provider)+"/redirect_url", "", nil)
	if err != nil {
		return "", err
	}
	redirect := firstString(body, "redirect_url", "redirectUrl")
	if redirect == "" {
		return "", fmt.Errorf("%w: redirect url missing from response", domain.ErrIdentityUnavailable)
	}
	return redirect, nil
}

// ExchangeCode trades an OAuth authorization code for a provider session token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/sessions", "", map[string]string{"code": code})
	if err != nil {
		return "", err
	}
	token := firstString(body, "session_token", "sessionToken")
	if token == "" {
		return "", fmt.Errorf("%w: session token missing from response", domain.ErrIdentityUnavailable)
	}
	return token, nil
}

// FetchUser resolves the profile behind a provider session token.
func (c *Client) FetchUser(ctx context.Context, sessionToken string) (*domain.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/me", sessionToken, nil)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:      firstString(body, "id"),
		Email:   firstString(body, "email"),
		Name:    firstString(body, "google_user_data.name", "name"),
		Picture: firstString(body, "google_user_data.picture", "picture"),
	}
	if user.ID == "" {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// DeleteSession ends the provider session.
func (c *Client) DeleteSession(ctx context.Context, sessionToken string) error {
	_, err := c.do(ctx, http.MethodDelete, "/sessions", sessionToken, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrIdentityUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrIdentityUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, errorMessage(body, resp.StatusCode))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, errorMessage(body, resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound && path == "/users/me":
		return nil, domain.ErrUserNotFound
	default:
		return nil, fmt.Errorf("%w: %s %s: %s", domain.ErrIdentityUnavailable, method, path, errorMessage(body, resp.StatusCode))
	}
}

func firstString(body []byte, paths ...string) string {
	for _, p := range paths {
		if v := gjson.GetBytes(body, p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func errorMessage(body []byte, status int) string {
	if msg := firstString(body, "error.message", "error", "message"); msg != "" {
		return msg
	}
	return fmt.Sprintf("status %d", status)
}
