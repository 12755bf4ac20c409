// Package adminapi talks to the management application's admin endpoints.
package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/forms"
	"github.com/opencode-ai/oficina/internal/logging"
)

const (
	csrfHeader    = "X-CSRFToken"
	csrfFormField = "csrfmiddlewaretoken"
	csrfCookie    = "csrftoken"
	formMediaType = "application/x-www-form-urlencoded"
)

// Client errors.
var (
	ErrMissingToken    = errors.New("anti-forgery token not found")
	ErrInvalidResponse = errors.New("invalid response")
)

// Paths are endpoint paths relative to the base URL.
type Paths struct {
	Login        string
	Settings     string
	Cleanup      string
	ExportUsers  string
	SecurityLogs string
}

// DefaultPaths returns the management application's routes.
func DefaultPaths() Paths {
	return Paths{
		Login:        "/login/",
		Settings:     "/configuracoes/",
		Cleanup:      "/limpar-dados/",
		ExportUsers:  "/exportar-usuarios/",
		SecurityLogs: "/admin/security-logs/",
	}
}

// Client is an authenticated session against the admin endpoints.
type Client struct {
	BaseURL string
	Paths   Paths

	http   *http.Client
	tokens TokenSource
	logger zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. A client without a cookie jar gets one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource replaces the page-scraping token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		if ts != nil {
			c.tokens = ts
		}
	}
}

// WithPaths overrides DefaultPaths.
func WithPaths(p Paths) Option {
	return func(c *Client) { c.Paths = p }
}

// New constructs a client with defaults applied. Requests carry no timeout;
// callers bound them with a context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Paths:   DefaultPaths(),
		logger:  logging.Component("adminapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c.http.Jar = jar
	}
	if c.tokens == nil {
		c.tokens = &PageTokenSource{client: c, path: func() string { return c.Paths.Settings }}
	}
	return c
}

// URL resolves a path against the base URL.
func (c *Client) URL(path string) string {
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// Login authenticates the session with the login form.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is required")
	}
	loginPage := &PageTokenSource{client: c, path: func() string { return c.Paths.Login }}
	token, err := loginPage.Token(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set(csrfFormField, token)

	resp, body, err := c.postForm(ctx, c.Paths.Login, form, token)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := checkStatus(resp, body); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	// A failed login re-renders the login page instead of redirecting.
	if resp.Request != nil && strings.TrimRight(resp.Request.URL.Path, "/") == strings.TrimRight(c.Paths.Login, "/") {
		return errors.New("login: credentials rejected")
	}
	c.logger.Info().Str("user", username).Msg("logged in")
	return nil
}

// Cleanup implements danger.Client. The anti-forgery token is read fresh on
// every call.
func (c *Client) Cleanup(ctx context.Context, req danger.Request) (danger.Result, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return danger.Result{}, err
	}

	form := url.Values{}
	form.Set("tipo", string(req.Kind))
	if req.Kind == danger.KindFullReset {
		form.Set("confirmacao", req.Confirmation)
	}

	resp, body, err := c.postForm(ctx, c.Paths.Cleanup, form, token)
	if err != nil {
		return danger.Result{}, err
	}

	var result danger.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return danger.Result{}, fmt.Errorf("%w (%s): %s", ErrInvalidResponse, resp.Status, snippet(body, resp.Status))
	}

	c.logger.Debug().
		Str("kind", string(req.Kind)).
		Int("status", resp.StatusCode).
		Bool("success", result.Success).
		Msg("cleanup response")
	return result, nil
}

// ChangePassword implements forms.PasswordSubmitter.
func (c *Client) ChangePassword(ctx context.Context, change forms.PasswordChange) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("acao", "alterar_senha")
	form.Set("senha_atual", change.Current)
	form.Set("nova_senha", change.New)
	form.Set("confirmar_senha", change.Confirmation)
	form.Set(csrfFormField, token)

	resp, body, err := c.postForm(ctx, c.Paths.Settings, form, token)
	if err != nil {
		return err
	}
	return checkStatus(resp, body)
}

// ExportUsers streams the user CSV export to w and returns the bytes written.
func (c *Client) ExportUsers(ctx context.Context, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(c.Paths.ExportUsers), nil)
	if err != nil {
		return 0, fmt.Errorf("build export request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call export endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("export failed (%s): %s", resp.Status, snippet(body, resp.Status))
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("write export: %w", err)
	}
	return n, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, token string) (*http.Response, []byte, error) {
	target := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", formMediaType)
	req.Header.Set(csrfHeader, token)
	req.Header.Set("Referer", c.URL(c.Paths.Settings))
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, body, nil
}

func checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (%s): %s", resp.Status, snippet(body, resp.Status))
	}
	return nil
}

func snippet(body []byte, fallback string) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fallback
	}
	const max = 200
	if len(text) > max {
		text = text[:max] + "..."
	}
	return text
}
