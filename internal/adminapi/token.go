package adminapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// TokenSource yields the anti-forgery token for the next mutating request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrMissingToken
	}
	return string(s), nil
}

// PageTokenSource fetches a form page and reads its hidden token input,
// falling back to the token cookie set by the server.
type PageTokenSource struct {
	client *Client
	path   func() string
}

// Token implements TokenSource. Every call refetches the page.
func (p *PageTokenSource) Token(ctx context.Context) (string, error) {
	page := p.client.URL(p.path())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	resp, err := p.client.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		token, err := ExtractToken(resp.Body)
		if err != nil {
			return "", fmt.Errorf("parse token page: %w", err)
		}
		if token != "" {
			return token, nil
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	if token := p.cookieToken(page); token != "" {
		return token, nil
	}
	return "", ErrMissingToken
}

func (p *PageTokenSource) cookieToken(page string) string {
	if p.client.http.Jar == nil {
		return ""
	}
	u, err := url.Parse(page)
	if err != nil {
		return ""
	}
	for _, c := range p.client.http.Jar.Cookies(u) {
		if c.Name == csrfCookie {
			return c.Value
		}
	}
	return ""
}

// ExtractToken returns the value of the first hidden token input in an HTML
// document, or "" when the document has none.
func ExtractToken(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	return findToken(doc), nil
}

func findToken(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "input" {
		var name, value string
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "name":
				name = a.Val
			case "value":
				value = a.Val
			}
		}
		if name == csrfFormField && value != "" {
			return value
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if token := findToken(c); token != "" {
			return token
		}
	}
	return ""
}
