// Package files fetches stored documents through the authenticated
// indirection endpoint. Storage URLs are never dereferenced directly.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrUnauthorized = errors.New("file access unauthorized")
	ErrNotFound     = errors.New("file not found")
	ErrUnavailable  = errors.New("file service unavailable")
)

// TokenSource supplies the bearer credential and can mint a fresh one when
// the current credential is rejected.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// StaticToken adapts a fixed service credential to TokenSource.
type StaticToken string

func (t StaticToken) Token(_ context.Context) (string, error)   { return string(t), nil }
func (t StaticToken) Refresh(_ context.Context) (string, error) { return string(t), nil }

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// Result is a fetched document.
type Result struct {
	Content     []byte
	ContentType string
	FileName    string
}

// Fetch retrieves one document. A 401 triggers a single transparent
// credential refresh and retry before the failure is surfaced.
func (c *Client) Fetch(ctx context.Context, path string) (*Result, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain token: %w", err)
	}

	result, status, err := c.fetchOnce(ctx, path, token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: refresh failed: %v", ErrUnauthorized, err)
		}
		result, status, err = c.fetchOnce(ctx, path, token)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case status == http.StatusOK:
		return result, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrUnauthorized
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
}

func (c *Client) fetchOnce(ctx context.Context, path, token string) (*Result, int, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read file body: %w", err)
	}

	return &Result{
		Content:     content,
		ContentType: resp.Header.Get("Content-Type"),
		FileName:    fileNameFromDisposition(resp.Header.Get("Content-Disposition")),
	}, resp.StatusCode, nil
}

func fileNameFromDisposition(disposition string) string {
	const marker = `filename="`
	idx := strings.Index(disposition, marker)
	if idx < 0 {
		return ""
	}
	rest := disposition[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return rest
	}
	return rest[:end]
}
