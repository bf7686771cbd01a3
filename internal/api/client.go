// Package api is the typed HTTP client for the pattern verification service.
//
// All status interpretation happens here: a non-2xx response becomes an
// *APIError and a request that never got a response becomes a *TransportError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxErrorBody bounds how much of a failed response is read for its detail.
const maxErrorBody = 64 << 10

// Client issues requests against one service base URL.
type Client struct {
	httpClient *http.Client
	requestID  func() string
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		requestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL for a service path.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// FetchJSON issues a GET and decodes the JSON body into out.
func (c *Client) FetchJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// PostJSON issues a POST with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json", out)
}

// PostForm issues a multipart POST.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, contentType, out)
}

// PatchJSON issues a PATCH with body encoded as JSON.
func (c *Client) PatchJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPatch, path, bytes.NewReader(payload), "application/json", out)
}

// DeleteResource issues a DELETE. out may be nil.
func (c *Client) DeleteResource(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

// Download streams the raw body of a GET into w and returns the bytes written.
// progress, when non-nil, is called once with the announced content length
// (-1 if unknown) before copying.
func (c *Client) Download(ctx context.Context, path string, w io.Writer, progress func(total int64) io.Writer) (int64, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	dst := w
	if progress != nil {
		if pw := progress(resp.ContentLength); pw != nil {
			dst = io.MultiWriter(w, pw)
		}
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// send performs the request and turns transport failures and non-2xx
// statuses into typed errors. On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("api request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	slog.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newAPIError(resp.StatusCode, errBody)
	}

	return resp, nil
}
