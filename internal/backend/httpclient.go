// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// API paths. They are fixed by the Legal Toolkit web portal.
const (
	PathLogin   = "/auth/login"
	PathProfile = "/user/profile"
	PathHealth  = "/health"
)

// HTTP implements API over the REST endpoints.
// It is safe for concurrent use; nothing on it changes after construction.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:8000")
	baseURL string
	// userAgent is sent on every request
	userAgent string
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// Option customises the HTTP client.
type Option func(*HTTP)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) { h.client.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) { h.userAgent = ua }
}

// WithHTTPClient replaces the underlying client, e.g. with an httptest server's.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

// New creates an HTTP API client for baseURL.
// It configures a 10-second timeout unless an option says otherwise.
func New(baseURL string, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "authbridge",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseURL returns the normalised base URL.
func (h *HTTP) BaseURL() string { return h.baseURL }

// Health calls GET /health. No authentication required.
func (h *HTTP) Health(ctx context.Context) error {
	req, err := h.newRequest(ctx, http.MethodGet, PathHealth, nil)
	if err != nil {
		return err
	}
	resp, err := h.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.Status(resp.StatusCode, "health check failed")
	}
	return nil
}

func (h *HTTP) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Network, "build "+method+" "+path, err)
	}
	h.setStandardHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// setStandardHeaders adds the headers every API call carries.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
}

// do sends req and classifies transport failures as network errors.
func (h *HTTP) do(req *http.Request) (*http.Response, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Network, req.Method+" "+req.URL.Path, err)
	}
	return resp, nil
}

// decode reads a JSON body into out, reporting mismatches as parse errors.
func decode(r io.Reader, out any, what string) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.Parse, "failed to parse "+what, err)
	}
	return nil
}

// errorDetail extracts the human-readable reason from an error body.
// FastAPI answers {"detail": "..."}; validation failures carry a list there,
// in which case the raw body is more useful.
func errorDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Detail.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "Unknown error"
	}
	return text
}
