// Package api is the HTTP client for the remote tracking service. It speaks
// plain JSON over REST and normalizes every response through the adapt
// package, so callers only ever see strict core records. Failures surface as
// typed errors; there are no retries and no caching here.
package api

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

	"hourtracker/internal/track"
)

const defaultTimeout = 15 * time.Second

// Client issues requests against the remote service's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure interface conformance
var (
	_ track.ProjectLister = (*Client)(nil)
	_ track.ProjectWriter = (*Client)(nil)
	_ track.ClientLister  = (*Client)(nil)
	_ track.ClientWriter  = (*Client)(nil)
	_ track.EntryLister   = (*Client)(nil)
	_ track.EntryWriter   = (*Client)(nil)
	_ track.EntryDeleter  = (*Client)(nil)
)

// NewClient creates an API client for the service at baseURL. A nil
// httpClient falls back to a default with a conservative timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("missing API base URL")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err is a 404 from the remote service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// do issues a request and decodes the JSON response into a dynamically typed
// payload for the adapters. Returns nil payload for 204 and empty bodies.
func (c *Client) do(ctx context.Context, method, path string, body any) (any, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if res.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// asObject coerces a decoded single-record payload into a raw object for the
// adapters; a non-object payload yields a nil map, which adapts to defaults.
func asObject(payload any) map[string]any {
	m, _ := payload.(map[string]any)
	return m
}
