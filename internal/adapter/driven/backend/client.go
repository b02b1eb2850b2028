// Package backend implements the partner, profile and identity ports against
// a hosted backend-as-a-service exposing PostgREST-style tables and a
// password token endpoint.
package backend

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

	"github.com/gregjones/httpcache"
)

// requestTimeout bounds every backend call alongside context cancellation.
const requestTimeout = 15 * time.Second

// Client is a thin REST client for the hosted backend. Table reads go through
// an in-memory HTTP cache so that ETag and Cache-Control headers sent by the
// backend avoid refetching unchanged partner rows.
type Client struct {
	baseURL   string
	anonKey   string
	jwtSecret []byte
	http      *http.Client
	now       func() time.Time
}

// NewClient creates a Client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. http.DefaultTransport
//
// jwtSecret may be empty, in which case access-token claims are read without
// signature verification; the token was just issued over TLS by the backend.
func NewClient(baseURL, anonKey, jwtSecret string) *Client {
	return NewClientWithHTTPClient(
		&http.Client{Transport: httpcache.NewMemoryCacheTransport(), Timeout: requestTimeout},
		baseURL, anonKey, jwtSecret,
	)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, anonKey, jwtSecret string) *Client {
	var secret []byte
	if jwtSecret != "" {
		secret = []byte(jwtSecret)
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		jwtSecret: secret,
		http:      httpClient,
		now:       time.Now,
	}
}

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// selectOne queries a table with a single equality filter and decodes the
// JSON array response into dst.
func (c *Client) selectOne(ctx context.Context, table, column, value string, dst any) error {
	q := url.Values{}
	q.Set(column, "eq."+value)
	q.Set("select", "*")
	q.Set("limit", "1")

	return c.do(ctx, http.MethodGet, "/rest/v1/"+table+"?"+q.Encode(), "", nil, dst)
}

// do performs a request against the backend. bearer overrides the anon key in
// the Authorization header when non-empty. A nil dst discards the body.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       strings.SplitN(path, "?", 2)[0],
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	// Read to EOF so the cache transport stores the body.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if dst == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// readErrorMessage extracts a human-readable message from the error bodies
// the backend returns ({"message"}, {"error_description"} or {"msg"}).
func readErrorMessage(r io.Reader) string {
	var body struct {
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	switch {
	case body.ErrorDescription != "":
		return body.ErrorDescription
	case body.Message != "":
		return body.Message
	default:
		return body.Msg
	}
}
