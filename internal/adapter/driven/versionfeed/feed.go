// Package versionfeed implements the VersionSource port by fetching the
// deployed version document over HTTP.
package versionfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VersionSource = (*Feed)(nil)

// Feed fetches a {"version": "..."} JSON document.
type Feed struct {
	url  string
	http *http.Client
}

// New creates a Feed for url. Requests revalidate with ETag through an
// in-memory cache so an unchanged document costs a 304.
func New(url string) *Feed {
	return NewWithHTTPClient(&http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
		Timeout:   10 * time.Second,
	}, url)
}

// NewWithHTTPClient creates a Feed with a custom http.Client.
func NewWithHTTPClient(client *http.Client, url string) *Feed {
	return &Feed{url: url, http: client}
}

// LatestVersion returns the version currently published by the feed.
func (f *Feed) LatestVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch version: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch version: status %d", resp.StatusCode)
	}

	// Read to EOF so the cache transport stores the body.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read version: %w", err)
	}

	var info model.VersionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("decode version: %w", err)
	}

	v := strings.TrimSpace(info.Version)
	if v == "" {
		return "", fmt.Errorf("decode version: empty version field")
	}
	return v, nil
}
