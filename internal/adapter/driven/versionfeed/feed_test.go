package versionfeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/storypartner/internal/adapter/driven/versionfeed"
)

func serve(t *testing.T, status int, body string) *versionfeed.Feed {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return versionfeed.NewWithHTTPClient(server.Client(), server.URL+"/version.json")
}

func TestFeed_LatestVersion(t *testing.T) {
	feed := serve(t, http.StatusOK, `{"version": " 9.9 "}`)

	v, err := feed.LatestVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9.9", v)
}

func TestFeed_LatestVersion_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "malformed json", status: http.StatusOK, body: `{"version":`},
		{name: "missing version", status: http.StatusOK, body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, tt.status, tt.body).LatestVersion(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFeed_New_ETagRevalidation(t *testing.T) {
	var full, notModified int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			notModified++
			w.WriteHeader(http.StatusNotModified)
			return
		}
		full++
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"1.0.0"}`))
	}))
	t.Cleanup(server.Close)

	feed := versionfeed.New(server.URL)
	for range 2 {
		v, err := feed.LatestVersion(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", v)
	}
	assert.Equal(t, 1, full)
	assert.Equal(t, 1, notModified)
}
