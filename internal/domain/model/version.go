package model

import "strings"

// VersionInfo is the payload of the version feed.
type VersionInfo struct {
	Version string `json:"version"`
}

// NeedsUpdate reports whether a page built at current should offer a refresh
// to latest. An unknown latest version never triggers an update.
func NeedsUpdate(current, latest string) bool {
	latest = strings.TrimSpace(latest)
	if latest == "" {
		return false
	}
	return strings.TrimSpace(current) != latest
}
