package driven

import "context"

// VersionSource defines the driven port for the deployed-version feed.
type VersionSource interface {
	LatestVersion(ctx context.Context) (string, error)
}
