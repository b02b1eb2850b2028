package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// UpdateService tracks the latest deployed version of the site. It polls the
// version feed once at startup and then on a fixed interval; feed failures are
// ignored and retried on the next cycle.
type UpdateService struct {
	source       driven.VersionSource
	buildVersion string
	interval     time.Duration
	refreshCh    chan chan error

	mu        sync.RWMutex
	latest    string
	checkedAt time.Time
}

// NewUpdateService creates an UpdateService. source may be nil, in which case
// the build version of this server is the latest known version.
func NewUpdateService(source driven.VersionSource, buildVersion string, interval time.Duration) *UpdateService {
	return &UpdateService{
		source:       source,
		buildVersion: buildVersion,
		interval:     interval,
		refreshCh:    make(chan chan error),
	}
}

// Start begins the polling loop. It checks immediately, then on the
// configured interval, and serves manual Refresh requests. Start blocks until
// the context is canceled.
func (s *UpdateService) Start(ctx context.Context) {
	if s.source == nil {
		slog.Info("no version feed configured, update checks use the build version")
		<-ctx.Done()
		return
	}

	_ = s.check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("update service stopped")
			return
		case <-ticker.C:
			_ = s.check(ctx)
		case done := <-s.refreshCh:
			done <- s.check(ctx)
		}
	}
}

// Refresh triggers an immediate feed check, bypassing the interval. It blocks
// until the check completes or the context is canceled.
func (s *UpdateService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- done:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BuildVersion returns the version this server was built with.
func (s *UpdateService) BuildVersion() string {
	return s.buildVersion
}

// Latest returns the newest known deployed version. Before the first
// successful check this is the build version.
func (s *UpdateService) Latest() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == "" {
		return s.buildVersion
	}
	return s.latest
}

// CheckedAt returns when the feed was last read successfully.
func (s *UpdateService) CheckedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkedAt
}

// UpdateAvailable reports whether a page rendered at pageVersion is stale. A
// request that does not say which version it was rendered at is never stale.
func (s *UpdateService) UpdateAvailable(pageVersion string) bool {
	if strings.TrimSpace(pageVersion) == "" {
		return false
	}
	return model.NeedsUpdate(pageVersion, s.Latest())
}

func (s *UpdateService) check(ctx context.Context) error {
	version, err := s.source.LatestVersion(ctx)
	if err != nil {
		slog.Debug("version check failed", "error", err)
		return err
	}

	version = strings.TrimSpace(version)
	if version == "" {
		return nil
	}

	s.mu.Lock()
	previous := s.latest
	s.latest = version
	s.checkedAt = time.Now().UTC()
	s.mu.Unlock()

	if previous != version && model.NeedsUpdate(s.buildVersion, version) {
		slog.Info("newer version deployed", "build_version", s.buildVersion, "latest_version", version)
	}
	return nil
}
