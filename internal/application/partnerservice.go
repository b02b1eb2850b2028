// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,62}[a-z0-9])?$`)

// ValidSlug reports whether slug is a well-formed partner slug.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// PartnerService resolves partners by URL slug.
type PartnerService struct {
	store driven.PartnerStore
}

// NewPartnerService creates a PartnerService backed by store.
func NewPartnerService(store driven.PartnerStore) *PartnerService {
	return &PartnerService{store: store}
}

// Lookup returns the partner for slug, or (nil, nil) when the slug is
// malformed or unknown. Errors are store failures; callers treat them as a
// missing partner after logging.
func (s *PartnerService) Lookup(ctx context.Context, slug string) (*model.Partner, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !ValidSlug(slug) {
		return nil, nil
	}

	partner, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("lookup partner %s: %w", slug, err)
	}
	return partner, nil
}
