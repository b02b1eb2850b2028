// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// ErrPartnerNotFound is returned by PartnerWriter.Remove when no partner
// matches the slug.
var ErrPartnerNotFound = errors.New("partner not found")

// PartnerStore defines the driven port for partner lookup. GetBySlug returns
// (nil, nil) when no partner matches the slug.
type PartnerStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.Partner, error)
}

// PartnerWriter is implemented by stores that can be seeded locally.
type PartnerWriter interface {
	Upsert(ctx context.Context, partner model.Partner) error
	Remove(ctx context.Context, slug string) error
}
