package driven

import (
	"context"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// ProfileStore defines the driven port for profile lookup. GetByUserID returns
// (nil, nil) when the user has no profile.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
}
