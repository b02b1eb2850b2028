package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by SessionStore writes when
// STORYPARTNER_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set STORYPARTNER_SECRET_KEY")

// ErrSessionNotFound indicates the session does not exist or has expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore defines the driven port for server-side session persistence.
// The adapter is responsible for encrypting the access token at rest; this
// interface operates on plaintext values at the domain boundary.
type SessionStore interface {
	Create(ctx context.Context, session model.Session) error
	// Get returns (nil, nil) if no session exists for id.
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions that expired before the store's clock and
	// returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
