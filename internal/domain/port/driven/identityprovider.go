package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// ErrInvalidCredentials indicates the identity provider rejected the email and
// password pair. Adapters must not reveal which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityProvider defines the driven port for password authentication.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*model.AuthSession, error)
	// SignOut revokes the access token. Providers without server-side state
	// may treat it as a no-op.
	SignOut(ctx context.Context, accessToken string) error
}
