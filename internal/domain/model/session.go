package model

import "time"

// AuthSession is the result of a successful sign-in against an identity
// provider.
type AuthSession struct {
	UserID      string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}

// Session is a server-side browser session. The access token is only kept so
// sign-out can be propagated to the identity provider.
type Session struct {
	ID          string
	UserID      string
	Email       string
	AccessToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Viewer is the application-scoped identity attached to a request. The zero
// value is an anonymous visitor.
type Viewer struct {
	SessionID string
	Profile   *Profile
}

// Authenticated reports whether the viewer has a signed-in profile.
func (v Viewer) Authenticated() bool {
	return v.SessionID != "" && v.Profile != nil
}
