package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IdentityProvider = (*Identity)(nil)

// Identity signs users in with the backend password grant.
type Identity struct {
	client *Client
}

// NewIdentity creates an Identity using the given client.
func NewIdentity(client *Client) *Identity {
	return &Identity{client: client}
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// accessClaims is the subset of access-token claims the site relies on.
type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SignInWithPassword exchanges email and password for an access token. The
// backend's 400 and 401 responses map to ErrInvalidCredentials without
// passing on the backend message.
func (i *Identity) SignInWithPassword(ctx context.Context, email, password string) (*model.AuthSession, error) {
	var tok tokenResponse
	err := i.client.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		passwordGrant{Email: strings.TrimSpace(email), Password: password}, &tok)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusUnauthorized) {
			return nil, driven.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("sign in: empty access token")
	}

	claims, err := i.parseClaims(tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	session := &model.AuthSession{
		UserID:      claims.Subject,
		Email:       claims.Email,
		AccessToken: tok.AccessToken,
	}
	if session.UserID == "" {
		session.UserID = tok.User.ID
	}
	if session.Email == "" {
		session.Email = tok.User.Email
	}
	if session.UserID == "" {
		return nil, fmt.Errorf("sign in: access token has no subject")
	}

	switch {
	case claims.ExpiresAt != nil:
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	case tok.ExpiresIn > 0:
		session.ExpiresAt = i.client.now().Add(time.Duration(tok.ExpiresIn) * time.Second).UTC()
	}

	return session, nil
}

// SignOut revokes the access token on the backend. An already-expired token
// is not an error.
func (i *Identity) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	err := i.client.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
		return nil
	}
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// parseClaims reads the token claims, verifying the HS256 signature when a
// secret is configured.
func (i *Identity) parseClaims(token string) (*accessClaims, error) {
	var claims accessClaims

	if i.client.jwtSecret == nil {
		if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
			return nil, fmt.Errorf("parse access token: %w", err)
		}
		return &claims, nil
	}

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.client.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.client.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	return &claims, nil
}
