package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// SessionService owns the application-scoped session and profile context: it
// is created at startup, updated on sign-in and torn down on sign-out.
type SessionService struct {
	identity driven.IdentityProvider
	sessions driven.SessionStore
	profiles driven.ProfileStore
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a SessionService. Sessions live for ttl unless the
// identity provider's token expires sooner.
func NewSessionService(
	identity driven.IdentityProvider,
	sessions driven.SessionStore,
	profiles driven.ProfileStore,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		identity: identity,
		sessions: sessions,
		profiles: profiles,
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the maximum session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// SignIn authenticates against the identity provider, persists a server-side
// session and loads the user's profile. A missing profile is not an error:
// the returned viewer then has an empty profile for the user.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (model.Viewer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return model.Viewer{}, driven.ErrInvalidCredentials
	}

	auth, err := s.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return model.Viewer{}, fmt.Errorf("sign in %s: %w", email, err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	if !auth.ExpiresAt.IsZero() && auth.ExpiresAt.Before(expiresAt) {
		expiresAt = auth.ExpiresAt.UTC()
	}

	session := model.Session{
		ID:          uuid.NewString(),
		UserID:      auth.UserID,
		Email:       auth.Email,
		AccessToken: auth.AccessToken,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return model.Viewer{}, fmt.Errorf("create session: %w", err)
	}

	slog.Info("user signed in", "user_id", auth.UserID)

	return model.Viewer{SessionID: session.ID, Profile: s.loadProfile(ctx, session)}, nil
}

// Resolve returns the viewer for a session ID. Unknown or expired sessions
// resolve to an anonymous viewer with ErrSessionNotFound.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (model.Viewer, error) {
	if sessionID == "" {
		return model.Viewer{}, driven.ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return model.Viewer{}, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return model.Viewer{}, driven.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			slog.Error("failed to delete expired session", "error", err)
		}
		return model.Viewer{}, driven.ErrSessionNotFound
	}

	return model.Viewer{SessionID: session.ID, Profile: s.loadProfile(ctx, *session)}, nil
}

// SignOut deletes the session and revokes its token at the identity
// provider. Revocation failures are logged; the local session is always gone.
func (s *SessionService) SignOut(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if session.AccessToken != "" {
		if err := s.identity.SignOut(ctx, session.AccessToken); err != nil {
			slog.Error("identity sign-out failed", "user_id", session.UserID, "error", err)
		}
	}

	slog.Info("user signed out", "user_id", session.UserID)
	return nil
}

// StartJanitor removes expired sessions every interval until ctx is canceled.
func (s *SessionService) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.DeleteExpired(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}

// loadProfile degrades to a minimal profile when the lookup fails.
func (s *SessionService) loadProfile(ctx context.Context, session model.Session) *model.Profile {
	fallback := &model.Profile{UserID: session.UserID, Email: session.Email, Role: model.RolePartner}

	profile, err := s.profiles.GetByUserID(ctx, session.UserID)
	if err != nil {
		slog.Error("profile lookup failed", "user_id", session.UserID, "error", err)
		return fallback
	}
	if profile == nil {
		return fallback
	}
	return profile
}
