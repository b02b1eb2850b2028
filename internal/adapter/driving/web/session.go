package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

const sessionCookieName = "sp_session"

// WithViewer resolves the session cookie and attaches the viewer to the
// request context. Unknown or expired sessions clear the cookie and continue
// anonymously.
func (h *Handler) WithViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		viewer, err := h.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, driven.ErrSessionNotFound) {
				h.logger.Error("session lookup failed", "error", err)
			}
			clearSessionCookie(w, h.opts.SecureCookies)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(application.WithViewer(r.Context(), viewer)))
	})
}

func setSessionCookie(w http.ResponseWriter, id string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
