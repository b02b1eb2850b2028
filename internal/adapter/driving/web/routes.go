package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web routes on the provided mux.
// Pages resolve the viewer from the session cookie; static assets are served
// from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	page := func(f http.HandlerFunc) http.Handler { return h.WithViewer(f) }

	// Page routes.
	mux.Handle("GET /{$}", page(h.Home))
	mux.Handle("GET /p/{slug}", page(h.Landing))
	mux.Handle("GET /p/{slug}/preview", page(h.Preview))
	mux.Handle("GET /offer", page(h.Offer))
	mux.Handle("GET /login", page(h.LoginForm))
	mux.Handle("POST /login", page(h.Login))
	mux.Handle("POST /logout", page(h.Logout))

	// HTMX fragments and actions.
	mux.HandleFunc("GET /offer/carousel/{section}", h.OfferCarousel)
	mux.HandleFunc("GET /app/update-banner", h.UpdateBanner)
	mux.HandleFunc("POST /app/refresh", h.Refresh)

	// Intro channel.
	mux.HandleFunc("GET /p/{slug}/intro", h.IntroSocket)
}
