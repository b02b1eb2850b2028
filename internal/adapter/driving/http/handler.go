package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/storypartner/internal/application"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	partners *application.PartnerService
	updates  *application.UpdateService
	intros   *application.IntroService
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	partners *application.PartnerService,
	updates *application.UpdateService,
	intros *application.IntroService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		partners: partners,
		updates:  updates,
		intros:   intros,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes adds the API routes to mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/partners/{slug}", h.GetPartner)
	mux.HandleFunc("GET /version.json", h.Version)
}

// NewServeMux creates an http.Handler serving only the API, wrapped with
// logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return Wrap(logger, mux)
}

// Wrap applies the request logging and panic recovery middleware to next.
func Wrap(logger *slog.Logger, next http.Handler) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// GetPartner returns a single partner by slug.
func (h *Handler) GetPartner(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	partner, err := h.partners.Lookup(r.Context(), slug)
	if err != nil {
		h.logger.Error("failed to get partner", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if partner == nil {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}

	writeJSON(w, http.StatusOK, toPartnerResponse(*partner))
}

// Version reports the build version of this server. Pages poll it through
// the update feed, so it must never be cached.
func (h *Handler) Version(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, VersionResponse{Version: h.updates.BuildVersion()})
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Time:          h.now().UTC().Format(time.RFC3339),
		Version:       h.updates.BuildVersion(),
		LatestVersion: h.updates.Latest(),
		ActiveIntros:  h.intros.Active(),
	}
	if checked := h.updates.CheckedAt(); !checked.IsZero() {
		resp.VersionCheckedAt = checked.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}
