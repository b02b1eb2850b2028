// Package web implements the HTML driving adapter: partner landing pages, the
// offer one-pager, sign-in and the update banner, rendered as templ
// components, plus the intro websocket.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/storypartner/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/storypartner/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// Options configures the links and media the pages point at.
type Options struct {
	CreatorURL         string
	HubURL             string
	HeroVideoURL       string
	HeroVideoMobileURL string
	SecureCookies      bool
}

// Handler is the web driving adapter that serves HTML via templ components.
type Handler struct {
	partners *application.PartnerService
	sessions *application.SessionService
	intros   *application.IntroService
	updates  *application.UpdateService
	offer    *application.OfferService
	loc      *Localizer
	opts     Options
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	partners *application.PartnerService,
	sessions *application.SessionService,
	intros *application.IntroService,
	updates *application.UpdateService,
	offer *application.OfferService,
	loc *Localizer,
	opts Options,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		partners: partners,
		sessions: sessions,
		intros:   intros,
		updates:  updates,
		offer:    offer,
		loc:      loc,
		opts:     opts,
		logger:   logger,
	}
}

// page builds the layout data shared by every full page. It resolves the
// language, ensures the CSRF cookie and reads the viewer from the context.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, title string) vm.Page {
	tag, persist := resolveTag(r)
	if persist {
		setLanguageCookie(w, tag, h.opts.SecureCookies)
	}

	p := vm.Page{
		Lang:         tag.String(),
		BuildVersion: h.updates.BuildVersion(),
		CSRFToken:    csrfToken(w, r, h.opts.SecureCookies),
		HubURL:       h.opts.HubURL,
		Loc:          h.loc.Printer(tag),
	}
	p.Title = p.T(title)

	viewer := application.ViewerFrom(r.Context())
	if viewer.Authenticated() {
		p.SignedIn = true
		p.DisplayName = viewer.Profile.DisplayName
		if p.DisplayName == "" {
			p.DisplayName = viewer.Profile.Email
		}
	}
	return p
}

// render writes c with status. Rendering failures are logged and answered
// with a plain 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			h.logger.Error("failed to render", "path", r.URL.Path, "error", err)
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

// lookupPartner resolves the slug path value. Lookup failures are logged and
// treated as not found.
func (h *Handler) lookupPartner(ctx context.Context, slug string) *model.Partner {
	partner, err := h.partners.Lookup(ctx, slug)
	if err != nil {
		h.logger.Error("partner lookup failed", "slug", slug, "error", err)
		return nil
	}
	return partner
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, slug string) {
	p := h.page(w, r, "notfound.title")
	h.render(w, r, http.StatusNotFound, templates.NotFound(vm.NotFoundPage{Page: p, Slug: slug}))
}

// Home redirects to the offer one-pager.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/offer", http.StatusFound)
}

// Landing renders the partner landing page, or the not-found page with 404.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	partner := h.lookupPartner(r.Context(), slug)
	if partner == nil {
		h.notFound(w, r, slug)
		return
	}

	p := h.page(w, r, partner.Name)
	h.render(w, r, http.StatusOK, templates.Landing(toLandingPage(p, *partner, h.opts)))
}

// Preview renders the sample story personalised with the partner name.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	partner := h.lookupPartner(r.Context(), slug)
	if partner == nil {
		h.notFound(w, r, slug)
		return
	}

	p := h.page(w, r, partner.Name)
	h.render(w, r, http.StatusOK, templates.Preview(toPreviewPage(p, *partner, h.offer.Story(*partner))))
}

// Offer renders the B2B one-pager.
func (h *Handler) Offer(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "nav.offer")
	h.render(w, r, http.StatusOK, templates.Offer(toOfferPage(p, h.offer.Offer())))
}

// OfferCarousel renders one carousel fragment. Query parameters: i is the
// current index, dir is "next" or "prev", swipe is a touch delta in pixels.
func (h *Handler) OfferCarousel(w http.ResponseWriter, r *http.Request) {
	section := model.OfferSection(r.PathValue("section"))
	q := r.URL.Query()

	index, _ := strconv.Atoi(q.Get("i"))
	carousel, cards, ok := h.offer.Navigate(section, index, q.Get("dir"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if raw := q.Get("swipe"); raw != "" {
		if delta, err := strconv.Atoi(raw); err == nil {
			carousel = carousel.Swipe(delta)
		}
	}

	tag, _ := resolveTag(r)
	loc := h.loc.Printer(tag)
	t := func(key string, args ...any) string { return loc.Sprintf(key, args...) }
	h.render(w, r, http.StatusOK,
		templates.Carousel(toCarouselViewModel(section, t(sectionTitleKey(section)), carousel, cards, t)))
}

// LoginForm renders the sign-in form. Signed-in viewers are sent on.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	viewer := application.ViewerFrom(r.Context())
	next := r.URL.Query().Get("next")
	if viewer.Authenticated() {
		http.Redirect(w, r, loginDestination(viewer, next), http.StatusSeeOther)
		return
	}

	p := h.page(w, r, "login.title")
	h.render(w, r, http.StatusOK, templates.Login(vm.LoginPage{Page: p, Next: safeNext(next)}))
}

// Login handles the sign-in form. Any failure re-renders the form with a
// generic message and 401; the reason is only logged.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	next := safeNext(r.PostFormValue("next"))

	if !validateCSRF(r) {
		p := h.page(w, r, "login.title")
		h.render(w, r, http.StatusForbidden, templates.Login(vm.LoginPage{Page: p, Email: email, Next: next, Error: p.T("login.csrf")}))
		return
	}

	viewer, err := h.sessions.SignIn(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, driven.ErrInvalidCredentials) {
			h.logger.Error("sign in failed", "error", err)
		}
		p := h.page(w, r, "login.title")
		h.render(w, r, http.StatusUnauthorized, templates.Login(vm.LoginPage{Page: p, Email: email, Next: next, Error: p.T("login.error")}))
		return
	}

	setSessionCookie(w, viewer.SessionID, h.sessionMaxAge(), h.opts.SecureCookies)
	http.Redirect(w, r, loginDestination(viewer, next), http.StatusSeeOther)
}

// Logout ends the session and returns to the sign-in form.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	viewer := application.ViewerFrom(r.Context())
	if viewer.SessionID != "" {
		if err := h.sessions.SignOut(r.Context(), viewer.SessionID); err != nil {
			h.logger.Error("sign out failed", "error", err)
		}
	}

	clearSessionCookie(w, h.opts.SecureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// UpdateBanner renders the update notice when the page's build version (v)
// is behind the latest known version, and nothing otherwise.
func (h *Handler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	pageVersion := r.URL.Query().Get("v")
	tag, _ := resolveTag(r)
	loc := h.loc.Printer(tag)

	banner := vm.UpdateBanner{RefreshURL: "/app/refresh"}
	if h.updates.UpdateAvailable(pageVersion) {
		banner.Visible = true
		banner.Latest = h.updates.Latest()
		banner.Message = loc.Sprintf("update.available", banner.Latest)
		banner.Action = loc.Sprintf("update.refresh")
	}

	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, http.StatusOK, templates.UpdateBanner(banner))
}

// Refresh clears the browser's HTTP cache and storage (which also
// unregisters service workers) and asks HTMX to reload the page.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	w.Header().Set("Clear-Site-Data", `"cache", "storage"`)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) sessionMaxAge() time.Duration {
	return h.sessions.TTL()
}

// loginDestination picks where a signed-in viewer goes: their partner's page,
// else a safe local next path, else the offer.
func loginDestination(viewer model.Viewer, next string) string {
	if viewer.Profile != nil && viewer.Profile.PartnerSlug != "" {
		return partnerPath(viewer.Profile.PartnerSlug)
	}
	if next = safeNext(next); next != "" {
		return next
	}
	return "/offer"
}

// safeNext returns next if it is a local absolute path, and "" otherwise.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
