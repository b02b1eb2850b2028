// Package templates exposes the site's pages and fragments as templ
// components. Markup lives in embedded html/template files; each page is
// parsed together with the shared layout and partials.
package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/storypartner/internal/adapter/driving/web/viewmodel"
)

//go:embed html/*.html
var htmlFS embed.FS

// partials are parsed into every page set.
var partials = []string{"html/layout.html", "html/carousel.html"}

var (
	landingTmpl  = mustPage("landing.html")
	notFoundTmpl = mustPage("not_found.html")
	previewTmpl  = mustPage("preview.html")
	offerTmpl    = mustPage("offer.html")
	loginTmpl    = mustPage("login.html")

	carouselTmpl     = mustFragment("carousel", "html/carousel.html")
	updateBannerTmpl = mustFragment("update_banner", "html/update_banner.html")
)

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// mustPage parses the layout, the partials and one page file and returns the
// layout template, which renders the page's "content" block.
func mustPage(page string) *template.Template {
	files := append(append([]string{}, partials...), "html/"+page)
	t := template.Must(template.New(page).Funcs(funcs).ParseFS(htmlFS, files...))
	return t.Lookup("layout")
}

// mustFragment parses a standalone fragment and returns the named block.
func mustFragment(name string, files ...string) *template.Template {
	t := template.Must(template.New(name).Funcs(funcs).ParseFS(htmlFS, files...))
	return t.Lookup(name)
}

// Landing renders the partner landing page.
func Landing(p vm.LandingPage) templ.Component {
	return templ.FromGoHTML(landingTmpl, p)
}

// NotFound renders the unknown-partner page.
func NotFound(p vm.NotFoundPage) templ.Component {
	return templ.FromGoHTML(notFoundTmpl, p)
}

// Preview renders the sample story page.
func Preview(p vm.PreviewPage) templ.Component {
	return templ.FromGoHTML(previewTmpl, p)
}

// Offer renders the B2B one-pager.
func Offer(p vm.OfferPage) templ.Component {
	return templ.FromGoHTML(offerTmpl, p)
}

// Login renders the sign-in form.
func Login(p vm.LoginPage) templ.Component {
	return templ.FromGoHTML(loginTmpl, p)
}

// Carousel renders a single carousel as an HTMX swap target.
func Carousel(c vm.CarouselViewModel) templ.Component {
	return templ.FromGoHTML(carouselTmpl, c)
}

// UpdateBanner renders the update notice fragment.
func UpdateBanner(b vm.UpdateBanner) templ.Component {
	return templ.FromGoHTML(updateBannerTmpl, b)
}
