// Package viewmodel defines presentation-ready structs for the page templates.
// View models decouple template rendering from domain model types.
package viewmodel

import (
	"html/template"

	"golang.org/x/text/message"
)

// Page holds the data shared by every full page: the layout chrome, the
// build version polled by the update banner and the viewer's sign-in state.
type Page struct {
	Title        string
	Lang         string
	BuildVersion string
	CSRFToken    string
	SignedIn     bool
	DisplayName  string
	HubURL       string
	Loc          *message.Printer
}

// T returns the localized message for key, or key itself without a printer.
func (p Page) T(key string, args ...any) string {
	if p.Loc == nil {
		return key
	}
	return p.Loc.Sprintf(key, args...)
}

// PartnerViewModel holds presentation-ready partner branding.
type PartnerViewModel struct {
	Slug         string
	Name         string
	GenitiveName string
	LogoURL      string
	HeroPhotoURL string
	PrimaryColor string
	AccentColor  string
	Active       bool
}

// LandingPage is the partner landing page with the optional theater intro.
type LandingPage struct {
	Page
	Partner PartnerViewModel

	// ShowTheater is true only when the partner has a voice-over; otherwise
	// the base hero is shown directly.
	ShowTheater     bool
	IntroSocketPath string

	HeroVideoURL       string
	HeroVideoMobileURL string
	CreatorURL         string
	PreviewPath        string
}

// NotFoundPage is rendered with HTTP 404 for an unknown partner slug.
type NotFoundPage struct {
	Page
	Slug string
}

// StoryPageViewModel is one sanitized page of the sample story.
type StoryPageViewModel struct {
	Number   int
	Title    string
	BodyHTML template.HTML
}

// PreviewPage shows the sample story personalised with the partner name.
type PreviewPage struct {
	Page
	Partner     PartnerViewModel
	Pages       []StoryPageViewModel
	LandingPath string
}

// OfferCardViewModel is a single carousel slide.
type OfferCardViewModel struct {
	Icon  string
	Title string
	Body  string
}

// CarouselDot is a direct-navigation control of a carousel.
type CarouselDot struct {
	Index  int
	Label  string
	URL    string
	Active bool
}

// CarouselViewModel is a carousel fragment. The fragment replaces itself on
// navigation, so it carries its own URLs and labels.
type CarouselViewModel struct {
	Section string
	Title   string
	Index   int
	Count   int
	Card    OfferCardViewModel
	PrevURL string
	NextURL string
	// SwipeURL receives the touch delta as the swipe parameter.
	SwipeURL       string
	PrevLabel      string
	NextLabel      string
	SwipeThreshold int
	Dots           []CarouselDot
}

// FAQViewModel is an accordion entry with a sanitized markdown answer.
type FAQViewModel struct {
	ID         string
	Question   string
	AnswerHTML template.HTML
}

// ContactViewModel holds the sales contact.
type ContactViewModel struct {
	Name   string
	Email  string
	Phone  string
	MailTo string
}

// OfferPage is the B2B one-pager.
type OfferPage struct {
	Page
	Headline  string
	Lead      string
	Carousels []CarouselViewModel
	FAQ       []FAQViewModel
	Contact   ContactViewModel
}

// LoginPage is the sign-in form. Error is already localized.
type LoginPage struct {
	Page
	Email string
	Next  string
	Error string
}

// UpdateBanner is the fragment polled by every page. It renders nothing when
// Visible is false.
type UpdateBanner struct {
	Visible    bool
	Latest     string
	Message    string
	Action     string
	RefreshURL string
}
