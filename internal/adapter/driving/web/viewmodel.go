package web

import (
	"fmt"
	"net/url"
	"regexp"

	vm "github.com/ericfisherdev/storypartner/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// Brand colours used when a partner has none or an unusable one.
const (
	defaultPrimaryColor = "#3d2c8d"
	defaultAccentColor  = "#f4a261"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// offerSections lists the carousels of the one-pager in page order with their
// title message keys.
var offerSections = []struct {
	section model.OfferSection
	title   string
}{
	{model.OfferSectionBenefits, "offer.benefits"},
	{model.OfferSectionSteps, "offer.steps"},
	{model.OfferSectionProfit, "offer.profit"},
}

func safeColor(c, fallback string) string {
	if colorPattern.MatchString(c) {
		return c
	}
	return fallback
}

func partnerPath(slug string) string {
	return "/p/" + url.PathEscape(slug)
}

func toPartnerViewModel(p model.Partner) vm.PartnerViewModel {
	return vm.PartnerViewModel{
		Slug:         p.Slug,
		Name:         p.Name,
		GenitiveName: p.GenitiveName(),
		LogoURL:      p.LogoURL,
		HeroPhotoURL: p.HeroPhotoURL,
		PrimaryColor: safeColor(p.Theme.Primary, defaultPrimaryColor),
		AccentColor:  safeColor(p.Theme.Accent, defaultAccentColor),
		Active:       p.IsActive(),
	}
}

// creatorURL appends the partner slug to the creator flow link.
func creatorURL(base, slug string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("partner", slug)
	u.RawQuery = q.Encode()
	return u.String()
}

func toLandingPage(page vm.Page, p model.Partner, opts Options) vm.LandingPage {
	return vm.LandingPage{
		Page:               page,
		Partner:            toPartnerViewModel(p),
		ShowTheater:        p.HasVoiceOver(),
		IntroSocketPath:    partnerPath(p.Slug) + "/intro",
		HeroVideoURL:       opts.HeroVideoURL,
		HeroVideoMobileURL: opts.HeroVideoMobileURL,
		CreatorURL:         creatorURL(opts.CreatorURL, p.Slug),
		PreviewPath:        partnerPath(p.Slug) + "/preview",
	}
}

func toPreviewPage(page vm.Page, p model.Partner, story []model.StoryPage) vm.PreviewPage {
	pages := make([]vm.StoryPageViewModel, 0, len(story))
	for i, sp := range story {
		pages = append(pages, vm.StoryPageViewModel{
			Number:   i + 1,
			Title:    sp.Title,
			BodyHTML: markdownHTML(sp.Body),
		})
	}

	return vm.PreviewPage{
		Page:        page,
		Partner:     toPartnerViewModel(p),
		Pages:       pages,
		LandingPath: partnerPath(p.Slug),
	}
}

// toCarouselViewModel builds the fragment for the current slide. Every control
// links back to the carousel endpoint, which re-renders the fragment.
func toCarouselViewModel(section model.OfferSection, title string, c model.Carousel, cards []model.OfferCard, t func(string, ...any) string) vm.CarouselViewModel {
	base := "/offer/carousel/" + url.PathEscape(string(section))

	out := vm.CarouselViewModel{
		Section:        string(section),
		Title:          title,
		Index:          c.Index,
		Count:          c.Count,
		SwipeURL:       fmt.Sprintf("%s?i=%d", base, c.Index),
		PrevURL:        fmt.Sprintf("%s?i=%d", base, c.PrevIndex()),
		NextURL:        fmt.Sprintf("%s?i=%d", base, c.NextIndex()),
		PrevLabel:      t("carousel.prev"),
		NextLabel:      t("carousel.next"),
		SwipeThreshold: c.SwipeThreshold,
		Dots:           make([]vm.CarouselDot, 0, c.Count),
	}
	if c.Index >= 0 && c.Index < len(cards) {
		card := cards[c.Index]
		out.Card = vm.OfferCardViewModel{Icon: card.Icon, Title: card.Title, Body: card.Body}
	}
	for i := range c.Count {
		out.Dots = append(out.Dots, vm.CarouselDot{
			Index:  i,
			Label:  t("carousel.goto", i+1, c.Count),
			URL:    fmt.Sprintf("%s?i=%d", base, i),
			Active: i == c.Index,
		})
	}
	return out
}

func sectionTitleKey(section model.OfferSection) string {
	for _, s := range offerSections {
		if s.section == section {
			return s.title
		}
	}
	return string(section)
}

func toOfferPage(page vm.Page, offer model.Offer) vm.OfferPage {
	out := vm.OfferPage{
		Page:     page,
		Headline: offer.Headline,
		Lead:     offer.Lead,
		Contact: vm.ContactViewModel{
			Name:   offer.Contact.Name,
			Email:  offer.Contact.Email,
			Phone:  offer.Contact.Phone,
			MailTo: "mailto:" + offer.Contact.Email,
		},
	}

	for _, s := range offerSections {
		cards := offer.Cards(s.section)
		if len(cards) == 0 {
			continue
		}
		out.Carousels = append(out.Carousels,
			toCarouselViewModel(s.section, page.T(s.title), model.NewCarousel(len(cards), 0), cards, page.T))
	}

	for i, f := range offer.FAQ {
		out.FAQ = append(out.FAQ, vm.FAQViewModel{
			ID:         fmt.Sprintf("faq-%d", i+1),
			Question:   f.Question,
			AnswerHTML: markdownHTML(f.Answer),
		})
	}

	return out
}
