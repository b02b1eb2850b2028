package application

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

//go:embed content/*.yaml
var contentFS embed.FS

// Story body tokens replaced with the partner's names.
const (
	partnerToken         = "{{partner}}"
	partnerGenitiveToken = "{{partner_genitive}}"
)

// OfferService serves the B2B one-pager content and the sample story.
type OfferService struct {
	offer model.Offer
	story []model.StoryPage
}

// NewOfferService loads the embedded offer and story content.
func NewOfferService() (*OfferService, error) {
	var offer model.Offer
	if err := readContent("content/offer.yaml", &offer); err != nil {
		return nil, err
	}

	var story []model.StoryPage
	if err := readContent("content/story.yaml", &story); err != nil {
		return nil, err
	}

	return &OfferService{offer: offer, story: story}, nil
}

func readContent(path string, target any) error {
	data, err := contentFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Offer returns the one-pager content.
func (s *OfferService) Offer() model.Offer {
	return s.offer
}

// Navigate resolves a carousel move within section. dir is "next", "prev" or
// empty to go to index directly. ok is false for an unknown section.
func (s *OfferService) Navigate(section model.OfferSection, index int, dir string) (carousel model.Carousel, cards []model.OfferCard, ok bool) {
	cards = s.offer.Cards(section)
	if cards == nil {
		return model.Carousel{}, nil, false
	}

	carousel = model.NewCarousel(len(cards), index)
	switch dir {
	case "next":
		carousel = carousel.Next()
	case "prev":
		carousel = carousel.Prev()
	}
	return carousel, cards, true
}

// Story returns the sample story personalised for partner.
func (s *OfferService) Story(partner model.Partner) []model.StoryPage {
	r := strings.NewReplacer(
		partnerGenitiveToken, partner.GenitiveName(),
		partnerToken, partner.Name,
	)

	pages := make([]model.StoryPage, 0, len(s.story))
	for _, p := range s.story {
		pages = append(pages, model.StoryPage{
			Title: p.Title,
			Body:  r.Replace(p.Body),
		})
	}
	return pages
}
