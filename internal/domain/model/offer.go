package model

// OfferCard is a single slide of an offer carousel.
type OfferCard struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// FAQEntry is a question with a markdown answer.
type FAQEntry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Contact holds the sales contact shown at the bottom of the one-pager.
type Contact struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

// OfferSection names a carousel section of the one-pager.
type OfferSection string

const (
	OfferSectionBenefits OfferSection = "benefits"
	OfferSectionSteps    OfferSection = "steps"
	OfferSectionProfit   OfferSection = "profit"
)

// Offer is the B2B one-pager content.
type Offer struct {
	Headline string      `yaml:"headline"`
	Lead     string      `yaml:"lead"`
	Benefits []OfferCard `yaml:"benefits"`
	Steps    []OfferCard `yaml:"steps"`
	Profit   []OfferCard `yaml:"profit"`
	FAQ      []FAQEntry  `yaml:"faq"`
	Contact  Contact     `yaml:"contact"`
}

// Cards returns the slides of the given section, or nil for an unknown one.
func (o Offer) Cards(section OfferSection) []OfferCard {
	switch section {
	case OfferSectionBenefits:
		return o.Benefits
	case OfferSectionSteps:
		return o.Steps
	case OfferSectionProfit:
		return o.Profit
	default:
		return nil
	}
}

// StoryPage is one page of the sample story shown on the preview page. Body is
// markdown and may contain the {{partner}} and {{partner_genitive}} tokens.
type StoryPage struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}
