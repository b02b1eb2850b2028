package model

import "strings"

// PartnerStatus gates access to the downstream story creator flow.
type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
)

// Theme holds the partner's brand colours as CSS colour strings.
type Theme struct {
	Primary string
	Accent  string
}

// Partner is an entertainment venue selling personalized storybooks. Partners
// are addressed by their URL slug.
type Partner struct {
	Slug string
	Name string
	// NameGenitive is the Polish genitive form of Name ("dla Kina Nowego"),
	// used when the name is interpolated into running text.
	NameGenitive string
	HeroAudioURL string
	HeroPhotoURL string
	LogoURL      string
	Theme        Theme
	Status       PartnerStatus
}

// HasVoiceOver reports whether the partner has a hero intro voice-over, which
// is what enables the theater intro on the landing page.
func (p Partner) HasVoiceOver() bool {
	return strings.TrimSpace(p.HeroAudioURL) != ""
}

// IsActive reports whether the creator flow is open for this partner.
func (p Partner) IsActive() bool {
	return p.Status == PartnerStatusActive
}

// GenitiveName returns NameGenitive, falling back to Name when no inflected
// form was recorded.
func (p Partner) GenitiveName() string {
	if g := strings.TrimSpace(p.NameGenitive); g != "" {
		return g
	}
	return p.Name
}
