package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartner_HasVoiceOver(t *testing.T) {
	assert.True(t, Partner{HeroAudioURL: "https://cdn.example.com/vo.mp3"}.HasVoiceOver())
	assert.False(t, Partner{HeroAudioURL: "  "}.HasVoiceOver())
	assert.False(t, Partner{}.HasVoiceOver())
}

func TestPartner_GenitiveName(t *testing.T) {
	assert.Equal(t, "Kina Nowego", Partner{Name: "Kino Nowe", NameGenitive: "Kina Nowego"}.GenitiveName())
	assert.Equal(t, "Kino Nowe", Partner{Name: "Kino Nowe"}.GenitiveName())
}

func TestPartner_IsActive(t *testing.T) {
	assert.True(t, Partner{Status: PartnerStatusActive}.IsActive())
	assert.False(t, Partner{Status: PartnerStatusInactive}.IsActive())
	assert.False(t, Partner{}.IsActive())
}
