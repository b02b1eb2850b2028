package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

func newOfferService(t *testing.T) *application.OfferService {
	t.Helper()
	svc, err := application.NewOfferService()
	require.NoError(t, err)
	return svc
}

func TestOfferService_LoadsContent(t *testing.T) {
	offer := newOfferService(t).Offer()

	assert.NotEmpty(t, offer.Headline)
	assert.Len(t, offer.Benefits, 4)
	assert.Len(t, offer.Steps, 4)
	assert.Len(t, offer.Profit, 3)
	assert.NotEmpty(t, offer.FAQ)
	assert.NotEmpty(t, offer.Contact.Email)
}

func TestOfferService_Navigate(t *testing.T) {
	svc := newOfferService(t)

	c, cards, ok := svc.Navigate(model.OfferSectionBenefits, 3, "next")
	require.True(t, ok)
	assert.Equal(t, 0, c.Index, "next wraps to the first card")
	assert.Len(t, cards, 4)

	c, _, ok = svc.Navigate(model.OfferSectionSteps, 0, "prev")
	require.True(t, ok)
	assert.Equal(t, 3, c.Index)

	c, _, ok = svc.Navigate(model.OfferSectionProfit, 7, "")
	require.True(t, ok)
	assert.Equal(t, 1, c.Index)
}

func TestOfferService_Navigate_UnknownSection(t *testing.T) {
	_, _, ok := newOfferService(t).Navigate(model.OfferSection("pricing"), 0, "next")

	assert.False(t, ok)
}

func TestOfferService_StoryInterpolatesNames(t *testing.T) {
	pages := newOfferService(t).Story(model.Partner{Name: "Kino Nowe", NameGenitive: "Kina Nowego"})

	require.Len(t, pages, 3)
	assert.Contains(t, pages[0].Body, "**Kino Nowe**")
	assert.Contains(t, pages[1].Body, "Za bramą Kina Nowego")
	for _, p := range pages {
		assert.NotContains(t, p.Body, "{{")
	}
}
