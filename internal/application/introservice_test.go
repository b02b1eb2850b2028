package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

func TestIntroService_OpenRequiresVoiceOver(t *testing.T) {
	svc := application.NewIntroService(&fakeClock{}, application.DefaultIntroTiming(), testBackgroundURL, nil)

	id, seq, err := svc.Open(model.Partner{Slug: "kino-nowe"}, newFakeSurface(nil))

	require.ErrorIs(t, err, application.ErrNoVoiceOver)
	assert.Empty(t, id)
	assert.Nil(t, seq)
	assert.Zero(t, svc.Active())
}

func TestIntroService_OpenGetClose(t *testing.T) {
	clock := &fakeClock{}
	svc := application.NewIntroService(clock, application.DefaultIntroTiming(), testBackgroundURL, nil)
	surface := newFakeSurface(clock)

	id, seq, err := svc.Open(model.Partner{Slug: "kino-nowe", HeroAudioURL: testVoiceOverURL}, surface)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Same(t, seq, svc.Get(id))
	assert.Equal(t, 1, svc.Active())

	require.True(t, seq.Start())
	clock.Advance(2 * time.Second)

	svc.Close(id)

	assert.Nil(t, svc.Get(id))
	assert.Zero(t, svc.Active())
	assert.Equal(t, 1, surface.Audio(model.AudioTrackBackground).Stops())
	assert.Equal(t, 1, surface.Audio(model.AudioTrackVoiceOver).Stops())

	svc.Close(id)
	svc.Close("unknown")
}

func TestIntroService_CloseAll(t *testing.T) {
	clock := &fakeClock{}
	svc := application.NewIntroService(clock, application.DefaultIntroTiming(), testBackgroundURL, nil)
	partner := model.Partner{Slug: "kino-nowe", HeroAudioURL: testVoiceOverURL}

	surfaces := []*fakeSurface{newFakeSurface(clock), newFakeSurface(clock)}
	for _, s := range surfaces {
		_, seq, err := svc.Open(partner, s)
		require.NoError(t, err)
		require.True(t, seq.Start())
	}

	svc.CloseAll()

	assert.Zero(t, svc.Active())
	for _, s := range surfaces {
		assert.Equal(t, 1, s.Audio(model.AudioTrackBackground).Stops())
	}
}
