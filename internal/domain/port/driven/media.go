package driven

import (
	"context"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// AudioHandle is a single playable audio resource on a media surface. A handle
// is owned by exactly one intro sequencer.
type AudioHandle interface {
	// Play requests playback and returns without waiting for audio to start.
	// An error means the request could not be delivered or was refused.
	Play(ctx context.Context) error
	SetVolume(volume float64)
	// Stop halts playback and releases the resource. Stop is idempotent.
	Stop()
	// Ended is closed when playback completes naturally.
	Ended() <-chan struct{}
}

// MediaSurface is the playback surface an intro sequencer drives. In
// production this is the visitor's browser, reached over a websocket.
type MediaSurface interface {
	OpenAudio(track model.AudioTrack, url string, volume float64, loop bool) AudioHandle
	PlayVideo(layer model.VideoLayer) error
	// ShowState toggles the theater overlay and base video layers.
	ShowState(state model.IntroState)
}
