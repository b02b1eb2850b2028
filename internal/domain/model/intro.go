package model

// IntroState is the phase of the landing page hero intro.
type IntroState string

const (
	IntroStateIdle     IntroState = "idle"
	IntroStatePlaying  IntroState = "playing"
	IntroStateFinished IntroState = "finished"
)

// AudioTrack identifies one of the two audio handles owned by an intro.
type AudioTrack string

const (
	AudioTrackBackground AudioTrack = "background"
	AudioTrackVoiceOver  AudioTrack = "voiceover"
)

// Valid reports whether t is a known track.
func (t AudioTrack) Valid() bool {
	return t == AudioTrackBackground || t == AudioTrackVoiceOver
}

// VideoLayer identifies one of the looping muted hero videos.
type VideoLayer string

const (
	VideoLayerDesktop VideoLayer = "desktop"
	VideoLayerMobile  VideoLayer = "mobile"
)

// HeroVideoLayers lists the layers resumed when the intro finishes.
var HeroVideoLayers = []VideoLayer{VideoLayerDesktop, VideoLayerMobile}
