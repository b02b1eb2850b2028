package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// volumeEpsilon absorbs float drift from repeated fade decrements so a ramp
// of 0.3 in 0.05 steps ends at zero after six steps.
const volumeEpsilon = 1e-9

// IntroTiming holds the choreography constants of the hero intro.
type IntroTiming struct {
	// BackgroundDelay is when the background music starts after Start. It is
	// never later than VoiceOverDelay.
	BackgroundDelay time.Duration
	// VoiceOverDelay is when the voice-over starts after Start.
	VoiceOverDelay time.Duration
	// FinishBuffer is the pause between the voice-over ending and the reveal
	// of the hero video.
	FinishBuffer time.Duration
	// InitialVolume is the background music volume, in [0, 1].
	InitialVolume float64
	FadeStep      float64
	FadeInterval  time.Duration
	// FallbackTimeout, when positive, forces the reveal this long after the
	// voice-over was due to start even if it never reports completion. Zero
	// waits for the voice-over indefinitely.
	FallbackTimeout time.Duration
}

// DefaultIntroTiming returns the production choreography.
func DefaultIntroTiming() IntroTiming {
	return IntroTiming{
		BackgroundDelay: 0,
		VoiceOverDelay:  2 * time.Second,
		FinishBuffer:    2 * time.Second,
		InitialVolume:   0.3,
		FadeStep:        0.05,
		FadeInterval:    200 * time.Millisecond,
	}
}

func (t IntroTiming) normalized() IntroTiming {
	if t.BackgroundDelay < 0 {
		t.BackgroundDelay = 0
	}
	if t.BackgroundDelay > t.VoiceOverDelay {
		t.BackgroundDelay = t.VoiceOverDelay
	}
	if t.InitialVolume < 0 {
		t.InitialVolume = 0
	}
	if t.InitialVolume > 1 {
		t.InitialVolume = 1
	}
	if t.FadeStep <= 0 {
		t.FadeStep = DefaultIntroTiming().FadeStep
	}
	if t.FadeInterval <= 0 {
		t.FadeInterval = DefaultIntroTiming().FadeInterval
	}
	return t
}

// IntroSequencer turns a single start trigger into the timed hero reveal:
// background music, a delayed voice-over, and, once the voice-over has ended
// and a buffer has passed, the swap from the theater overlay to the looping
// hero video while the music fades out.
//
// All continuations (timers and the voice-over await task) run under mu, so a
// sequencer behaves like a single event loop. Close cancels every pending
// continuation and releases both audio handles.
type IntroSequencer struct {
	mu sync.Mutex

	surface       driven.MediaSurface
	clock         Clock
	timing        IntroTiming
	backgroundURL string
	voiceOverURL  string
	logger        *slog.Logger

	state            model.IntroState
	closed           bool
	background       driven.AudioHandle
	backgroundVolume float64
	voiceOver        driven.AudioHandle
	timers           []Timer

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// NewIntroSequencer creates an idle sequencer driving surface. voiceOverURL is
// the partner's hero audio; without it Start is a no-op.
func NewIntroSequencer(
	surface driven.MediaSurface,
	clock Clock,
	timing IntroTiming,
	backgroundURL string,
	voiceOverURL string,
	logger *slog.Logger,
) *IntroSequencer {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &IntroSequencer{
		surface:       surface,
		clock:         clock,
		timing:        timing.normalized(),
		backgroundURL: backgroundURL,
		voiceOverURL:  voiceOverURL,
		logger:        logger,
		state:         model.IntroStateIdle,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// State returns the current intro phase.
func (s *IntroSequencer) State() model.IntroState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins the intro. It reports whether the intro started; calling it in
// any state other than idle, after Close, or without a voice-over does nothing.
func (s *IntroSequencer) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state != model.IntroStateIdle || s.voiceOverURL == "" {
		return false
	}

	// The overlay switches to its ambient animation on the state change, not
	// on audio readiness.
	s.state = model.IntroStatePlaying
	s.surface.ShowState(s.state)

	if s.timing.BackgroundDelay <= 0 {
		s.startBackgroundLocked()
	} else {
		s.scheduleLocked(s.timing.BackgroundDelay, s.startBackgroundLocked)
	}
	s.scheduleLocked(s.timing.VoiceOverDelay, s.startVoiceOverLocked)

	if s.timing.FallbackTimeout > 0 {
		s.scheduleLocked(s.timing.VoiceOverDelay+s.timing.FallbackTimeout, func() {
			if s.state == model.IntroStatePlaying {
				s.logger.Warn("intro voice-over did not complete, revealing hero", "timeout", s.timing.FallbackTimeout)
			}
			s.finishLocked()
		})
	}

	s.logger.Debug("intro started", "voice_over", s.voiceOverURL)
	return true
}

// Close tears the intro down regardless of phase: pending timers are
// cancelled, the voice-over await task is released and both audio handles are
// stopped. Close is idempotent and waits for in-flight continuations.
func (s *IntroSequencer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()

	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil

	if s.background != nil {
		s.background.Stop()
		s.background = nil
	}
	if s.voiceOver != nil {
		s.voiceOver.Stop()
		s.voiceOver = nil
	}
	s.mu.Unlock()

	s.tasks.Wait()
}

// scheduleLocked registers fn to run after d under the sequencer lock, unless
// the sequencer has been closed by then.
func (s *IntroSequencer) scheduleLocked(d time.Duration, fn func()) {
	t := s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		fn()
	})
	s.timers = append(s.timers, t)
}

func (s *IntroSequencer) startBackgroundLocked() {
	s.backgroundVolume = s.timing.InitialVolume
	s.background = s.surface.OpenAudio(model.AudioTrackBackground, s.backgroundURL, s.backgroundVolume, false)
	if err := s.background.Play(s.ctx); err != nil {
		s.logger.Warn("background track failed to start", "error", err)
	}
}

func (s *IntroSequencer) startVoiceOverLocked() {
	if s.state != model.IntroStatePlaying {
		return
	}

	handle := s.surface.OpenAudio(model.AudioTrackVoiceOver, s.voiceOverURL, 1, false)
	s.voiceOver = handle
	if err := handle.Play(s.ctx); err != nil {
		s.logger.Warn("voice-over failed to start", "error", err)
	}

	s.tasks.Add(1)
	go s.awaitVoiceOver(handle)
}

// awaitVoiceOver waits for the voice-over ended notification and schedules
// the reveal after the finish buffer.
func (s *IntroSequencer) awaitVoiceOver(handle driven.AudioHandle) {
	defer s.tasks.Done()

	select {
	case <-s.ctx.Done():
		return
	case <-handle.Ended():
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != model.IntroStatePlaying {
		return
	}
	s.logger.Debug("intro voice-over ended", "buffer", s.timing.FinishBuffer)
	s.scheduleLocked(s.timing.FinishBuffer, s.finishLocked)
}

func (s *IntroSequencer) finishLocked() {
	if s.state != model.IntroStatePlaying {
		return
	}
	s.state = model.IntroStateFinished
	s.surface.ShowState(s.state)

	// Autoplay of the muted hero videos may have been suppressed.
	for _, layer := range model.HeroVideoLayers {
		if err := s.surface.PlayVideo(layer); err != nil {
			s.logger.Warn("hero video failed to resume", "layer", layer, "error", err)
		}
	}

	if s.background != nil {
		s.scheduleLocked(s.timing.FadeInterval, s.fadeStepLocked)
	}
}

// fadeStepLocked lowers the background volume by one step and reschedules
// itself until the volume reaches zero, then stops the background track.
func (s *IntroSequencer) fadeStepLocked() {
	if s.background == nil {
		return
	}

	next := s.backgroundVolume - s.timing.FadeStep
	if next <= volumeEpsilon {
		s.backgroundVolume = 0
		s.background.SetVolume(0)
		s.background.Stop()
		s.background = nil
		return
	}

	s.backgroundVolume = next
	s.background.SetVolume(next)
	s.scheduleLocked(s.timing.FadeInterval, s.fadeStepLocked)
}
