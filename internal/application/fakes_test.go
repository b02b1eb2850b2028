package application_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// --- Fake clock ---

// fakeClock runs scheduled continuations only when Advance moves time past
// their deadline, in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
	seq    int
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	order   int
	f       func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) application.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, order: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers one at a time.
// Timers registered by a firing continuation are honoured in the same call.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.fired && !t.stopped && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].order < due[j].order
		})
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// --- Fake media surface ---

type fakeAudio struct {
	mu       sync.Mutex
	track    model.AudioTrack
	url      string
	volumes  []float64
	plays    int
	stops    int
	playErr  error
	ended    chan struct{}
	endOnce  sync.Once
	openedAt time.Duration
}

func (a *fakeAudio) Play(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.plays++
	return a.playErr
}

func (a *fakeAudio) SetVolume(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volumes = append(a.volumes, v)
}

func (a *fakeAudio) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
}

func (a *fakeAudio) Ended() <-chan struct{} { return a.ended }

// End simulates the media-ended event.
func (a *fakeAudio) End() { a.endOnce.Do(func() { close(a.ended) }) }

func (a *fakeAudio) Volumes() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]float64(nil), a.volumes...)
}

func (a *fakeAudio) Stops() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stops
}

func (a *fakeAudio) Plays() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.plays
}

type fakeSurface struct {
	mu       sync.Mutex
	clock    *fakeClock
	audio    map[model.AudioTrack]*fakeAudio
	opens    []model.AudioTrack
	videos   []model.VideoLayer
	states   []model.IntroState
	playErrs map[model.AudioTrack]error
	videoErr error
}

var _ driven.MediaSurface = (*fakeSurface)(nil)

func newFakeSurface(clock *fakeClock) *fakeSurface {
	return &fakeSurface{
		clock:    clock,
		audio:    make(map[model.AudioTrack]*fakeAudio),
		playErrs: make(map[model.AudioTrack]error),
	}
}

func (s *fakeSurface) OpenAudio(track model.AudioTrack, url string, volume float64, _ bool) driven.AudioHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	var now time.Duration
	if s.clock != nil {
		s.clock.mu.Lock()
		now = s.clock.now
		s.clock.mu.Unlock()
	}

	a := &fakeAudio{
		track:    track,
		url:      url,
		volumes:  []float64{volume},
		ended:    make(chan struct{}),
		playErr:  s.playErrs[track],
		openedAt: now,
	}
	s.audio[track] = a
	s.opens = append(s.opens, track)
	return a
}

func (s *fakeSurface) PlayVideo(layer model.VideoLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append(s.videos, layer)
	return s.videoErr
}

func (s *fakeSurface) ShowState(state model.IntroState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, state)
}

func (s *fakeSurface) Audio(track model.AudioTrack) *fakeAudio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio[track]
}

func (s *fakeSurface) Opens() []model.AudioTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AudioTrack(nil), s.opens...)
}

func (s *fakeSurface) Videos() []model.VideoLayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.VideoLayer(nil), s.videos...)
}

func (s *fakeSurface) States() []model.IntroState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.IntroState(nil), s.states...)
}

var errAutoplayBlocked = errors.New("NotAllowedError: play() failed because the user didn't interact")
