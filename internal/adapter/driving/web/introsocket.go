package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/ericfisherdev/storypartner/internal/application"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

const (
	// maxIntroFrameBytes bounds a single client frame.
	maxIntroFrameBytes = 4 << 10
	// maxDecodeErrors closes connections that keep sending garbage.
	maxDecodeErrors = 5
)

// Frame types exchanged on the intro socket.
const (
	frameIntroStart   = "intro.start"
	frameMediaEnded   = "media.ended"
	frameMediaError   = "media.error"
	frameIntroSession = "intro.session"
	frameIntroState   = "intro.state"
	frameAudioPlay    = "audio.play"
	frameAudioVolume  = "audio.volume"
	frameAudioStop    = "audio.stop"
	frameVideoPlay    = "video.play"
	frameError        = "error"
)

type introFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type trackPayload struct {
	Track   model.AudioTrack `json:"track"`
	Message string           `json:"message,omitempty"`
}

type audioPlayPayload struct {
	Track  model.AudioTrack `json:"track"`
	URL    string           `json:"url"`
	Volume float64          `json:"volume"`
	Loop   bool             `json:"loop"`
}

type audioVolumePayload struct {
	Track  model.AudioTrack `json:"track"`
	Volume float64          `json:"volume"`
}

// wsPeer serializes frame writes on one connection.
type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) send(frameType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", frameType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.encoder.Encode(introFrame{Type: frameType, Payload: raw}); err != nil {
		return fmt.Errorf("write %s frame: %w", frameType, err)
	}
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ driven.MediaSurface = (*socketSurface)(nil)
	_ driven.AudioHandle  = (*socketAudio)(nil)
)

// socketSurface is the visitor's browser seen through the intro socket. The
// browser executes the play, volume and stop commands and reports media
// completion back.
type socketSurface struct {
	peer   *wsPeer
	logger *slog.Logger

	mu    sync.Mutex
	audio map[model.AudioTrack]*socketAudio
}

func newSocketSurface(peer *wsPeer, logger *slog.Logger) *socketSurface {
	return &socketSurface{
		peer:   peer,
		logger: logger,
		audio:  make(map[model.AudioTrack]*socketAudio),
	}
}

func (s *socketSurface) OpenAudio(track model.AudioTrack, url string, volume float64, loop bool) driven.AudioHandle {
	a := &socketAudio{
		surface: s,
		track:   track,
		url:     url,
		volume:  volume,
		loop:    loop,
		ended:   make(chan struct{}),
	}

	s.mu.Lock()
	s.audio[track] = a
	s.mu.Unlock()
	return a
}

func (s *socketSurface) PlayVideo(layer model.VideoLayer) error {
	return s.peer.send(frameVideoPlay, map[string]model.VideoLayer{"layer": layer})
}

func (s *socketSurface) ShowState(state model.IntroState) {
	if err := s.peer.send(frameIntroState, map[string]model.IntroState{"state": state}); err != nil {
		s.logger.Debug("intro state not delivered", "state", state, "error", err)
	}
}

// ended marks the current handle of track as finished.
func (s *socketSurface) ended(track model.AudioTrack) {
	s.mu.Lock()
	a := s.audio[track]
	s.mu.Unlock()
	if a != nil {
		a.markEnded()
	}
}

func (s *socketSurface) release(a *socketAudio) {
	s.mu.Lock()
	if s.audio[a.track] == a {
		delete(s.audio, a.track)
	}
	s.mu.Unlock()
}

// socketAudio is one audio element in the browser.
type socketAudio struct {
	surface *socketSurface
	track   model.AudioTrack
	url     string
	volume  float64
	loop    bool

	endOnce  sync.Once
	stopOnce sync.Once
	ended    chan struct{}
}

func (a *socketAudio) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.surface.peer.send(frameAudioPlay, audioPlayPayload{
		Track:  a.track,
		URL:    a.url,
		Volume: a.volume,
		Loop:   a.loop,
	})
}

func (a *socketAudio) SetVolume(volume float64) {
	a.volume = volume
	if err := a.surface.peer.send(frameAudioVolume, audioVolumePayload{Track: a.track, Volume: volume}); err != nil {
		a.surface.logger.Debug("volume change not delivered", "track", a.track, "error", err)
	}
}

func (a *socketAudio) Stop() {
	a.stopOnce.Do(func() {
		a.surface.release(a)
		if err := a.surface.peer.send(frameAudioStop, map[string]model.AudioTrack{"track": a.track}); err != nil {
			a.surface.logger.Debug("stop not delivered", "track", a.track, "error", err)
		}
	})
}

func (a *socketAudio) Ended() <-chan struct{} {
	return a.ended
}

func (a *socketAudio) markEnded() {
	a.endOnce.Do(func() { close(a.ended) })
}

// IntroSocket upgrades to the intro websocket for a partner. Unknown partners
// get 404 and partners without a voice-over get 409, both before the upgrade.
func (h *Handler) IntroSocket(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	partner := h.lookupPartner(r.Context(), slug)
	if partner == nil {
		http.NotFound(w, r)
		return
	}
	if !partner.HasVoiceOver() {
		http.Error(w, application.ErrNoVoiceOver.Error(), http.StatusConflict)
		return
	}

	websocket.Handler(func(conn *websocket.Conn) {
		h.serveIntro(conn, *partner)
	}).ServeHTTP(w, r)
}

// serveIntro runs one page life: it opens a sequencer on the connection and
// feeds it client frames. Whatever ends the loop, the sequencer is torn down.
func (h *Handler) serveIntro(conn *websocket.Conn, partner model.Partner) {
	defer func() { _ = conn.Close() }()
	conn.MaxPayloadBytes = maxIntroFrameBytes
	// The server's read and write timeouts outlive the hijack; an intro runs
	// for as long as the page stays open.
	_ = conn.SetDeadline(time.Time{})

	peer := newWSPeer(json.NewEncoder(conn))
	logger := h.logger.With("partner", partner.Slug)
	surface := newSocketSurface(peer, logger)

	id, seq, err := h.intros.Open(partner, surface)
	if err != nil {
		_ = peer.send(frameError, map[string]string{"message": err.Error()})
		return
	}
	defer h.intros.Close(id)

	logger = logger.With("intro_id", id)
	if err := peer.send(frameIntroSession, map[string]string{"id": id}); err != nil {
		return
	}
	surface.ShowState(seq.State())

	decoder := json.NewDecoder(conn)
	decodeErrors := 0
	for {
		var frame introFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
				// Connection errors; the page is gone.
				return
			}
			decodeErrors++
			_ = peer.send(frameError, map[string]string{"message": "invalid frame"})
			if decodeErrors >= maxDecodeErrors {
				return
			}
			decoder = json.NewDecoder(conn)
			continue
		}
		decodeErrors = 0

		switch frame.Type {
		case frameIntroStart:
			if !seq.Start() {
				logger.Debug("intro start ignored", "state", seq.State())
			}
		case frameMediaEnded:
			var p trackPayload
			if err := json.Unmarshal(frame.Payload, &p); err != nil || !p.Track.Valid() {
				_ = peer.send(frameError, map[string]string{"message": "invalid track"})
				continue
			}
			surface.ended(p.Track)
		case frameMediaError:
			var p trackPayload
			_ = json.Unmarshal(frame.Payload, &p)
			logger.Warn("media playback failed in browser", "track", p.Track, "message", p.Message)
		default:
			_ = peer.send(frameError, map[string]string{"message": "unsupported frame type"})
		}
	}
}
