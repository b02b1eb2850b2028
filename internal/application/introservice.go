package application

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
)

// ErrNoVoiceOver is returned when an intro is requested for a partner without
// a hero voice-over. No sequencer is constructed in that case.
var ErrNoVoiceOver = errors.New("partner has no intro voice-over")

// IntroService keeps the live intro sequencers, one per open landing page.
type IntroService struct {
	mu       sync.Mutex
	sessions map[string]*IntroSequencer

	clock         Clock
	timing        IntroTiming
	backgroundURL string
	logger        *slog.Logger
}

// NewIntroService creates an IntroService. backgroundURL is the fixed
// background music track shared by every partner.
func NewIntroService(clock Clock, timing IntroTiming, backgroundURL string, logger *slog.Logger) *IntroService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntroService{
		sessions:      make(map[string]*IntroSequencer),
		clock:         clock,
		timing:        timing,
		backgroundURL: backgroundURL,
		logger:        logger,
	}
}

// Open constructs an idle sequencer for partner on surface and registers it
// under a new ID.
func (s *IntroService) Open(partner model.Partner, surface driven.MediaSurface) (string, *IntroSequencer, error) {
	if !partner.HasVoiceOver() {
		return "", nil, ErrNoVoiceOver
	}

	id := uuid.NewString()
	seq := NewIntroSequencer(surface, s.clock, s.timing, s.backgroundURL, partner.HeroAudioURL,
		s.logger.With("intro_id", id, "partner", partner.Slug))

	s.mu.Lock()
	s.sessions[id] = seq
	s.mu.Unlock()

	return id, seq, nil
}

// Get returns the sequencer registered under id, or nil.
func (s *IntroService) Get(id string) *IntroSequencer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// Close tears down and forgets the sequencer registered under id. Unknown IDs
// are ignored.
func (s *IntroService) Close(id string) {
	s.mu.Lock()
	seq, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		seq.Close()
	}
}

// CloseAll tears down every live sequencer. Used on server shutdown.
func (s *IntroService) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*IntroSequencer)
	s.mu.Unlock()

	for _, seq := range sessions {
		seq.Close()
	}
	if len(sessions) > 0 {
		slog.Info("intro sessions closed", "count", len(sessions))
	}
}

// Active returns the number of live sequencers.
func (s *IntroService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
