package playback

import (
	"sync"
	"time"
)

// Session is a single live audio handle bound to one source URL. Lifecycle:
// allocated paused, toggled between playing and paused, released exactly once.
// Pausing keeps the position; only a fresh session starts from zero.
type Session interface {
	Play()
	Pause()
	// Release stops playback and frees the handle. The session must not be
	// used afterwards.
	Release()
	Source() string
	Playing() bool
	Position() time.Duration
}

// Player allocates audio sessions. onEnded fires at most once, when the
// session finishes playback unassisted.
type Player interface {
	NewSession(sourceURL string, onEnded func()) Session
}

// ClockPlayer is the production Player: it has no audio device, it only
// models the session state machine and tracks position against the wall
// clock. The actual sound comes out of whatever presentation layer consumes
// the engine's snapshots.
type ClockPlayer struct{}

func NewClockPlayer() *ClockPlayer {
	return &ClockPlayer{}
}

func (p *ClockPlayer) NewSession(sourceURL string, onEnded func()) Session {
	return &clockSession{source: sourceURL}
}

type clockSession struct {
	mu       sync.Mutex
	source   string
	playing  bool
	released bool
	// elapsed accumulates completed play intervals; startedAt marks the
	// beginning of the current one.
	elapsed   time.Duration
	startedAt time.Time
}

func (s *clockSession) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released || s.playing {
		return
	}
	s.playing = true
	s.startedAt = time.Now()
}

func (s *clockSession) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return
	}
	s.elapsed += time.Since(s.startedAt)
	s.playing = false
}

func (s *clockSession) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playing = false
	s.released = true
}

func (s *clockSession) Source() string {
	return s.source
}

func (s *clockSession) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *clockSession) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		return s.elapsed + time.Since(s.startedAt)
	}
	return s.elapsed
}
