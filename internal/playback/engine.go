package playback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/lib/logger/sl"

	"github.com/google/uuid"
)

type State int

const (
	StateEmpty State = iota
	StateBrowsing
)

func (s State) String() string {
	if s == StateEmpty {
		return "empty"
	}
	return "browsing"
}

// ArtworkLister is the slice of the repository the engine needs: the gallery's
// artworks sorted ascending by position.
type ArtworkLister interface {
	ListArtworks(ctx context.Context, galleryID uuid.UUID) ([]models.Artwork, error)
}

// Snapshot is what a presentation layer renders: the artwork at the cursor,
// its 1-indexed display position and the total count.
type Snapshot struct {
	State        State
	Artwork      *models.Artwork
	Index        int
	Total        int
	AudioPlaying bool
}

// Engine holds one viewer's ordered artwork sequence, a cursor into it, and
// at most one audio session, always bound to the artwork at the cursor.
// Not safe for concurrent use; the manager serializes access per viewer.
type Engine struct {
	log      *slog.Logger
	player   Player
	sequence []models.Artwork
	cursor   int
	session  Session
	state    State
}

func NewEngine(log *slog.Logger, player Player) *Engine {
	return &Engine{
		log:    log,
		player: player,
		state:  StateEmpty,
	}
}

// LoadSequence fetches the gallery's artworks and resets the cursor to the
// first one. Reloading stops and releases any active audio session.
func (e *Engine) LoadSequence(ctx context.Context, lister ArtworkLister, galleryID uuid.UUID) error {
	const op = "playback.Engine.LoadSequence"

	log := e.log.With(
		slog.String("op", op),
		slog.String("gallery_id", galleryID.String()),
	)

	artworks, err := lister.ListArtworks(ctx, galleryID)
	if err != nil {
		log.Error("failed to load artworks", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	e.releaseSession()
	e.sequence = artworks
	e.cursor = 0

	if len(artworks) == 0 {
		e.state = StateEmpty
	} else {
		e.state = StateBrowsing
	}

	log.Info("sequence loaded", slog.Int("artworks", len(artworks)), slog.String("state", e.state.String()))
	return nil
}

// Next advances the cursor by exactly one. At the last artwork it is a no-op.
// Audio never carries across artworks: any session is released first.
func (e *Engine) Next() bool {
	if e.cursor >= len(e.sequence)-1 {
		return false
	}
	e.releaseSession()
	e.cursor++
	return true
}

// Previous is symmetric to Next.
func (e *Engine) Previous() bool {
	if e.cursor <= 0 {
		return false
	}
	e.releaseSession()
	e.cursor--
	return true
}

// ToggleAudio drives the audio session state machine for the artwork at the
// cursor. Reports whether audio is playing afterwards.
//
// No-op without an audio track. Playing -> paused keeps the session and its
// position. Paused -> playing resumes the session only if it is still bound
// to the current artwork's source; otherwise a fresh session starts from the
// beginning.
func (e *Engine) ToggleAudio() bool {
	current, ok := e.Current()
	if !ok || !current.HasAudio() {
		return false
	}

	if e.session != nil && e.session.Playing() {
		e.session.Pause()
		return false
	}

	src := *current.AudioURL
	if e.session == nil || e.session.Source() != src {
		e.releaseSession()
		e.session = e.player.NewSession(src, e.audioEnded)
	}
	e.session.Play()
	return true
}

// AudioEnded marks the current track as finished: the playing flag clears but
// the cursor does not move.
func (e *Engine) AudioEnded() {
	e.audioEnded()
}

func (e *Engine) audioEnded() {
	if e.session != nil {
		e.session.Pause()
	}
}

// Current returns the artwork at the cursor.
func (e *Engine) Current() (models.Artwork, bool) {
	if e.state == StateEmpty {
		return models.Artwork{}, false
	}
	return e.sequence[e.cursor], true
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State: e.state,
		Total: len(e.sequence),
	}

	if current, ok := e.Current(); ok {
		snap.Artwork = &current
		snap.Index = e.cursor + 1
	}
	if e.session != nil {
		snap.AudioPlaying = e.session.Playing()
	}

	return snap
}

// Teardown releases the audio session. Must run on every exit path so no
// audio outlives its viewer.
func (e *Engine) Teardown() {
	e.releaseSession()
}

func (e *Engine) releaseSession() {
	if e.session != nil {
		e.session.Release()
		e.session = nil
	}
}
