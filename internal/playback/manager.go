package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/metrics"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var ErrViewerNotFound = errors.New("viewer not found")

// Viewer binds one engine to one browsing session. HTTP requests for the
// same viewer may race, so every operation takes the viewer's mutex; inside
// it the engine runs single-threaded as it expects.
type Viewer struct {
	mu        sync.Mutex
	ID        string
	GalleryID uuid.UUID
	IsOwner   bool
	engine    *Engine
}

func (v *Viewer) Next() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.engine.Next()
	return v.engine.Snapshot()
}

func (v *Viewer) Previous() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.engine.Previous()
	return v.engine.Snapshot()
}

func (v *Viewer) ToggleAudio() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.engine.ToggleAudio()
	return v.engine.Snapshot()
}

func (v *Viewer) AudioEnded() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.engine.AudioEnded()
	return v.engine.Snapshot()
}

func (v *Viewer) Reload(ctx context.Context, lister ArtworkLister) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.engine.LoadSequence(ctx, lister, v.GalleryID); err != nil {
		return Snapshot{}, err
	}
	return v.engine.Snapshot(), nil
}

func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine.Snapshot()
}

// Manager keeps the live viewers in a TTL cache. Expiry and explicit close
// both go through the eviction hook, so an engine's audio session is released
// on every exit path.
type Manager struct {
	log     *slog.Logger
	player  Player
	lister  ArtworkLister
	viewers *gocache.Cache
}

func NewManager(log *slog.Logger, player Player, lister ArtworkLister, viewerTTL time.Duration) *Manager {
	viewers := gocache.New(viewerTTL, viewerTTL/2)
	viewers.OnEvicted(func(_ string, value interface{}) {
		if viewer, ok := value.(*Viewer); ok {
			viewer.mu.Lock()
			viewer.engine.Teardown()
			viewer.mu.Unlock()
			metrics.ActiveViewers.Dec()
		}
	})

	return &Manager{
		log:     log,
		player:  player,
		lister:  lister,
		viewers: viewers,
	}
}

// Open creates a viewer for the gallery, loads its sequence and registers it
// under a fresh viewer id.
func (m *Manager) Open(ctx context.Context, galleryID uuid.UUID, isOwner bool) (*Viewer, error) {
	const op = "playback.Manager.Open"

	engine := NewEngine(m.log, m.player)
	if err := engine.LoadSequence(ctx, m.lister, galleryID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	viewer := &Viewer{
		ID:        uuid.NewString(),
		GalleryID: galleryID,
		IsOwner:   isOwner,
		engine:    engine,
	}
	m.viewers.SetDefault(viewer.ID, viewer)
	metrics.ActiveViewers.Inc()

	m.log.Info("viewer opened",
		slog.String("op", op),
		slog.String("viewer_id", viewer.ID),
		slog.String("gallery_id", galleryID.String()),
		slog.Bool("is_owner", isOwner),
	)

	return viewer, nil
}

func (m *Manager) Get(viewerID string) (*Viewer, error) {
	value, ok := m.viewers.Get(viewerID)
	if !ok {
		return nil, ErrViewerNotFound
	}
	return value.(*Viewer), nil
}

// Close tears the viewer down immediately instead of waiting for the TTL.
func (m *Manager) Close(viewerID string) {
	m.viewers.Delete(viewerID)
}

// Lister exposes the artwork source for viewers reloading after an upload.
func (m *Manager) Lister() ArtworkLister {
	return m.lister
}
