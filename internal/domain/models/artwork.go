package models

import (
	"time"

	"github.com/google/uuid"
)

// Artwork is a single media item: an image with optional narration audio.
// Position is assigned once at creation and never renumbered; display order
// is ascending by position, gaps are tolerated.
type Artwork struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GalleryID   uuid.UUID `json:"gallery_id" db:"gallery_id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	AudioURL    *string   `json:"audio_url,omitempty" db:"audio_url"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// HasAudio reports whether the artwork carries a narration track.
func (a Artwork) HasAudio() bool {
	return a.AudioURL != nil && *a.AudioURL != ""
}
