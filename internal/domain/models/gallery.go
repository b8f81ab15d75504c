package models

import (
	"time"

	"github.com/google/uuid"
)

// Gallery is an owner's ordered collection of artworks. ShareSlug is nil
// until sharing has been issued at least once; re-issuing replaces it.
type Gallery struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ShareSlug   *string   `json:"share_slug,omitempty" db:"share_slug"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	// IsDefault marks the gallery auto-created on first open. A partial
	// unique index on (owner_id) WHERE is_default keeps auto-creation
	// idempotent under concurrent first logins.
	IsDefault bool      `json:"-" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// GalleryOverview is a Gallery plus the aggregates shown on the dashboard.
type GalleryOverview struct {
	Gallery
	ArtworkCount int      `json:"artwork_count"`
	CoverImages  []string `json:"cover_images,omitempty"`
}
