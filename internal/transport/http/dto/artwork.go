package dto

import (
	"mime/multipart"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"

	"github.com/google/uuid"
)

// ArtworkUploadInput carries one upload: a required image and an optional
// narration track.
type ArtworkUploadInput struct {
	GalleryID   uuid.UUID             `json:"gallery_id" validate:"required"`
	OwnerID     uuid.UUID             `json:"owner_id" validate:"required"`
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description"`
	Image       *multipart.FileHeader `json:"-" form:"image" validate:"required"`
	Audio       *multipart.FileHeader `json:"-" form:"audio"`
}

type ArtworkResponse struct {
	ID          uuid.UUID `json:"id"`
	GalleryID   uuid.UUID `json:"gallery_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url"`
	AudioURL    *string   `json:"audio_url,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewArtworkResponse(a models.Artwork) ArtworkResponse {
	return ArtworkResponse{
		ID:          a.ID,
		GalleryID:   a.GalleryID,
		Title:       a.Title,
		Description: a.Description,
		ImageURL:    a.ImageURL,
		AudioURL:    a.AudioURL,
		Position:    a.Position,
		CreatedAt:   a.CreatedAt,
	}
}
