package dto

import (
	"time"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"

	"github.com/google/uuid"
)

type GalleryResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewGalleryResponse(g models.Gallery) GalleryResponse {
	return GalleryResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		IsPublic:    g.IsPublic,
		CreatedAt:   g.CreatedAt,
	}
}

type GalleryOverviewResponse struct {
	GalleryResponse
	ArtworkCount int      `json:"artwork_count"`
	CoverImages  []string `json:"cover_images,omitempty"`
}

type GalleryListResponse struct {
	Galleries []GalleryOverviewResponse `json:"galleries"`
	Total     int                       `json:"total"`
}

type ShareLinkResponse struct {
	ShareURL string `json:"share_url"`
	Slug     string `json:"slug"`
}
