package repository

import (
	"context"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"

	"github.com/google/uuid"
)

type GalleryRepository interface {
	FindGalleriesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Gallery, error)
	InsertGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error)
	InsertDefaultGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, bool, error)
	GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error)
	FindGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error)
	UpdateGalleryShare(ctx context.Context, id uuid.UUID, slug string, isPublic bool) error
	ListOverviews(ctx context.Context, ownerID uuid.UUID) ([]models.GalleryOverview, error)
}

type ArtworkRepository interface {
	InsertArtwork(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error)
	ListArtworks(ctx context.Context, galleryID uuid.UUID) ([]models.Artwork, error)
	CountArtworks(ctx context.Context, galleryID uuid.UUID) (int, error)
	MaxPosition(ctx context.Context, galleryID uuid.UUID) (int, bool, error)
}

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByIdentifier(ctx context.Context, identifier string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
