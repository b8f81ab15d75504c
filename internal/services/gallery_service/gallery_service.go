package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/lib/logger/sl"
	"github.com/raks-h21/muse-weave-27/internal/repository"
)

const defaultGalleryDescription = "Welcome to my personal gallery"

type GalleryService struct {
	log       *slog.Logger
	galleries repository.GalleryRepository
}

func NewGalleryService(log *slog.Logger, galleries repository.GalleryRepository) *GalleryService {
	return &GalleryService{
		log:       log,
		galleries: galleries,
	}
}

// ResolveOrCreate returns the owner's first gallery, auto-creating exactly
// one with a default title when none exists. The create path is idempotent:
// the repository's one-default-per-owner constraint makes concurrent first
// opens converge on a single gallery.
func (s *GalleryService) ResolveOrCreate(ctx context.Context, owner models.User) (models.Gallery, error) {
	const op = "gallery_service.ResolveOrCreate"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", owner.ID.String()),
	)

	galleries, err := s.galleries.FindGalleriesByOwner(ctx, owner.ID)
	if err != nil {
		log.Error("failed to list galleries", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(galleries) > 0 {
		return galleries[0], nil
	}

	gallery := models.Gallery{
		OwnerID:     owner.ID,
		Title:       fmt.Sprintf("%s's Gallery", owner.DisplayName()),
		Description: defaultGalleryDescription,
		IsDefault:   true,
	}

	created, fresh, err := s.galleries.InsertDefaultGallery(ctx, gallery)
	if err != nil {
		log.Error("failed to create default gallery", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	if fresh {
		log.Info("default gallery created", slog.String("gallery_id", created.ID.String()))
	} else {
		log.Info("default gallery already existed", slog.String("gallery_id", created.ID.String()))
	}

	return created, nil
}

// ListOverviews returns the owner's galleries with artwork counts for the
// dashboard.
func (s *GalleryService) ListOverviews(ctx context.Context, owner models.User) ([]models.GalleryOverview, error) {
	const op = "gallery_service.ListOverviews"

	overviews, err := s.galleries.ListOverviews(ctx, owner.ID)
	if err != nil {
		s.log.Error("failed to list gallery overviews", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return overviews, nil
}

// IsOwner is a presentation hint used to gate upload and share controls in
// the UI. It is not an authorization boundary; the upload and share services
// re-check ownership against the stored row.
func (s *GalleryService) IsOwner(gallery models.Gallery, owner models.User) bool {
	return gallery.OwnerID == owner.ID
}
