package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/lib/logger/sl"
	"github.com/raks-h21/muse-weave-27/internal/lib/random"
	"github.com/raks-h21/muse-weave-27/internal/repository"
	"github.com/raks-h21/muse-weave-27/internal/storage"

	"github.com/google/uuid"
)

var ErrNotOwner = errors.New("gallery does not belong to this user")

const slugSuffixLength = 7

type ShareService struct {
	log       *slog.Logger
	galleries repository.GalleryRepository
	origin    string
}

func NewShareService(log *slog.Logger, galleries repository.GalleryRepository, origin string) *ShareService {
	return &ShareService{
		log:       log,
		galleries: galleries,
		origin:    origin,
	}
}

// IssueShareLink generates a fresh slug, flips the gallery public and returns
// the share URL. Re-issuing replaces the stored slug, so links handed out
// earlier stop resolving. Slugs are timestamp+random; collisions are treated
// as negligible and not deduplicated.
func (s *ShareService) IssueShareLink(ctx context.Context, galleryID, ownerID uuid.UUID) (string, string, error) {
	const op = "share_service.IssueShareLink"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", galleryID.String()),
	)

	gallery, err := s.galleries.GetGalleryByID(ctx, galleryID)
	if err != nil {
		log.Error("failed to load gallery", sl.Err(err))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if gallery.OwnerID != ownerID {
		log.Warn("share rejected, not the gallery owner")
		return "", "", fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	slug := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), random.NewSlugSuffix(slugSuffixLength))

	if err := s.galleries.UpdateGalleryShare(ctx, galleryID, slug, true); err != nil {
		log.Error("failed to update gallery share fields", sl.Err(err))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("share link issued", slog.String("slug", slug))

	return fmt.Sprintf("%s/shared/%s", s.origin, slug), slug, nil
}

// ResolveShareSlug maps a slug back to a gallery id. An unknown slug and a
// private gallery fail with distinct errors; the transport conflates them
// before they reach a viewer.
func (s *ShareService) ResolveShareSlug(ctx context.Context, slug string) (uuid.UUID, error) {
	const op = "share_service.ResolveShareSlug"

	log := s.log.With(slog.String("op", op))

	gallery, err := s.galleries.FindGalleryBySlug(ctx, slug)
	if err != nil {
		log.Warn("slug did not resolve", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !gallery.IsPublic {
		log.Warn("slug resolved to a private gallery")
		return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrGalleryPrivate)
	}

	return gallery.ID, nil
}
