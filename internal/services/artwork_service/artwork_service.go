package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/lib/logger/sl"
	"github.com/raks-h21/muse-weave-27/internal/repository"
	storage "github.com/raks-h21/muse-weave-27/internal/storage/filestorage"
	"github.com/raks-h21/muse-weave-27/internal/transport/http/dto"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrImageRequired = errors.New("image is required")
	ErrNotOwner      = errors.New("gallery does not belong to this user")
	ErrAssetWrite    = errors.New("failed to store asset")
	ErrRecordWrite   = errors.New("failed to store artwork record")
)

type ArtworkService struct {
	log         *slog.Logger
	artworks    repository.ArtworkRepository
	galleries   repository.GalleryRepository
	blobStorage storage.BlobStorage
}

func NewArtworkService(
	log *slog.Logger,
	artworks repository.ArtworkRepository,
	galleries repository.GalleryRepository,
	blobStorage storage.BlobStorage,
) *ArtworkService {
	return &ArtworkService{
		log:         log,
		artworks:    artworks,
		galleries:   galleries,
		blobStorage: blobStorage,
	}
}

// UploadArtwork runs the two-phase upload: blobs first, then one record
// insert. Validation rejects before any external call; a failed blob write
// aborts the rest. Blobs already written when a later step fails stay behind
// as orphans, they are never compensated here.
func (s *ArtworkService) UploadArtwork(ctx context.Context, input dto.ArtworkUploadInput) (*models.Artwork, error) {
	const op = "artwork_service.UploadArtwork"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", input.GalleryID.String()),
		slog.String("owner_id", input.OwnerID.String()),
	)

	if input.Title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}
	if input.Image == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrImageRequired)
	}

	gallery, err := s.galleries.GetGalleryByID(ctx, input.GalleryID)
	if err != nil {
		log.Error("failed to load gallery", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if gallery.OwnerID != input.OwnerID {
		log.Warn("upload rejected, not the gallery owner")
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	log.Info("uploading artwork", slog.String("title", input.Title))

	imageURL, err := s.putBlob(ctx, storage.NamespaceArtworks, input.OwnerID, input.Image)
	if err != nil {
		log.Error("failed to store image", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrAssetWrite, err)
	}

	var audioURL *string
	if input.Audio != nil {
		url, err := s.putBlob(ctx, storage.NamespaceAudio, input.OwnerID, input.Audio)
		if err != nil {
			// The image blob stays behind unreferenced.
			log.Error("failed to store audio", sl.Err(err))
			return nil, fmt.Errorf("%s: %w: %w", op, ErrAssetWrite, err)
		}
		audioURL = &url
	}

	position, err := s.nextPosition(ctx, input.GalleryID)
	if err != nil {
		log.Error("failed to resolve position", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	artwork := &models.Artwork{
		ID:          uuid.New(),
		GalleryID:   input.GalleryID,
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    imageURL,
		AudioURL:    audioURL,
		Position:    position,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.artworks.InsertArtwork(ctx, artwork)
	if err != nil {
		log.Error("failed to insert artwork", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrRecordWrite, err)
	}

	log.Info("artwork uploaded",
		slog.String("artwork_id", created.ID.String()),
		slog.Int("position", created.Position),
		slog.Bool("has_audio", created.HasAudio()),
	)

	return created, nil
}

// putBlob writes one file under a key namespaced by owner and a nanosecond
// timestamp so concurrent uploads never collide on key.
func (s *ArtworkService) putBlob(ctx context.Context, namespace string, ownerID uuid.UUID, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%d%s", ownerID, time.Now().UnixNano(), filepath.Ext(file.Filename))

	url, _, err := s.blobStorage.Put(ctx, namespace, key, src)
	if err != nil {
		return "", err
	}
	return url, nil
}

// nextPosition is a read-then-write without a transaction: two concurrent
// uploads to one gallery can compute the same position. Display ordering
// tolerates that; strict uniqueness is not promised here.
func (s *ArtworkService) nextPosition(ctx context.Context, galleryID uuid.UUID) (int, error) {
	max, found, err := s.artworks.MaxPosition(ctx, galleryID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return max + 1, nil
}

// ListArtworks returns the gallery's artworks in display order.
func (s *ArtworkService) ListArtworks(ctx context.Context, galleryID uuid.UUID) ([]models.Artwork, error) {
	const op = "artwork_service.ListArtworks"

	artworks, err := s.artworks.ListArtworks(ctx, galleryID)
	if err != nil {
		s.log.Error("failed to list artworks", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return artworks, nil
}
