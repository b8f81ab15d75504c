package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var artworkColumns = []string{
	"id",
	"gallery_id",
	"owner_id",
	"title",
	"description",
	"image_url",
	"audio_url",
	"position",
	"created_at",
}

type ArtworkRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewArtworkRepository(db *pgxpool.Pool) *ArtworkRepo {
	return &ArtworkRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ArtworkRepo) InsertArtwork(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	const op = "repository.ArtworkRepo.InsertArtwork"

	query, args, err := r.sb.Insert("artworks").
		Columns(
			"id",
			"gallery_id",
			"owner_id",
			"title",
			"description",
			"image_url",
			"audio_url",
			"position",
			"created_at",
		).
		Values(
			artwork.ID,
			artwork.GalleryID,
			artwork.OwnerID,
			artwork.Title,
			artwork.Description,
			artwork.ImageURL,
			artwork.AudioURL,
			artwork.Position,
			artwork.CreatedAt,
		).
		Suffix("RETURNING " + joinColumns(artworkColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var created models.Artwork
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&created.ID,
		&created.GalleryID,
		&created.OwnerID,
		&created.Title,
		&created.Description,
		&created.ImageURL,
		&created.AudioURL,
		&created.Position,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

// ListArtworks returns a gallery's artworks sorted ascending by position.
// Every reader goes through this, which is what keeps the display-order
// invariant observable regardless of position gaps.
func (r *ArtworkRepo) ListArtworks(ctx context.Context, galleryID uuid.UUID) ([]models.Artwork, error) {
	const op = "repository.ArtworkRepo.ListArtworks"

	query, args, err := r.sb.Select(artworkColumns...).
		From("artworks").
		Where(sq.Eq{"gallery_id": galleryID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var artworks []models.Artwork
	for rows.Next() {
		var a models.Artwork
		err := rows.Scan(
			&a.ID,
			&a.GalleryID,
			&a.OwnerID,
			&a.Title,
			&a.Description,
			&a.ImageURL,
			&a.AudioURL,
			&a.Position,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		artworks = append(artworks, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}
	return artworks, nil
}

func (r *ArtworkRepo) CountArtworks(ctx context.Context, galleryID uuid.UUID) (int, error) {
	const op = "repository.ArtworkRepo.CountArtworks"

	query, args, err := r.sb.Select("COUNT(*)").
		From("artworks").
		Where(sq.Eq{"gallery_id": galleryID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// MaxPosition returns the highest position in the gallery; found is false for
// an empty gallery. Callers computing the next position from this are not
// protected by a transaction, see the upload service.
func (r *ArtworkRepo) MaxPosition(ctx context.Context, galleryID uuid.UUID) (int, bool, error) {
	const op = "repository.ArtworkRepo.MaxPosition"

	query, args, err := r.sb.Select("position").
		From("artworks").
		Where(sq.Eq{"gallery_id": galleryID}).
		OrderBy("position DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var position int
	err = r.db.QueryRow(ctx, query, args...).Scan(&position)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	return position, true, nil
}
