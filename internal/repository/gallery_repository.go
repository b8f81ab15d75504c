package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

var galleryColumns = []string{
	"id",
	"owner_id",
	"title",
	"description",
	"share_slug",
	"is_public",
	"is_default",
	"created_at",
}

type GalleryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *GalleryRepo) FindGalleriesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Gallery, error) {
	const op = "repository.GalleryRepo.FindGalleriesByOwner"

	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var galleries []models.Gallery
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		galleries = append(galleries, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}
	return galleries, nil
}

func (r *GalleryRepo) InsertGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error) {
	const op = "repository.GalleryRepo.InsertGallery"

	query, args, err := r.sb.Insert("galleries").
		Columns("owner_id", "title", "description", "is_default").
		Values(gallery.OwnerID, gallery.Title, gallery.Description, gallery.IsDefault).
		Suffix("RETURNING " + joinColumns(galleryColumns)).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	created, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// InsertDefaultGallery inserts the owner's auto-created gallery. The partial
// unique index galleries(owner_id) WHERE is_default turns a concurrent second
// insert into a no-op; the bool result reports whether this call created the
// row. On conflict the winner's row is returned instead.
func (r *GalleryRepo) InsertDefaultGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, bool, error) {
	const op = "repository.GalleryRepo.InsertDefaultGallery"

	query, args, err := r.sb.Insert("galleries").
		Columns("owner_id", "title", "description", "is_default").
		Values(gallery.OwnerID, gallery.Title, gallery.Description, true).
		Suffix("ON CONFLICT (owner_id) WHERE is_default DO NOTHING RETURNING " + joinColumns(galleryColumns)).
		ToSql()
	if err != nil {
		return models.Gallery{}, false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	created, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Gallery{}, false, fmt.Errorf("%s: %w", op, err)
	}

	// Lost the race: another session created the default gallery first.
	existing, err := r.findDefaultGallery(ctx, gallery.OwnerID)
	if err != nil {
		return models.Gallery{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return existing, false, nil
}

func (r *GalleryRepo) findDefaultGallery(ctx context.Context, ownerID uuid.UUID) (models.Gallery, error) {
	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(sq.Eq{"owner_id": ownerID, "is_default": true}).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("failed to build query: %w", err)
	}

	g, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Gallery{}, storage.ErrGalleryNotFound
	}
	return g, err
}

func (r *GalleryRepo) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryByID"

	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	g, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

// FindGalleryBySlug matches the row's current share_slug exactly, so a
// re-issued slug invalidates previously distributed links by construction.
func (r *GalleryRepo) FindGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	const op = "repository.GalleryRepo.FindGalleryBySlug"

	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(sq.Eq{"share_slug": slug}).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	g, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

// UpdateGalleryShare sets share_slug and is_public in one write.
func (r *GalleryRepo) UpdateGalleryShare(ctx context.Context, id uuid.UUID, slug string, isPublic bool) error {
	const op = "repository.GalleryRepo.UpdateGalleryShare"

	query, args, err := r.sb.Update("galleries").
		Set("share_slug", slug).
		Set("is_public", isPublic).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	return nil
}

// ListOverviews returns the owner's galleries with artwork counts and the
// first few image URLs for dashboard covers.
func (r *GalleryRepo) ListOverviews(ctx context.Context, ownerID uuid.UUID) ([]models.GalleryOverview, error) {
	const op = "repository.GalleryRepo.ListOverviews"

	query, args, err := r.sb.Select(
		"g.id",
		"g.owner_id",
		"g.title",
		"g.description",
		"g.share_slug",
		"g.is_public",
		"g.is_default",
		"g.created_at",
		"COUNT(a.id)",
		"COALESCE(ARRAY_AGG(a.image_url ORDER BY a.position) FILTER (WHERE a.id IS NOT NULL), '{}')",
	).
		From("galleries g").
		LeftJoin("artworks a ON a.gallery_id = g.id").
		Where(sq.Eq{"g.owner_id": ownerID}).
		GroupBy("g.id").
		OrderBy("g.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var overviews []models.GalleryOverview
	for rows.Next() {
		var o models.GalleryOverview
		var covers pq.StringArray
		err := rows.Scan(
			&o.ID,
			&o.OwnerID,
			&o.Title,
			&o.Description,
			&o.ShareSlug,
			&o.IsPublic,
			&o.IsDefault,
			&o.CreatedAt,
			&o.ArtworkCount,
			&covers,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		o.CoverImages = covers
		overviews = append(overviews, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}
	return overviews, nil
}

func scanGallery(row pgx.Row) (models.Gallery, error) {
	var g models.Gallery
	err := row.Scan(
		&g.ID,
		&g.OwnerID,
		&g.Title,
		&g.Description,
		&g.ShareSlug,
		&g.IsPublic,
		&g.IsDefault,
		&g.CreatedAt,
	)
	return g, err
}

func joinColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
