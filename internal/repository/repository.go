package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db      *pgxpool.Pool
	Gallery GalleryRepository
	Artwork ArtworkRepository
	User    UserRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:      db,
		Gallery: NewGalleryRepository(db),
		Artwork: NewArtworkRepository(db),
		User:    NewUserRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}
