package storage

import "errors"

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

var (
	ErrGalleryNotFound = errors.New("gallery not found")
	ErrGalleryPrivate  = errors.New("gallery is not public")
	ErrArtworkNotFound = errors.New("artwork not found")
)

var (
	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrFileEmpty    = errors.New("file is empty")
)
