package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/raks-h21/muse-weave-27/internal/storage"
)

// Blob namespaces. Images and audio live in independent namespaces so their
// keys never collide.
const (
	NamespaceArtworks = "artworks"
	NamespaceAudio    = "audio"
)

// BlobStorage accepts a named binary blob and returns a durable public URL
// for it. Failed writes are reported, never retried here.
type BlobStorage interface {
	Put(ctx context.Context, namespace, key string, src io.Reader) (publicURL string, size int64, err error)
	Delete(ctx context.Context, namespace, key string) error
	BaseURL() string
}

// LocalBlobStorage keeps blobs on the local filesystem and issues URLs under
// a configured base URL served as static files.
type LocalBlobStorage struct {
	baseDir string
	baseURL string
	maxSize int64
}

func NewLocalBlobStorage(baseDir, baseURL string, maxSize int64) (*LocalBlobStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalBlobStorage{
		baseDir: baseDir,
		baseURL: baseURL,
		maxSize: maxSize,
	}, nil
}

func (s *LocalBlobStorage) Put(ctx context.Context, namespace, key string, src io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	filePath := filepath.Join(s.baseDir, namespace, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, io.LimitReader(src, s.maxSize+1))
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return "", 0, ctx.Err()
	}

	if size == 0 {
		_ = os.Remove(filePath)
		return "", 0, storage.ErrFileEmpty
	}
	if size > s.maxSize {
		_ = os.Remove(filePath)
		return "", 0, storage.ErrFileTooLarge
	}

	return s.publicURL(namespace, key), size, nil
}

// Delete removes a blob. Unreferenced blobs from aborted uploads are not
// collected automatically; this exists for tooling and tests.
func (s *LocalBlobStorage) Delete(ctx context.Context, namespace, key string) error {
	return os.Remove(filepath.Join(s.baseDir, namespace, filepath.FromSlash(key)))
}

func (s *LocalBlobStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalBlobStorage) publicURL(namespace, key string) string {
	return s.baseURL + "/" + path.Join(namespace, key)
}
