package services_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	services "github.com/raks-h21/muse-weave-27/internal/services/artwork_service"
	"github.com/raks-h21/muse-weave-27/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockArtworkRepository struct {
	mock.Mock
}

func (m *MockArtworkRepository) InsertArtwork(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	args := m.Called(ctx, artwork)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) ListArtworks(ctx context.Context, galleryID uuid.UUID) ([]models.Artwork, error) {
	args := m.Called(ctx, galleryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) CountArtworks(ctx context.Context, galleryID uuid.UUID) (int, error) {
	args := m.Called(ctx, galleryID)
	return args.Int(0), args.Error(1)
}

func (m *MockArtworkRepository) MaxPosition(ctx context.Context, galleryID uuid.UUID) (int, bool, error) {
	args := m.Called(ctx, galleryID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) FindGalleriesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Gallery, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) InsertGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error) {
	args := m.Called(ctx, gallery)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) InsertDefaultGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, bool, error) {
	args := m.Called(ctx, gallery)
	return args.Get(0).(models.Gallery), args.Bool(1), args.Error(2)
}

func (m *MockGalleryRepository) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) FindGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) UpdateGalleryShare(ctx context.Context, id uuid.UUID, slug string, isPublic bool) error {
	args := m.Called(ctx, id, slug, isPublic)
	return args.Error(0)
}

func (m *MockGalleryRepository) ListOverviews(ctx context.Context, ownerID uuid.UUID) ([]models.GalleryOverview, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GalleryOverview), args.Error(1)
}

type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Put(ctx context.Context, namespace, key string, src io.Reader) (string, int64, error) {
	args := m.Called(ctx, namespace, key, src)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockBlobStorage) Delete(ctx context.Context, namespace, key string) error {
	args := m.Called(ctx, namespace, key)
	return args.Error(0)
}

func (m *MockBlobStorage) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func createTestFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	err = writer.Close()
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	file.Close()

	return header
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUploadArtwork_FirstArtworkGetsPositionZero(t *testing.T) {
	ownerID := uuid.New()
	galleryID := uuid.New()

	artworks := new(MockArtworkRepository)
	galleries := new(MockGalleryRepository)
	blobs := new(MockBlobStorage)

	galleries.On("GetGalleryByID", mock.Anything, galleryID).
		Return(models.Gallery{ID: galleryID, OwnerID: ownerID}, nil)
	blobs.On("Put", mock.Anything, "artworks", mock.Anything, mock.Anything).
		Return("http://localhost/uploads/artworks/img.jpg", int64(4), nil)
	artworks.On("MaxPosition", mock.Anything, galleryID).Return(0, false, nil)
	artworks.On("InsertArtwork", mock.Anything, mock.MatchedBy(func(a *models.Artwork) bool {
		return a.Position == 0 && a.AudioURL == nil
	})).Return(&models.Artwork{ID: uuid.New(), Position: 0}, nil)

	svc := services.NewArtworkService(testLogger(t), artworks, galleries, blobs)

	created, err := svc.UploadArtwork(context.Background(), dto.ArtworkUploadInput{
		GalleryID: galleryID,
		OwnerID:   ownerID,
		Title:     "Sunrise",
		Image:     createTestFile(t, "sunrise.jpg", "data"),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, created.Position)
	artworks.AssertExpectations(t)
	galleries.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestUploadArtwork_AppendsAfterMaxPosition(t *testing.T) {
	ownerID := uuid.New()
	galleryID := uuid.New()

	artworks := new(MockArtworkRepository)
	galleries := new(MockGalleryRepository)
	blobs := new(MockBlobStorage)

	galleries.On("GetGalleryByID", mock.Anything, galleryID).
		Return(models.Gallery{ID: galleryID, OwnerID: ownerID}, nil)
	blobs.On("Put", mock.Anything, "artworks", mock.Anything, mock.Anything).
		Return("http://localhost/uploads/artworks/img.jpg", int64(4), nil)
	blobs.On("Put", mock.Anything, "audio", mock.Anything, mock.Anything).
		Return("http://localhost/uploads/audio/track.mp3", int64(4), nil)
	artworks.On("MaxPosition", mock.Anything, galleryID).Return(6, true, nil)
	artworks.On("InsertArtwork", mock.Anything, mock.MatchedBy(func(a *models.Artwork) bool {
		// Gaps in the sequence are preserved: next is max+1, not count.
		return a.Position == 7 && a.AudioURL != nil
	})).Return(&models.Artwork{ID: uuid.New(), Position: 7}, nil)

	svc := services.NewArtworkService(testLogger(t), artworks, galleries, blobs)

	created, err := svc.UploadArtwork(context.Background(), dto.ArtworkUploadInput{
		GalleryID: galleryID,
		OwnerID:   ownerID,
		Title:     "Nocturne",
		Image:     createTestFile(t, "nocturne.jpg", "data"),
		Audio:     createTestFile(t, "nocturne.mp3", "data"),
	})

	require.NoError(t, err)
	assert.Equal(t, 7, created.Position)
	blobs.AssertNumberOfCalls(t, "Put", 2)
}

func TestUploadArtwork_ValidationRejectsBeforeAnyCall(t *testing.T) {
	artworks := new(MockArtworkRepository)
	galleries := new(MockGalleryRepository)
	blobs := new(MockBlobStorage)

	svc := services.NewArtworkService(testLogger(t), artworks, galleries, blobs)

	_, err := svc.UploadArtwork(context.Background(), dto.ArtworkUploadInput{
		GalleryID: uuid.New(),
		OwnerID:   uuid.New(),
		Image:     createTestFile(t, "a.jpg", "data"),
	})
	assert.ErrorIs(t, err, services.ErrTitleRequired)

	_, err = svc.UploadArtwork(context.Background(), dto.ArtworkUploadInput{
		GalleryID: uuid.New(),
		OwnerID:   uuid.New(),
		Title:     "No image",
	})
	assert.ErrorIs(t, err, services.ErrImageRequired)

	galleries.AssertNotCalled(t, "GetGalleryByID")
	blobs.AssertNotCalled(t, "Put")
	artworks.AssertNotCalled(t, "InsertArtwork")
}

func TestUploadArtwork_RejectsForeignGallery(t *testing.T) {
	galleryID := uuid.New()

	artworks := new(MockArtworkRepository)
	galleries := new(MockGalleryRepository)
	blobs := new(MockBlobStorage)

	galleries.On("GetGalleryByID", mock.Anything, galleryID).
		Return(models.Gallery{ID: galleryID, OwnerID: uuid.New()}, nil)

	svc := services.NewArtworkService(testLogger(t), artworks, galleries, blobs)

	_, err := svc.UploadArtwork(context.Background(), dto.ArtworkUploadInput{
		GalleryID: galleryID,
		OwnerID:   uuid.New(),
		Title:     "Stolen",
		Image:     createTestFile(t, "a.jpg", "data"),
	})

	assert.ErrorIs(t, err, services.ErrNotOwner)
	blobs.AssertNotCalled(t, "Put")
}

func TestUploadArtwork_ImageWriteFailureAborts(t *testing.T) {
	ownerID := uuid.New()
	galleryID := uuid.New()

	artworks := new(MockArtworkRepository)
	galleries := new(MockGalleryRepository)
	blobs := new(MockBlobStorage)

	galleries.On("GetGalleryByID", mock.Anything, galleryID).
		Return(models.Gallery{ID: galleryID, OwnerID: ownerID}, nil)
	blobs.On("Put", mock.Anything, "artworks", mock.Anything, mock.Anything).
		Return("", int64(0), assert.AnError)

	svc := services.NewArtworkService(testLogger(t), artworks, galleries, blobs)

	_, err := svc.UploadArtwork(context.Background(), dto.ArtworkUploadInput{
		GalleryID: galleryID,
		OwnerID:   ownerID,
		Title:     "Broken",
		Image:     createTestFile(t, "a.jpg", "data"),
	})

	assert.ErrorIs(t, err, services.ErrAssetWrite)
	artworks.AssertNotCalled(t, "InsertArtwork")
	artworks.AssertNotCalled(t, "MaxPosition")
}

func TestUploadArtwork_AudioWriteFailureAborts(t *testing.T) {
	ownerID := uuid.New()
	galleryID := uuid.New()

	artworks := new(MockArtworkRepository)
	galleries := new(MockGalleryRepository)
	blobs := new(MockBlobStorage)

	galleries.On("GetGalleryByID", mock.Anything, galleryID).
		Return(models.Gallery{ID: galleryID, OwnerID: ownerID}, nil)
	blobs.On("Put", mock.Anything, "artworks", mock.Anything, mock.Anything).
		Return("http://localhost/uploads/artworks/img.jpg", int64(4), nil)
	blobs.On("Put", mock.Anything, "audio", mock.Anything, mock.Anything).
		Return("", int64(0), assert.AnError)

	svc := services.NewArtworkService(testLogger(t), artworks, galleries, blobs)

	_, err := svc.UploadArtwork(context.Background(), dto.ArtworkUploadInput{
		GalleryID: galleryID,
		OwnerID:   ownerID,
		Title:     "Half done",
		Image:     createTestFile(t, "a.jpg", "data"),
		Audio:     createTestFile(t, "a.mp3", "data"),
	})

	assert.ErrorIs(t, err, services.ErrAssetWrite)
	artworks.AssertNotCalled(t, "InsertArtwork")
}

func TestListArtworks(t *testing.T) {
	galleryID := uuid.New()

	artworks := new(MockArtworkRepository)
	want := []models.Artwork{
		{ID: uuid.New(), Position: 0},
		{ID: uuid.New(), Position: 2},
	}
	artworks.On("ListArtworks", mock.Anything, galleryID).Return(want, nil)

	svc := services.NewArtworkService(testLogger(t), artworks, new(MockGalleryRepository), new(MockBlobStorage))

	got, err := svc.ListArtworks(context.Background(), galleryID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
