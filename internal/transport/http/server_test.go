package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/playback"
	"github.com/raks-h21/muse-weave-27/internal/storage"
	transport "github.com/raks-h21/muse-weave-27/internal/transport/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) IssueShareLink(ctx context.Context, galleryID, ownerID uuid.UUID) (string, string, error) {
	args := m.Called(ctx, galleryID, ownerID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockShareService) ResolveShareSlug(ctx context.Context, slug string) (uuid.UUID, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type stubLister struct {
	artworks []models.Artwork
}

func (l *stubLister) ListArtworks(_ context.Context, _ uuid.UUID) ([]models.Artwork, error) {
	return l.artworks, nil
}

func galleryArtworks(n int) []models.Artwork {
	artworks := make([]models.Artwork, n)
	for i := range artworks {
		artworks[i] = models.Artwork{
			ID:       uuid.New(),
			Title:    fmt.Sprintf("artwork %d", i),
			ImageURL: fmt.Sprintf("http://test.local/uploads/artworks/%d.jpg", i),
			Position: i,
		}
	}
	return artworks
}

func setupRouters(t *testing.T, shares *MockShareService, lister playback.ArtworkLister) (*echo.Echo, *transport.Routers) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := playback.NewManager(log, playback.NewClockPlayer(), lister, time.Minute)
	routers := transport.NewRouter(log, nil, nil, nil, shares, manager)

	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test"))))

	return e, routers
}

func doRequest(e *echo.Echo, handler echo.HandlerFunc, method, target string, params map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}

	// Run through the session middleware so handlers can touch the cookie
	// session.
	h := session.Middleware(sessions.NewCookieStore([]byte("test")))(handler)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestOpenSharedGallery(t *testing.T) {
	galleryID := uuid.New()

	shares := new(MockShareService)
	shares.On("ResolveShareSlug", mock.Anything, "111-aaaaaaa").Return(galleryID, nil)

	e, routers := setupRouters(t, shares, &stubLister{artworks: galleryArtworks(3)})

	rec := doRequest(e, routers.OpenSharedGallery, nethttp.MethodGet, "/shared/111-aaaaaaa", map[string]string{"slug": "111-aaaaaaa"})

	require.Equal(t, nethttp.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ViewerID string `json:"viewer_id"`
			IsOwner  bool   `json:"is_owner"`
			State    string `json:"state"`
			Index    int    `json:"index"`
			Total    int    `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Data.ViewerID)
	assert.False(t, resp.Data.IsOwner)
	assert.Equal(t, "browsing", resp.Data.State)
	assert.Equal(t, 1, resp.Data.Index)
	assert.Equal(t, 3, resp.Data.Total)
}

func TestOpenSharedGallery_UnknownAndPrivateLookTheSame(t *testing.T) {
	shares := new(MockShareService)
	shares.On("ResolveShareSlug", mock.Anything, "unknown").
		Return(uuid.Nil, fmt.Errorf("resolve: %w", storage.ErrGalleryNotFound))
	shares.On("ResolveShareSlug", mock.Anything, "private").
		Return(uuid.Nil, fmt.Errorf("resolve: %w", storage.ErrGalleryPrivate))

	e, routers := setupRouters(t, shares, &stubLister{})

	recUnknown := doRequest(e, routers.OpenSharedGallery, nethttp.MethodGet, "/shared/unknown", map[string]string{"slug": "unknown"})
	recPrivate := doRequest(e, routers.OpenSharedGallery, nethttp.MethodGet, "/shared/private", map[string]string{"slug": "private"})

	assert.Equal(t, nethttp.StatusNotFound, recUnknown.Code)
	assert.Equal(t, nethttp.StatusNotFound, recPrivate.Code)
	// The response bodies must not distinguish the two cases.
	assert.Equal(t, recUnknown.Body.String(), recPrivate.Body.String())
}

func TestViewerNavigationEndpoints(t *testing.T) {
	galleryID := uuid.New()

	shares := new(MockShareService)
	shares.On("ResolveShareSlug", mock.Anything, mock.Anything).Return(galleryID, nil)

	e, routers := setupRouters(t, shares, &stubLister{artworks: galleryArtworks(2)})

	rec := doRequest(e, routers.OpenSharedGallery, nethttp.MethodGet, "/shared/s", map[string]string{"slug": "s"})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var opened struct {
		Data struct {
			ViewerID string `json:"viewer_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))
	viewerID := opened.Data.ViewerID

	next := doRequest(e, routers.NextArtwork, nethttp.MethodPost, "/api/v1/viewers/"+viewerID+"/next", map[string]string{"viewer_id": viewerID})
	require.Equal(t, nethttp.StatusOK, next.Code)

	var state struct {
		Index int `json:"index"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(next.Body.Bytes(), &state))
	assert.Equal(t, 2, state.Index)

	// At the end; another advance stays put.
	next = doRequest(e, routers.NextArtwork, nethttp.MethodPost, "/api/v1/viewers/"+viewerID+"/next", map[string]string{"viewer_id": viewerID})
	require.NoError(t, json.Unmarshal(next.Body.Bytes(), &state))
	assert.Equal(t, 2, state.Index)

	prev := doRequest(e, routers.PreviousArtwork, nethttp.MethodPost, "/api/v1/viewers/"+viewerID+"/previous", map[string]string{"viewer_id": viewerID})
	require.NoError(t, json.Unmarshal(prev.Body.Bytes(), &state))
	assert.Equal(t, 1, state.Index)
}

func TestViewerEndpoints_ExpiredViewer(t *testing.T) {
	e, routers := setupRouters(t, new(MockShareService), &stubLister{})

	gone := uuid.NewString()
	for _, h := range []echo.HandlerFunc{
		routers.ViewerState,
		routers.NextArtwork,
		routers.PreviousArtwork,
		routers.ToggleAudio,
		routers.AudioEnded,
	} {
		rec := doRequest(e, h, nethttp.MethodPost, "/api/v1/viewers/"+gone, map[string]string{"viewer_id": gone})
		assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	}
}

func TestCloseViewer(t *testing.T) {
	galleryID := uuid.New()

	shares := new(MockShareService)
	shares.On("ResolveShareSlug", mock.Anything, mock.Anything).Return(galleryID, nil)

	e, routers := setupRouters(t, shares, &stubLister{artworks: galleryArtworks(1)})

	rec := doRequest(e, routers.OpenSharedGallery, nethttp.MethodGet, "/shared/s", map[string]string{"slug": "s"})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var opened struct {
		Data struct {
			ViewerID string `json:"viewer_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))

	closeRec := doRequest(e, routers.CloseViewer, nethttp.MethodDelete, "/api/v1/viewers/"+opened.Data.ViewerID, map[string]string{"viewer_id": opened.Data.ViewerID})
	assert.Equal(t, nethttp.StatusNoContent, closeRec.Code)

	stateRec := doRequest(e, routers.ViewerState, nethttp.MethodGet, "/api/v1/viewers/"+opened.Data.ViewerID, map[string]string{"viewer_id": opened.Data.ViewerID})
	assert.Equal(t, nethttp.StatusNotFound, stateRec.Code)
}
