package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/lib/logger/sl"
	"github.com/raks-h21/muse-weave-27/internal/metrics"
	"github.com/raks-h21/muse-weave-27/internal/playback"
	artworksvc "github.com/raks-h21/muse-weave-27/internal/services/artwork_service"
	sharesvc "github.com/raks-h21/muse-weave-27/internal/services/share_service"
	usersvc "github.com/raks-h21/muse-weave-27/internal/services/user_service"
	"github.com/raks-h21/muse-weave-27/internal/storage"
	"github.com/raks-h21/muse-weave-27/internal/transport/http/dto"
	"github.com/raks-h21/muse-weave-27/internal/transport/http/dto/request"
	"github.com/raks-h21/muse-weave-27/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Login(ctx context.Context, identifier, password string) (*models.TokenPair, error)
	RegisterNewUser(ctx context.Context, username, email, password string) (uuid.UUID, error)
	RefreshTokens(ctx context.Context, userID uuid.UUID, refreshToken string) (*models.TokenPair, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type GalleryService interface {
	ResolveOrCreate(ctx context.Context, owner models.User) (models.Gallery, error)
	ListOverviews(ctx context.Context, owner models.User) ([]models.GalleryOverview, error)
}

type ArtworkService interface {
	UploadArtwork(ctx context.Context, input dto.ArtworkUploadInput) (*models.Artwork, error)
	ListArtworks(ctx context.Context, galleryID uuid.UUID) ([]models.Artwork, error)
}

type ShareService interface {
	IssueShareLink(ctx context.Context, galleryID, ownerID uuid.UUID) (url, slug string, err error)
	ResolveShareSlug(ctx context.Context, slug string) (uuid.UUID, error)
}

// ViewerManager owns the live playback engines keyed by viewer id.
type ViewerManager interface {
	Open(ctx context.Context, galleryID uuid.UUID, isOwner bool) (*playback.Viewer, error)
	Get(viewerID string) (*playback.Viewer, error)
	Close(viewerID string)
	Lister() playback.ArtworkLister
}

type Routers struct {
	log            *slog.Logger
	UserService    UserService
	GalleryService GalleryService
	ArtworkService ArtworkService
	ShareService   ShareService
	Viewers        ViewerManager
}

func NewRouter(
	log *slog.Logger,
	userService UserService,
	galleryService GalleryService,
	artworkService ArtworkService,
	shareService ShareService,
	viewers ViewerManager,
) *Routers {
	return &Routers{
		log:            log,
		UserService:    userService,
		GalleryService: galleryService,
		ArtworkService: artworkService,
		ShareService:   shareService,
		Viewers:        viewers,
	}
}

// Register godoc
// @Summary Register a new account
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserRegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(slog.String("op", op))

	var req dto.UserRegisterInput
	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	userID, err := r.UserService.RegisterNewUser(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserExist) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}
		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"user_id": userID,
	}))
}

// Login godoc
// @Summary Sign in with email/username and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("identifier", req.Identifier))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.UserService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// Refresh godoc
// @Summary Rotate the refresh token and issue a new token pair
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(slog.String("op", op))

	var req request.RefreshRequest
	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.UserService.RefreshTokens(c.Request().Context(), userID, req.RefreshToken)
	if err != nil {
		log.Warn("refresh failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// SignOut godoc
// @Summary Sign out and revoke all refresh tokens
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/logout [post]
func (r *Routers) SignOut(c echo.Context) error {
	const op = "http.routers.SignOut"

	userID, err := CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.UserService.SignOut(c.Request().Context(), userID); err != nil {
		r.log.Error("sign out failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse("signed out"))
}

// OpenOwnGallery godoc
// @Summary Open the caller's gallery, auto-creating it on first visit
// @Description Resolves the authenticated user's first gallery (creating a
// @Description default one when none exists) and opens a viewing session on it.
// @Tags gallery
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/gallery [get]
func (r *Routers) OpenOwnGallery(c echo.Context) error {
	const op = "http.routers.OpenOwnGallery"

	log := r.log.With(slog.String("op", op))

	userID, err := CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	user, err := r.UserService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	gallery, err := r.GalleryService.ResolveOrCreate(c.Request().Context(), user)
	if err != nil {
		log.Error("failed to resolve gallery", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	viewer, err := r.Viewers.Open(c.Request().Context(), gallery.ID, true)
	if err != nil {
		log.Error("failed to open viewer", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	r.rememberViewer(c, viewer.ID)

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]interface{}{
		"gallery": dto.NewGalleryResponse(gallery),
		"viewer":  dto.NewViewerStateResponse(viewer.ID, true, viewer.Snapshot()),
	}))
}

// ListGalleries godoc
// @Summary List the caller's galleries with artwork counts
// @Tags gallery
// @Produce json
// @Success 200 {object} dto.GalleryListResponse
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/galleries [get]
func (r *Routers) ListGalleries(c echo.Context) error {
	const op = "http.routers.ListGalleries"

	log := r.log.With(slog.String("op", op))

	userID, err := CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	user, err := r.UserService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	overviews, err := r.GalleryService.ListOverviews(c.Request().Context(), user)
	if err != nil {
		log.Error("failed to list galleries", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	resp := dto.GalleryListResponse{Total: len(overviews)}
	for _, o := range overviews {
		resp.Galleries = append(resp.Galleries, dto.GalleryOverviewResponse{
			GalleryResponse: dto.NewGalleryResponse(o.Gallery),
			ArtworkCount:    o.ArtworkCount,
			CoverImages:     o.CoverImages,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// UploadArtwork godoc
// @Summary Upload an artwork into a gallery
// @Description Multipart upload: required image, optional audio narration.
// @Description The artwork is appended at the end of the gallery's order.
// @Tags artworks
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Gallery UUID" format(uuid)
// @Param title formData string true "Artwork title"
// @Param description formData string false "Artwork description"
// @Param image formData file true "Image file"
// @Param audio formData file false "Audio narration file"
// @Success 201 {object} dto.ArtworkResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/galleries/{id}/artworks [post]
func (r *Routers) UploadArtwork(c echo.Context) error {
	const op = "http.routers.UploadArtwork"

	log := r.log.With(slog.String("op", op))

	userID, err := CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	galleryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid gallery ID format"))
	}

	image, err := c.FormFile("image")
	if err != nil {
		log.Warn("image missing from request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "Image is required"))
	}

	// Audio is optional; a missing part is not an error.
	audio, err := c.FormFile("audio")
	if err != nil {
		audio = nil
	}

	input := dto.ArtworkUploadInput{
		GalleryID:   galleryID,
		OwnerID:     userID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Image:       image,
		Audio:       audio,
	}

	artwork, err := r.ArtworkService.UploadArtwork(c.Request().Context(), input)
	if err != nil {
		metrics.ArtworkUploadsTotal.WithLabelValues("error").Inc()

		switch {
		case errors.Is(err, artworksvc.ErrTitleRequired), errors.Is(err, artworksvc.ErrImageRequired):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "Title and image are required"))
		case errors.Is(err, artworksvc.ErrNotOwner):
			return c.JSON(http.StatusForbidden, response.ErrorResponseWithDetails("forbidden", "Not the gallery owner"))
		case errors.Is(err, storage.ErrGalleryNotFound):
			return c.JSON(http.StatusNotFound, response.ErrGalleryNotAvailable)
		}

		log.Error("upload failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("upload_failed", "Failed to upload artwork"))
	}

	metrics.ArtworkUploadsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusCreated, dto.NewArtworkResponse(*artwork))
}

// IssueShareLink godoc
// @Summary Issue a public share link for a gallery
// @Description Generates a new slug and makes the gallery public. A repeated
// @Description call replaces the slug and invalidates older links.
// @Tags share
// @Produce json
// @Param id path string true "Gallery UUID" format(uuid)
// @Success 200 {object} dto.ShareLinkResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/galleries/{id}/share [post]
func (r *Routers) IssueShareLink(c echo.Context) error {
	const op = "http.routers.IssueShareLink"

	log := r.log.With(slog.String("op", op))

	userID, err := CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	galleryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid gallery ID format"))
	}

	url, slug, err := r.ShareService.IssueShareLink(c.Request().Context(), galleryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, sharesvc.ErrNotOwner):
			return c.JSON(http.StatusForbidden, response.ErrorResponseWithDetails("forbidden", "Not the gallery owner"))
		case errors.Is(err, storage.ErrGalleryNotFound):
			return c.JSON(http.StatusNotFound, response.ErrGalleryNotAvailable)
		}

		log.Error("failed to issue share link", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to generate share link"))
	}

	metrics.ShareLinksIssuedTotal.Inc()

	return c.JSON(http.StatusOK, dto.ShareLinkResponse{ShareURL: url, Slug: slug})
}

// OpenSharedGallery godoc
// @Summary Open a shared gallery by slug
// @Description Resolves a share slug and opens a read-only viewing session.
// @Description Unknown slugs and private galleries fail identically.
// @Tags share
// @Produce json
// @Param slug path string true "Share slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /shared/{slug} [get]
func (r *Routers) OpenSharedGallery(c echo.Context) error {
	const op = "http.routers.OpenSharedGallery"

	log := r.log.With(slog.String("op", op))

	galleryID, err := r.ShareService.ResolveShareSlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		// NotFound and private are distinct internally but must read the
		// same to the outside: never confirm a private gallery exists.
		if errors.Is(err, storage.ErrGalleryNotFound) || errors.Is(err, storage.ErrGalleryPrivate) {
			log.Warn("slug resolution rejected", sl.Err(err))
			return c.JSON(http.StatusNotFound, response.ErrGalleryNotAvailable)
		}

		log.Error("slug resolution failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	viewer, err := r.Viewers.Open(c.Request().Context(), galleryID, false)
	if err != nil {
		log.Error("failed to open viewer", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	r.rememberViewer(c, viewer.ID)

	return c.JSON(http.StatusOK, response.SuccessResponse(
		dto.NewViewerStateResponse(viewer.ID, false, viewer.Snapshot()),
	))
}

// ViewerState godoc
// @Summary Current state of a viewing session
// @Tags viewer
// @Produce json
// @Param viewer_id path string true "Viewer ID"
// @Success 200 {object} dto.ViewerStateResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/viewers/{viewer_id} [get]
func (r *Routers) ViewerState(c echo.Context) error {
	viewer, err := r.Viewers.Get(c.Param("viewer_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrViewerExpired)
	}

	return c.JSON(http.StatusOK, dto.NewViewerStateResponse(viewer.ID, viewer.IsOwner, viewer.Snapshot()))
}

// NextArtwork godoc
// @Summary Advance the viewer to the next artwork
// @Description No-op at the last artwork. Any playing audio stops first.
// @Tags viewer
// @Produce json
// @Param viewer_id path string true "Viewer ID"
// @Success 200 {object} dto.ViewerStateResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/viewers/{viewer_id}/next [post]
func (r *Routers) NextArtwork(c echo.Context) error {
	viewer, err := r.Viewers.Get(c.Param("viewer_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrViewerExpired)
	}

	return c.JSON(http.StatusOK, dto.NewViewerStateResponse(viewer.ID, viewer.IsOwner, viewer.Next()))
}

// PreviousArtwork godoc
// @Summary Step the viewer back to the previous artwork
// @Description No-op at the first artwork. Any playing audio stops first.
// @Tags viewer
// @Produce json
// @Param viewer_id path string true "Viewer ID"
// @Success 200 {object} dto.ViewerStateResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/viewers/{viewer_id}/previous [post]
func (r *Routers) PreviousArtwork(c echo.Context) error {
	viewer, err := r.Viewers.Get(c.Param("viewer_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrViewerExpired)
	}

	return c.JSON(http.StatusOK, dto.NewViewerStateResponse(viewer.ID, viewer.IsOwner, viewer.Previous()))
}

// ToggleAudio godoc
// @Summary Toggle narration audio for the current artwork
// @Description No-op when the artwork has no audio track. Pausing keeps the
// @Description position; switching artworks always restarts from the beginning.
// @Tags viewer
// @Produce json
// @Param viewer_id path string true "Viewer ID"
// @Success 200 {object} dto.ViewerStateResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/viewers/{viewer_id}/audio [post]
func (r *Routers) ToggleAudio(c echo.Context) error {
	viewer, err := r.Viewers.Get(c.Param("viewer_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrViewerExpired)
	}

	return c.JSON(http.StatusOK, dto.NewViewerStateResponse(viewer.ID, viewer.IsOwner, viewer.ToggleAudio()))
}

// AudioEnded godoc
// @Summary Report that the current narration track finished
// @Description Clears the playing flag without moving the cursor.
// @Tags viewer
// @Produce json
// @Param viewer_id path string true "Viewer ID"
// @Success 200 {object} dto.ViewerStateResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/viewers/{viewer_id}/audio/ended [post]
func (r *Routers) AudioEnded(c echo.Context) error {
	viewer, err := r.Viewers.Get(c.Param("viewer_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrViewerExpired)
	}

	return c.JSON(http.StatusOK, dto.NewViewerStateResponse(viewer.ID, viewer.IsOwner, viewer.AudioEnded()))
}

// ReloadViewer godoc
// @Summary Reload the viewer's artwork sequence
// @Description Refreshes the cached sequence after an upload, resetting the
// @Description cursor to the first artwork.
// @Tags viewer
// @Produce json
// @Param viewer_id path string true "Viewer ID"
// @Success 200 {object} dto.ViewerStateResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/viewers/{viewer_id}/reload [post]
func (r *Routers) ReloadViewer(c echo.Context) error {
	const op = "http.routers.ReloadViewer"

	viewer, err := r.Viewers.Get(c.Param("viewer_id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrViewerExpired)
	}

	snap, err := viewer.Reload(c.Request().Context(), r.Viewers.Lister())
	if err != nil {
		r.log.Error("failed to reload viewer", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, dto.NewViewerStateResponse(viewer.ID, viewer.IsOwner, snap))
}

// CloseViewer godoc
// @Summary Close a viewing session
// @Description Tears the engine down immediately, releasing any audio session.
// @Tags viewer
// @Param viewer_id path string true "Viewer ID"
// @Success 204
// @Router /api/v1/viewers/{viewer_id} [delete]
func (r *Routers) CloseViewer(c echo.Context) error {
	r.Viewers.Close(c.Param("viewer_id"))
	return c.NoContent(http.StatusNoContent)
}

// rememberViewer stores the viewer id in the cookie session so a page reload
// can find its way back to the live engine.
func (r *Routers) rememberViewer(c echo.Context, viewerID string) {
	sess, err := session.Get("session", c)
	if err != nil {
		return
	}
	sess.Values["viewer_id"] = viewerID
	_ = sess.Save(c.Request(), c.Response())
}

// CurrentUserID returns the authenticated user id placed into the context by
// the JWT middleware.
func CurrentUserID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get("uid").(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("no authenticated user in context")
	}
	return id, nil
}
