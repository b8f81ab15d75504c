package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "github.com/raks-h21/muse-weave-27/internal/app/http"
	"github.com/raks-h21/muse-weave-27/internal/config"
	"github.com/raks-h21/muse-weave-27/internal/playback"
	"github.com/raks-h21/muse-weave-27/internal/repository"
	artworksvc "github.com/raks-h21/muse-weave-27/internal/services/artwork_service"
	gallerysvc "github.com/raks-h21/muse-weave-27/internal/services/gallery_service"
	sharesvc "github.com/raks-h21/muse-weave-27/internal/services/share_service"
	usersvc "github.com/raks-h21/muse-weave-27/internal/services/user_service"
	"github.com/raks-h21/muse-weave-27/internal/storage/filestorage"
	"github.com/raks-h21/muse-weave-27/internal/storage/postgresql"
	redisstorage "github.com/raks-h21/muse-weave-27/internal/storage/redis"
	httprouters "github.com/raks-h21/muse-weave-27/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redisstorage.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	pool, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(pool)

	redisClient := redisstorage.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tokens := repository.NewRedisTokenRepo(redisClient)

	blobs, err := filestorage.NewLocalBlobStorage(cfg.BlobStorage.BaseDir, cfg.BlobStorage.BaseURL, cfg.BlobStorage.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	userService := usersvc.NewUserService(log, repo.User, tokens, cfg.TokenSecret, cfg.TokenTTL, cfg.RefreshTTL)
	galleryService := gallerysvc.NewGalleryService(log, repo.Gallery)
	artworkService := artworksvc.NewArtworkService(log, repo.Artwork, repo.Gallery, blobs)
	shareService := sharesvc.NewShareService(log, repo.Gallery, cfg.Share.Origin)

	viewers := playback.NewManager(log, playback.NewClockPlayer(), artworkService, cfg.ViewerTTL)

	routers := httprouters.NewRouter(log, userService, galleryService, artworkService, shareService, viewers)

	server := httpapp.New(log, cfg.TokenSecret, cfg.HTTP.Host, cfg.HTTP.Port, cfg.BlobStorage.BaseDir, routers)

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}, nil
}

// Stop releases everything the app holds open. Safe to call once after the
// HTTP server has shut down.
func (a *App) Stop() {
	a.repo.Close()
	_ = a.redis.Close()
}
