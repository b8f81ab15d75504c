package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/lib/jwt"
	appmw "github.com/raks-h21/muse-weave-27/internal/middleware"
	httprouters "github.com/raks-h21/muse-weave-27/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log       *slog.Logger
	e         *echo.Echo
	routers   *httprouters.Routers
	host      string
	port      string
	token     string
	uploadDir string
}

func New(log *slog.Logger, token string, host, port, uploadDir string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(token))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:       log,
		e:         e,
		routers:   routers,
		host:      host,
		port:      port,
		token:     token,
		uploadDir: uploadDir,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// authMiddleware parses the Bearer token and puts the user id into the
// request context for the handlers.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		userID, err := jwt.ParseUserID(raw, s.token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
		}

		c.Set("uid", userID)

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.Static("/uploads", s.uploadDir)

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// Shared galleries and viewer controls stay public: a share link must
	// work without an account.
	s.e.GET("/shared/:slug", s.routers.OpenSharedGallery)

	viewers := s.e.Group("/api/v1/viewers")
	{
		viewers.GET("/:viewer_id", s.routers.ViewerState)
		viewers.POST("/:viewer_id/next", s.routers.NextArtwork)
		viewers.POST("/:viewer_id/previous", s.routers.PreviousArtwork)
		viewers.POST("/:viewer_id/audio", s.routers.ToggleAudio)
		viewers.POST("/:viewer_id/audio/ended", s.routers.AudioEnded)
		viewers.POST("/:viewer_id/reload", s.routers.ReloadViewer)
		viewers.DELETE("/:viewer_id", s.routers.CloseViewer)
	}

	api := s.e.Group("/api/v1")
	{
		api.POST("/register", s.routers.Register)
		api.POST("/login", s.routers.Login)
		api.POST("/refresh", s.routers.Refresh)
		api.POST("/logout", s.routers.SignOut, s.authMiddleware)

		api.GET("/gallery", s.routers.OpenOwnGallery, s.authMiddleware)
		api.GET("/galleries", s.routers.ListGalleries, s.authMiddleware)

		galleryGroup := api.Group("/galleries", s.authMiddleware)
		{
			galleryGroup.POST("/:id/artworks", s.routers.UploadArtwork)
			galleryGroup.POST("/:id/share", s.routers.IssueShareLink)
		}
	}
}
