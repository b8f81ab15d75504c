package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raks-h21/muse-weave-27/internal/app"
	"github.com/raks-h21/muse-weave-27/internal/config"
	"github.com/raks-h21/muse-weave-27/internal/lib/logger/handlers/slogpretty"
	"github.com/raks-h21/muse-weave-27/internal/lib/logger/sl"

	_ "github.com/raks-h21/muse-weave-27/docs"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// @title MuseWeave API
// @version 1.0
// @description Personal media gallery service: artwork uploads, share links
// @description and guided gallery viewing sessions.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting museweave", slog.String("env", cfg.Env))

	application, err := app.New(context.Background(), log, cfg)
	if err != nil {
		log.Error("failed to build application", sl.Err(err))
		os.Exit(1)
	}

	go func() {
		application.HTTPServer.BuildRouters()
		application.HTTPServer.MustRun()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	<-stop

	if err := application.HTTPServer.Stop(); err != nil {
		log.Error("http server shutdown failed", sl.Err(err))
	}
	application.Stop()

	log.Info("gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
