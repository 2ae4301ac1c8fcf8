package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-showtimes/internal/config"
	"github.com/iliyamo/cinema-showtimes/internal/database"
	"github.com/iliyamo/cinema-showtimes/internal/handler"
	"github.com/iliyamo/cinema-showtimes/internal/logging"
	"github.com/iliyamo/cinema-showtimes/internal/repository"
	"github.com/iliyamo/cinema-showtimes/internal/router"
	"github.com/iliyamo/cinema-showtimes/internal/schedule"
	"github.com/iliyamo/cinema-showtimes/internal/service"
	"github.com/iliyamo/cinema-showtimes/internal/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("read .env")
	}

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	events := service.NewPublisher(config.LoadQueueConfig())

	users := repository.NewUserRepo(db)
	prefs := repository.NewPreferenceRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Validator = validation.Echo{}
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logging.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	router.Register(e, router.Deps{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Showtimes: &handler.ShowtimesHandler{
			Movies:   repository.NewMovieRepo(db),
			Cinemas:  repository.NewCinemaRepo(db),
			Sessions: repository.NewSessionRepo(db),
			Links:    schedule.Links{Ticket: cfg.TicketURLTemplate, Catalog: cfg.CatalogURLTemplate},
			Dates:    handler.Dates{Location: cfg.Location},
		},
		Auth:        handler.NewAuthHandler(cfg, users, prefs, events),
		Preferences: &handler.PreferenceHandler{Prefs: prefs, Events: events},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
}
