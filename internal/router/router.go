// Package router defines how HTTP routes are registered for the API.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-showtimes/internal/config"
	"github.com/iliyamo/cinema-showtimes/internal/handler"
	"github.com/iliyamo/cinema-showtimes/internal/middleware"
)

// Deps carries everything the routes need.  Redis may be nil, in which case
// caching and rate limiting are skipped.
type Deps struct {
	DB          *sql.DB
	JWTSecret   string
	Redis       *redis.Client
	Cache       config.CacheConfig
	RateLimit   config.RateLimitConfig
	Showtimes   *handler.ShowtimesHandler
	Auth        *handler.AuthHandler
	Preferences *handler.PreferenceHandler
}

// Register mounts every route at the root and again under /api, the prefix
// the web frontend uses.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))

	optional := middleware.OptionalIdentity(d.JWTSecret)
	required := middleware.JWTAuth(d.JWTSecret)
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Showtimes.Dates.Today)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)

	for _, prefix := range []string{"", "/api"} {
		g := e.Group(prefix)
		registerCatalog(g, d.Showtimes, optional, cache)
		registerAccount(g, d.Auth, d.Preferences, required, limit)
	}
}

// registerCatalog mounts the read endpoints.  Each date-scoped route is
// registered with and without the trailing :date segment.  The cache runs
// after identity resolution so personalized responses bypass it.
func registerCatalog(g *echo.Group, h *handler.ShowtimesHandler, optional, cache echo.MiddlewareFunc) {
	g.GET("/current_movies/:city_id", h.CurrentMovies, cache)
	g.GET("/current_movies/:city_id/:date", h.CurrentMovies, cache)
	g.GET("/top_cinemas/:city_id", h.TopCinemas, cache)
	g.GET("/top_cinemas/:city_id/:date", h.TopCinemas, cache)

	g.GET("/movie_schedule/:city_id/:movie_id", h.MovieSchedule, optional, cache)
	g.GET("/movie_schedule/:city_id/:movie_id/:date", h.MovieSchedule, optional, cache)
	g.GET("/cinema_schedule/:cinema_id", h.CinemaSchedule, optional, cache)
	g.GET("/cinema_schedule/:cinema_id/:date", h.CinemaSchedule, optional, cache)

	g.GET("/movie/:movie_id", h.Movie, optional, cache)
	g.GET("/cinema/:cinema_id", h.Cinema, optional, cache)
}

func registerAccount(g *echo.Group, a *handler.AuthHandler, p *handler.PreferenceHandler, required, limit echo.MiddlewareFunc) {
	g.POST("/auth/register", a.Register, limit)
	g.POST("/auth/login", a.Login, limit)
	g.GET("/auth/me", a.Me, required)

	g.POST("/star_movie/:movie_id", p.StarMovie, required)
	g.POST("/favorite_cinema/:cinema_id", p.FavoriteCinema, required)
}
