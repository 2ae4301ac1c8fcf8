package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtimes/internal/middleware"
	"github.com/iliyamo/cinema-showtimes/internal/queue"
	"github.com/iliyamo/cinema-showtimes/internal/repository"
	"github.com/iliyamo/cinema-showtimes/internal/service"
)

// PreferenceHandler toggles the caller's starred movies and favorite
// cinemas.  Both routes require an identity.
type PreferenceHandler struct {
	Prefs  *repository.PreferenceRepo
	Events service.Publisher
}

type starReq struct {
	Star *bool `json:"star" validate:"required"`
}

type favoriteReq struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

// StarMovie sets or clears a star.  Repeating a call is a no-op.
// POST /star_movie/:movie_id {star}
func (h *PreferenceHandler) StarMovie(c echo.Context) error {
	movieID, ok := pathID(c, "movie_id")
	if !ok {
		return badID(c)
	}
	var req starReq
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, "star is required", err)
	}
	return h.toggle(c, queue.KindStar, movieID, *req.Star, "star", "movie not found", h.Prefs.SetStar)
}

// FavoriteCinema adds or removes a favorite cinema.
// POST /favorite_cinema/:cinema_id {favorite}
func (h *PreferenceHandler) FavoriteCinema(c echo.Context) error {
	cinemaID, ok := pathID(c, "cinema_id")
	if !ok {
		return badID(c)
	}
	var req favoriteReq
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, "favorite is required", err)
	}
	return h.toggle(c, queue.KindFavorite, cinemaID, *req.Favorite, "favorite", "cinema not found", h.Prefs.SetFavorite)
}

type setFunc func(ctx context.Context, userID, id uint64, on bool) (bool, error)

func (h *PreferenceHandler) toggle(c echo.Context, kind string, id uint64, on bool, field, notFound string, set setFunc) error {
	uid, ok := middleware.IdentityFrom(c).UserID()
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Missing Authorization Header"})
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	changed, err := set(ctx, uid, id, on)
	switch {
	case errors.Is(err, repository.ErrUnknownUser):
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "invalid token"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound})
	case err != nil:
		return dbError(c, err)
	}

	if changed {
		publish(c, h.Events, queue.PreferencesChangedQueue, queue.PreferenceChangedEvent{
			UserID:    uid,
			Kind:      kind,
			TargetID:  id,
			On:        on,
			ChangedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{field: on})
}
