// Package handler exposes the HTTP handlers of the showtimes API.  This
// file holds the public catalog endpoints: listings, schedules and detail
// pages.  Schedule and detail responses are personalized when the request
// carries an identity.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtimes/internal/middleware"
	"github.com/iliyamo/cinema-showtimes/internal/repository"
	"github.com/iliyamo/cinema-showtimes/internal/schedule"
)

// ShowtimesHandler serves the read-only catalog.
type ShowtimesHandler struct {
	Movies   *repository.MovieRepo
	Cinemas  *repository.CinemaRepo
	Sessions *repository.SessionRepo
	Links    schedule.Links
	Dates    Dates
}

// CurrentMovies lists the movies screening in a city on a day.
// GET /current_movies/:city_id[/:date]
func (h *ShowtimesHandler) CurrentMovies(c echo.Context) error {
	cityID, ok := pathID(c, "city_id")
	if !ok {
		return badID(c)
	}
	date, ok := h.Dates.Resolve(c)
	if !ok {
		return badDate(c)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	movies, err := h.Movies.ListCurrent(ctx, cityID, date)
	if err != nil {
		return dbError(c, err)
	}
	if movies == nil {
		movies = []repository.CurrentMovie{}
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies, "date": date})
}

// TopCinemas lists the cinemas of a city by number of sessions on a day.
// GET /top_cinemas/:city_id[/:date]
func (h *ShowtimesHandler) TopCinemas(c echo.Context) error {
	cityID, ok := pathID(c, "city_id")
	if !ok {
		return badID(c)
	}
	date, ok := h.Dates.Resolve(c)
	if !ok {
		return badDate(c)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	cinemas, err := h.Cinemas.ListTop(ctx, cityID, date)
	if err != nil {
		return dbError(c, err)
	}
	if cinemas == nil {
		cinemas = []repository.TopCinema{}
	}
	return c.JSON(http.StatusOK, echo.Map{"cinemas": cinemas, "date": date, "city_id": cityID})
}

// MovieSchedule returns a movie's sessions in a city grouped by cinema,
// the caller's favorite cinemas first.
// GET /movie_schedule/:city_id/:movie_id[/:date]
func (h *ShowtimesHandler) MovieSchedule(c echo.Context) error {
	cityID, ok := pathID(c, "city_id")
	if !ok {
		return badID(c)
	}
	movieID, ok := pathID(c, "movie_id")
	if !ok {
		return badID(c)
	}
	date, ok := h.Dates.Resolve(c)
	if !ok {
		return badDate(c)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	rows, err := h.Sessions.MovieSchedule(ctx, cityID, movieID, date, middleware.IdentityFrom(c))
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"schedule": h.Links.ByCinema(rows), "date": date})
}

// CinemaSchedule returns a cinema's sessions grouped by movie, the
// caller's starred movies first.
// GET /cinema_schedule/:cinema_id[/:date]
func (h *ShowtimesHandler) CinemaSchedule(c echo.Context) error {
	cinemaID, ok := pathID(c, "cinema_id")
	if !ok {
		return badID(c)
	}
	date, ok := h.Dates.Resolve(c)
	if !ok {
		return badDate(c)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	rows, err := h.Sessions.CinemaSchedule(ctx, cinemaID, date, middleware.IdentityFrom(c))
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"schedule": h.Links.ByMovie(rows), "date": date})
}

type movieResp struct {
	MovieID       uint64   `json:"movie_id"`
	Title         string   `json:"title"`
	TitleOriginal *string  `json:"title_original"`
	Year          *int     `json:"year"`
	Duration      *int     `json:"duration"`
	ReleaseDate   *string  `json:"release_date"`
	KpID          *int64   `json:"kp_id"`
	KpRating      *float64 `json:"kp_rating"`
	KpURL         *string  `json:"kp_url"`
	Rating        *float64 `json:"rating"`
	RatingCount   int      `json:"rating_count"`
	CountryCode   *string  `json:"country_code"`
	IsStarred     bool     `json:"is_starred"`
}

// Movie returns a movie's metadata.
// GET /movie/:movie_id
func (h *ShowtimesHandler) Movie(c echo.Context) error {
	id, ok := pathID(c, "movie_id")
	if !ok {
		return badID(c)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id, middleware.IdentityFrom(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return dbError(c, err)
	}

	var release *string
	if m.ReleaseDate != nil {
		s := m.ReleaseDate.Format(dateLayout)
		release = &s
	}
	return c.JSON(http.StatusOK, movieResp{
		MovieID:       m.ID,
		Title:         m.Title,
		TitleOriginal: m.TitleOriginal,
		Year:          m.Year,
		Duration:      m.Duration,
		ReleaseDate:   release,
		KpID:          m.KpID,
		KpRating:      m.KpRating,
		KpURL:         h.Links.CatalogURL(m.KpID),
		Rating:        m.Rating,
		RatingCount:   m.RatingCount,
		CountryCode:   m.CountryCode,
		IsStarred:     m.IsStarred,
	})
}

type cinemaResp struct {
	CinemaID   uint64  `json:"cinema_id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	CityID     uint64  `json:"city_id"`
	IsFavorite bool    `json:"is_favorite"`
}

// Cinema returns a cinema's details.
// GET /cinema/:cinema_id
func (h *ShowtimesHandler) Cinema(c echo.Context) error {
	id, ok := pathID(c, "cinema_id")
	if !ok {
		return badID(c)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	cin, err := h.Cinemas.GetByID(ctx, id, middleware.IdentityFrom(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
	}
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, cinemaResp{
		CinemaID:   cin.ID,
		Name:       cin.Name,
		Address:    cin.Address,
		Lat:        cin.Lat,
		Lon:        cin.Lon,
		CityID:     cin.CityID,
		IsFavorite: cin.IsFavorite,
	})
}
