package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-showtimes/internal/model"
)

// MovieRepo encapsulates read queries over movies and their sessions.
type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// CurrentMovie is one row of the "now showing" listing for a city and day.
type CurrentMovie struct {
	MovieID      uint64   `json:"movie_id"`
	Title        string   `json:"title"`
	Rating       *float64 `json:"rating"`
	SessionCount int      `json:"session_count"`
	MinPrice     *int     `json:"min_price"`
}

// MovieDetail is a movie together with the caller's star flag.
type MovieDetail struct {
	model.Movie
	IsStarred bool
}

// ListCurrent returns the movies screening in a city on date (YYYY-MM-DD),
// busiest first.  A movie appears once however many sessions it has; title
// and rating are functionally determined by movie_id so MAX() just picks
// them.  Zero prices mean "unknown" and are excluded from min_price, which
// is nil when no session has a known price.
func (r *MovieRepo) ListCurrent(ctx context.Context, cityID uint64, date string) ([]CurrentMovie, error) {
	const q = `SELECT
			m.movie_id,
			MAX(m.title_ru),
			MAX(m.kp_rating),
			COUNT(s.session_id),
			MIN(NULLIF(s.price_min, 0))
		FROM sessions s
		JOIN movies m  ON m.movie_id = s.movie_id
		JOIN cinemas c ON c.cinema_id = s.cinema_id
		WHERE DATE(s.date) = ? AND c.city_id = ?
		GROUP BY m.movie_id
		ORDER BY COUNT(s.session_id) DESC, m.movie_id`

	rows, err := r.db.QueryContext(ctx, q, date, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CurrentMovie, 0)
	for rows.Next() {
		var m CurrentMovie
		if err := rows.Scan(&m.MovieID, &m.Title, &m.Rating, &m.SessionCount, &m.MinPrice); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const movieColumns = `m.movie_id, m.title_ru, m.title_original, m.year, m.duration, m.release_date,
		m.kp_id, m.kp_rating, m.rating, m.rating_count, m.country_code`

// GetByID loads a single movie.  For an identified caller the star flag is
// computed with a left join against their starred movies; anonymous callers
// take a plain lookup and always get false.  Returns ErrNotFound if no
// movie has the id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64, who model.Identity) (*MovieDetail, error) {
	var row *sql.Row
	if uid, ok := who.UserID(); ok {
		row = r.db.QueryRowContext(ctx, `SELECT `+movieColumns+`, st.user_id IS NOT NULL
			FROM movies m
			LEFT JOIN user_starred_movies st ON st.movie_id = m.movie_id AND st.user_id = ?
			WHERE m.movie_id = ?`, uid, id)
	} else {
		row = r.db.QueryRowContext(ctx, `SELECT `+movieColumns+`, 0
			FROM movies m
			WHERE m.movie_id = ?`, id)
	}

	var d MovieDetail
	m := &d.Movie
	err := row.Scan(&m.ID, &m.Title, &m.TitleOriginal, &m.Year, &m.Duration, &m.ReleaseDate,
		&m.KpID, &m.KpRating, &m.Rating, &m.RatingCount, &m.CountryCode, &d.IsStarred)
	if err != nil {
		return nil, classify(err)
	}
	return &d, nil
}
