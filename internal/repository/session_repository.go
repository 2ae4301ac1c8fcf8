package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-showtimes/internal/model"
	"github.com/iliyamo/cinema-showtimes/internal/schedule"
)

// SessionRepo returns flat session rows for the schedule endpoints.  The
// ORDER BY clauses decide the final group and session order; the rows are
// folded afterwards by the schedule package without re-sorting.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = `s.session_id, s.ya_id, s.date, s.movie_id, s.cinema_id,
		s.hall_name, s.price_min, s.price_max, s.type`

func scanSession(dest []any, s *model.Session) []any {
	return append(dest, &s.ID, &s.YaID, &s.Date, &s.MovieID, &s.CinemaID,
		&s.Hall, &s.PriceMin, &s.PriceMax, &s.Type)
}

// MovieSchedule lists a movie's sessions in a city on date, one row per
// session with its cinema.  Favorite cinemas of an identified caller come
// first, then cinemas by name, then sessions by time.
func (r *SessionRepo) MovieSchedule(ctx context.Context, cityID, movieID uint64, date string, who model.Identity) ([]schedule.CinemaRow, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if uid, ok := who.UserID(); ok {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+`,
				c.name, c.address, f.user_id IS NOT NULL AS is_favorite
			FROM sessions s
			JOIN cinemas c ON c.cinema_id = s.cinema_id
			LEFT JOIN user_favorite_cinemas f ON f.cinema_id = c.cinema_id AND f.user_id = ?
			WHERE DATE(s.date) = ? AND s.movie_id = ? AND c.city_id = ?
			ORDER BY is_favorite DESC, c.name, c.cinema_id, s.date, s.session_id`,
			uid, date, movieID, cityID)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+`,
				c.name, c.address, 0 AS is_favorite
			FROM sessions s
			JOIN cinemas c ON c.cinema_id = s.cinema_id
			WHERE DATE(s.date) = ? AND s.movie_id = ? AND c.city_id = ?
			ORDER BY c.name, c.cinema_id, s.date, s.session_id`,
			date, movieID, cityID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.CinemaRow, 0)
	for rows.Next() {
		var row schedule.CinemaRow
		dest := scanSession(make([]any, 0, 12), &row.Session)
		dest = append(dest, &row.CinemaName, &row.Address, &row.IsFavorite)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CinemaSchedule lists a cinema's sessions on date, one row per session with
// its movie.  Starred movies of an identified caller come first, then movies
// by title, then sessions by time.
func (r *SessionRepo) CinemaSchedule(ctx context.Context, cinemaID uint64, date string, who model.Identity) ([]schedule.MovieRow, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if uid, ok := who.UserID(); ok {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+`,
				m.title_ru, m.kp_rating, st.user_id IS NOT NULL AS is_starred
			FROM sessions s
			JOIN movies m ON m.movie_id = s.movie_id
			LEFT JOIN user_starred_movies st ON st.movie_id = m.movie_id AND st.user_id = ?
			WHERE DATE(s.date) = ? AND s.cinema_id = ?
			ORDER BY is_starred DESC, m.title_ru, m.movie_id, s.date, s.session_id`,
			uid, date, cinemaID)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+`,
				m.title_ru, m.kp_rating, 0 AS is_starred
			FROM sessions s
			JOIN movies m ON m.movie_id = s.movie_id
			WHERE DATE(s.date) = ? AND s.cinema_id = ?
			ORDER BY m.title_ru, m.movie_id, s.date, s.session_id`,
			date, cinemaID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.MovieRow, 0)
	for rows.Next() {
		var row schedule.MovieRow
		dest := scanSession(make([]any, 0, 12), &row.Session)
		dest = append(dest, &row.Title, &row.Rating, &row.IsStarred)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
