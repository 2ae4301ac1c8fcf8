package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-showtimes/internal/database"
)

// PreferenceRepo manages the per-user star (movies) and favorite (cinemas)
// relations.  Both are sets: toggling on inserts the pair if absent and
// toggling off deletes it if present, each as a single statement.
type PreferenceRepo struct {
	db *sql.DB
}

func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

// StarredMovie is a movie in a user's starred list.
type StarredMovie struct {
	MovieID uint64   `json:"movie_id"`
	Title   string   `json:"title"`
	Rating  *float64 `json:"rating"`
}

// FavoriteCinema is a cinema in a user's favorites list.
type FavoriteCinema struct {
	CinemaID uint64 `json:"cinema_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

// SetStar stars or unstars a movie for a user.  It reports whether a row
// was actually inserted or deleted.  Starring an unknown movie returns
// ErrNotFound; a user that does not exist returns ErrUnknownUser.
func (r *PreferenceRepo) SetStar(ctx context.Context, userID, movieID uint64, on bool) (bool, error) {
	if on {
		return r.insert(ctx, "INSERT INTO user_starred_movies (user_id, movie_id) VALUES (?, ?)", userID, movieID)
	}
	return r.remove(ctx, "DELETE FROM user_starred_movies WHERE user_id = ? AND movie_id = ?", userID, movieID)
}

// SetFavorite adds or removes a cinema from a user's favorites, with the
// same semantics as SetStar.
func (r *PreferenceRepo) SetFavorite(ctx context.Context, userID, cinemaID uint64, on bool) (bool, error) {
	if on {
		return r.insert(ctx, "INSERT INTO user_favorite_cinemas (user_id, cinema_id) VALUES (?, ?)", userID, cinemaID)
	}
	return r.remove(ctx, "DELETE FROM user_favorite_cinemas WHERE user_id = ? AND cinema_id = ?", userID, cinemaID)
}

// insert treats a unique-key conflict as "already present".  A foreign-key
// failure is attributed to the user or to the target by looking the user up
// in the same transaction.
func (r *PreferenceRepo) insert(ctx context.Context, q string, userID, id uint64) (bool, error) {
	changed := false
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, q, userID, id)
		switch mapped := classify(err); {
		case mapped == nil:
			changed = true
			return nil
		case errors.Is(mapped, errDuplicate):
			return nil
		case errors.Is(mapped, errForeignKey):
			var n int
			if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE user_id = ?", userID).Scan(&n); err != nil {
				return err
			}
			if n == 0 {
				return ErrUnknownUser
			}
			return ErrNotFound
		default:
			return err
		}
	})
	return changed, err
}

func (r *PreferenceRepo) remove(ctx context.Context, q string, userID, id uint64) (bool, error) {
	changed := false
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, userID, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		changed = n > 0
		return err
	})
	return changed, err
}

// ListStarred returns the user's starred movies ordered by title.
func (r *PreferenceRepo) ListStarred(ctx context.Context, userID uint64) ([]StarredMovie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT m.movie_id, m.title_ru, m.kp_rating
		FROM user_starred_movies st
		JOIN movies m ON m.movie_id = st.movie_id
		WHERE st.user_id = ?
		ORDER BY m.title_ru, m.movie_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StarredMovie, 0)
	for rows.Next() {
		var m StarredMovie
		if err := rows.Scan(&m.MovieID, &m.Title, &m.Rating); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListFavorites returns the user's favorite cinemas ordered by name.
func (r *PreferenceRepo) ListFavorites(ctx context.Context, userID uint64) ([]FavoriteCinema, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT c.cinema_id, c.name, c.address
		FROM user_favorite_cinemas f
		JOIN cinemas c ON c.cinema_id = f.cinema_id
		WHERE f.user_id = ?
		ORDER BY c.name, c.cinema_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FavoriteCinema, 0)
	for rows.Next() {
		var c FavoriteCinema
		if err := rows.Scan(&c.CinemaID, &c.Name, &c.Address); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
