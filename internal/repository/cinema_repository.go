// Package repository contains data access logic separated from HTTP handlers.
// This file defines the cinema queries: the busiest-cinemas listing and the
// single cinema lookup with the caller's favorite flag.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers

	"github.com/iliyamo/cinema-showtimes/internal/model"
)

// CinemaRepo encapsulates all database queries related to cinemas.  It
// depends on a sql.DB connection pool which is configured in main.
type CinemaRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// TopCinema is one row of the busiest-cinemas listing.
type TopCinema struct {
	CinemaID     uint64 `json:"cinema_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	SessionCount int    `json:"session_count"`
}

// CinemaDetail is a cinema together with the caller's favorite flag.
type CinemaDetail struct {
	model.Cinema
	IsFavorite bool
}

// ListTop returns the cinemas of a city ordered by how many sessions they
// screen on date (YYYY-MM-DD).  Cinemas without sessions that day are left out.
func (r *CinemaRepo) ListTop(ctx context.Context, cityID uint64, date string) ([]TopCinema, error) {
	const q = `SELECT
			c.cinema_id,
			MAX(c.name),
			MAX(c.address),
			COUNT(s.session_id)
		FROM sessions s
		JOIN cinemas c ON c.cinema_id = s.cinema_id
		WHERE DATE(s.date) = ? AND c.city_id = ?
		GROUP BY c.cinema_id
		ORDER BY COUNT(s.session_id) DESC, c.cinema_id`

	rows, err := r.db.QueryContext(ctx, q, date, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TopCinema, 0)
	for rows.Next() {
		var c TopCinema
		if err := rows.Scan(&c.CinemaID, &c.Name, &c.Address, &c.SessionCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a cinema by its ID.  Identified callers get is_favorite
// from a left join on their favorites; anonymous callers always get false.
// It returns ErrNotFound if no row is found.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64, who model.Identity) (*CinemaDetail, error) {
	var row *sql.Row
	if uid, ok := who.UserID(); ok {
		const q = `SELECT c.cinema_id, c.name, c.address, c.lat, c.lon, c.city_id, f.user_id IS NOT NULL
			FROM cinemas c
			LEFT JOIN user_favorite_cinemas f ON f.cinema_id = c.cinema_id AND f.user_id = ?
			WHERE c.cinema_id = ?`
		row = r.db.QueryRowContext(ctx, q, uid, id)
	} else {
		const q = `SELECT c.cinema_id, c.name, c.address, c.lat, c.lon, c.city_id, 0
			FROM cinemas c
			WHERE c.cinema_id = ?`
		row = r.db.QueryRowContext(ctx, q, id)
	}

	var d CinemaDetail
	if err := row.Scan(&d.ID, &d.Name, &d.Address, &d.Lat, &d.Lon, &d.CityID, &d.IsFavorite); err != nil {
		return nil, classify(err)
	}
	return &d, nil
}
