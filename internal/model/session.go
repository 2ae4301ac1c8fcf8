package model

import "time"

// Session type flags as stored in sessions.type.  A plain 2D screening is 0.
const (
	SessionType3D   = 1 << 0
	SessionTypeIMAX = 1 << 1
)

// Session represents a single scheduled screening of a movie at a cinema.
// There are typically many sessions per (movie, cinema, day).
//
// Fields:
//
//	ID       – primary key identifier.
//	YaID     – external ticketing id, nil when the session cannot be booked online.
//	Date     – start time (UTC).
//	MovieID  – movie being screened.
//	CinemaID – venue.
//	Hall     – hall name, nil when unknown.
//	PriceMin – cheapest ticket; 0 means the price is unknown.
//	PriceMax – most expensive ticket; 0 means the price is unknown.
//	Type     – bitmask of SessionType3D / SessionTypeIMAX.
type Session struct {
	ID       uint64    // sessions.session_id
	YaID     *string   // sessions.ya_id (nullable)
	Date     time.Time // sessions.date
	MovieID  uint64    // sessions.movie_id
	CinemaID uint64    // sessions.cinema_id
	Hall     *string   // sessions.hall_name (nullable)
	PriceMin int       // sessions.price_min
	PriceMax int       // sessions.price_max
	Type     int       // sessions.type
}

// SessionTypeLabel renders the type bitmask the way listings print it.
func SessionTypeLabel(t int) string {
	switch {
	case t&SessionTypeIMAX != 0 && t&SessionType3D != 0:
		return "IMAX 3D"
	case t&SessionTypeIMAX != 0:
		return "IMAX"
	case t&SessionType3D != 0:
		return "3D"
	default:
		return "2D"
	}
}
