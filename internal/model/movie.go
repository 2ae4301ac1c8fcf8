package model

import "time"

// Movie holds catalog metadata for a film.  External ratings come from the
// catalog identified by KpID; Rating and RatingCount are the service's own.
type Movie struct {
	ID            uint64     // movies.movie_id
	Title         string     // movies.title_ru (localized title)
	TitleOriginal *string    // movies.title_original (nullable)
	Year          *int       // movies.year (nullable)
	Duration      *int       // movies.duration in minutes (nullable)
	ReleaseDate   *time.Time // movies.release_date (nullable)
	KpID          *int64     // movies.kp_id, external catalog id (nullable)
	KpRating      *float64   // movies.kp_rating (nullable)
	Rating        *float64   // movies.rating (nullable)
	RatingCount   int        // movies.rating_count
	CountryCode   *string    // movies.country_code (nullable)
}
