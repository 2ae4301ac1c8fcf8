package model

// Cinema represents a movie theatre venue in a city.  Cinemas are loaded in
// bulk by the crawler and are read-only to the API.  This struct corresponds
// to a row in the `cinemas` table.
//
// Fields:
//
//	ID      – primary key identifier.
//	Name    – display name of the cinema.
//	Address – street address as published by the ticketing source.
//	Lat/Lon – geographic location.
//	CityID  – city the cinema belongs to.
type Cinema struct {
	ID      uint64  // cinemas.cinema_id
	Name    string  // cinemas.name
	Address string  // cinemas.address
	Lat     float64 // cinemas.lat
	Lon     float64 // cinemas.lon
	CityID  uint64  // cinemas.city_id
}
