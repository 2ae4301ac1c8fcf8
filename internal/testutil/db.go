// Package testutil provides an in-memory SQLite store with the showtimes
// schema for package tests.  No external services are required.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// schema mirrors the MySQL tables with SQLite types.
const schema = `
CREATE TABLE countries (
	country_code TEXT PRIMARY KEY,
	name_ru      TEXT,
	name_en      TEXT
);
CREATE TABLE cities (
	city_id      INTEGER PRIMARY KEY,
	name         TEXT NOT NULL,
	country_code TEXT REFERENCES countries(country_code)
);
CREATE TABLE movies (
	movie_id       INTEGER PRIMARY KEY,
	title_ru       TEXT NOT NULL,
	title_original TEXT,
	year           INTEGER,
	duration       INTEGER,
	release_date   DATE,
	kp_id          INTEGER,
	kp_rating      REAL,
	rating         REAL,
	rating_count   INTEGER NOT NULL DEFAULT 0,
	country_code   TEXT REFERENCES countries(country_code)
);
CREATE TABLE cinemas (
	cinema_id INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	address   TEXT NOT NULL DEFAULT '',
	lat       REAL NOT NULL DEFAULT 0,
	lon       REAL NOT NULL DEFAULT 0,
	city_id   INTEGER NOT NULL REFERENCES cities(city_id)
);
CREATE TABLE sessions (
	session_id INTEGER PRIMARY KEY,
	ya_id      TEXT,
	date       DATETIME NOT NULL,
	movie_id   INTEGER NOT NULL REFERENCES movies(movie_id),
	cinema_id  INTEGER NOT NULL REFERENCES cinemas(cinema_id),
	hall_name  TEXT,
	price_min  INTEGER NOT NULL DEFAULT 0,
	price_max  INTEGER NOT NULL DEFAULT 0,
	type       INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE users (
	user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	city_id       INTEGER REFERENCES cities(city_id),
	created_at    DATETIME NOT NULL
);
CREATE TABLE user_starred_movies (
	user_id  INTEGER NOT NULL REFERENCES users(user_id),
	movie_id INTEGER NOT NULL REFERENCES movies(movie_id),
	PRIMARY KEY (user_id, movie_id)
);
CREATE TABLE user_favorite_cinemas (
	user_id   INTEGER NOT NULL REFERENCES users(user_id),
	cinema_id INTEGER NOT NULL REFERENCES cinemas(cinema_id),
	PRIMARY KEY (user_id, cinema_id)
);`

var dbSeq atomic.Int64

// NewDB opens a fresh named in-memory database with foreign keys enforced
// and the schema applied.  The pool is capped at one connection so every
// query sees the same in-memory database.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:showtimes_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

// Exec runs a fixture statement and fails the test on error.
func Exec(t *testing.T, db *sql.DB, q string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), q, args...); err != nil {
		t.Fatalf("fixture %q: %v", q, err)
	}
}

// Fixture ids shared by the package tests.
const (
	CityMoscow = 1
	CitySPb    = 2

	CinemaAurora  = 10 // Moscow
	CinemaBerezka = 11 // Moscow
	CinemaNeva    = 20 // St. Petersburg

	MovieDune    = 100
	MovieArrival = 101
	MovieSolaris = 102 // no sessions
)

// Day is the date all seeded sessions fall on.
var Day = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

// At returns a UTC time on Day.
func At(hour, min int) time.Time {
	return Day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

// Seed loads a small city catalog:
//
//	Dune    – Aurora 10:00 (0/0), Aurora 13:00 (150), Berezka 12:00 (0), Berezka 18:00 (90), Neva 11:00 (300)
//	Arrival – Berezka 15:00 (200), next day at Aurora 10:00 (100)
//	Solaris – catalog only
func Seed(t *testing.T, db *sql.DB) {
	t.Helper()
	Exec(t, db, `INSERT INTO countries (country_code, name_ru, name_en) VALUES ('RU', 'Россия', 'Russia'), ('US', 'США', 'United States')`)
	Exec(t, db, `INSERT INTO cities (city_id, name, country_code) VALUES (?, 'Москва', 'RU'), (?, 'Санкт-Петербург', 'RU')`, CityMoscow, CitySPb)
	Exec(t, db, `INSERT INTO cinemas (cinema_id, name, address, lat, lon, city_id) VALUES
		(?, 'Аврора', 'Невский пр., 60', 55.75, 37.61, ?),
		(?, 'Березка', 'ул. Лесная, 1', 55.70, 37.50, ?),
		(?, 'Нева', 'Литейный пр., 2', 59.93, 30.36, ?)`,
		CinemaAurora, CityMoscow, CinemaBerezka, CityMoscow, CinemaNeva, CitySPb)
	Exec(t, db, `INSERT INTO movies (movie_id, title_ru, title_original, year, duration, release_date, kp_id, kp_rating, rating, rating_count, country_code) VALUES
		(?, 'Дюна', 'Dune', 2021, 155, ?, 409424, 7.8, 4.5, 12, 'US'),
		(?, 'Прибытие', 'Arrival', 2016, 116, NULL, NULL, NULL, NULL, 0, NULL),
		(?, 'Солярис', NULL, 1972, 169, NULL, 43395, 8.0, NULL, 0, NULL)`,
		MovieDune, time.Date(2021, 9, 16, 0, 0, 0, 0, time.UTC), MovieArrival, MovieSolaris)

	sessions := []struct {
		id       int
		yaID     any
		movie    int
		cinema   int
		at       time.Time
		hall     any
		min, max int
		typ      int
	}{
		{1, "ticket-1", MovieDune, CinemaAurora, At(10, 0), "Зал 1", 0, 0, 0},
		{2, " abc 123 ", MovieDune, CinemaAurora, At(13, 0), "Зал 2", 150, 300, 1},
		{3, nil, MovieDune, CinemaBerezka, At(12, 0), nil, 0, 0, 0},
		{4, "ticket-4", MovieDune, CinemaBerezka, At(18, 0), "IMAX", 90, 120, 3},
		{5, "ticket-5", MovieDune, CinemaNeva, At(11, 0), "Большой", 300, 500, 0},
		{6, "ticket-6", MovieArrival, CinemaBerezka, At(15, 0), "Зал 1", 200, 250, 0},
		{7, "ticket-7", MovieArrival, CinemaAurora, At(24+10, 0), "Зал 1", 100, 100, 0},
	}
	for _, s := range sessions {
		Exec(t, db, `INSERT INTO sessions (session_id, ya_id, date, movie_id, cinema_id, hall_name, price_min, price_max, type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.id, s.yaID, s.at, s.movie, s.cinema, s.hall, s.min, s.max, s.typ)
	}
}

// CountRows returns SELECT COUNT(*) for a table and WHERE clause.
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table+" WHERE "+where, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
