package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hashed password.
//	CityID       – preferred city, nil when not chosen at registration.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.user_id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CityID       *uint64   // users.city_id (nullable)
	CreatedAt    time.Time // users.created_at
}
