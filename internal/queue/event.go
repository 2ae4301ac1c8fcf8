// Package queue defines the domain events exchanged over RabbitMQ and the
// consumer that records them.
package queue

// Durable queue names, also used as routing keys on the default exchange.
const (
	PreferencesChangedQueue = "preferences.changed"
	UsersRegisteredQueue    = "users.registered"
)

// Preference kinds carried by PreferenceChangedEvent.
const (
	KindStar     = "star"
	KindFavorite = "favorite"
)

// PreferenceChangedEvent is published when a user stars or unstars a movie,
// or adds or removes a favorite cinema, and the stored set actually changed.
type PreferenceChangedEvent struct {
	UserID    uint64 `json:"user_id"`
	Kind      string `json:"kind"`
	TargetID  uint64 `json:"target_id"`
	On        bool   `json:"on"`
	ChangedAt string `json:"changed_at"`
}

// UserRegisteredEvent is published after a new account is created.
type UserRegisteredEvent struct {
	UserID       uint64  `json:"user_id"`
	Email        string  `json:"email"`
	CityID       *uint64 `json:"city_id"`
	RegisteredAt string  `json:"registered_at"`
}
