package schedule

import "github.com/iliyamo/cinema-showtimes/internal/model"

// CinemaRow is one session of a movie schedule together with its cinema
// header fields.  IsFavorite is false for anonymous callers.
type CinemaRow struct {
	Session    model.Session
	CinemaName string
	Address    string
	IsFavorite bool
}

// MovieRow is one session of a cinema schedule together with its movie
// header fields.  IsStarred is false for anonymous callers.
type MovieRow struct {
	Session   model.Session
	Title     string
	Rating    *float64
	IsStarred bool
}

// SessionItem is the JSON shape of a single screening inside a group.
type SessionItem struct {
	ID        uint64    `json:"id"`
	TicketURL *string   `json:"ticket_url"`
	Date      Timestamp `json:"date"`
	PriceMin  int       `json:"price_min"`
	PriceMax  int       `json:"price_max"`
	Hall      *string   `json:"hall"`
	Type      string    `json:"type"`
}

// CinemaSchedule groups one movie's sessions under a cinema.
type CinemaSchedule struct {
	CinemaID   uint64        `json:"cinema_id"`
	Name       string        `json:"name"`
	Address    string        `json:"address"`
	IsFavorite bool          `json:"is_favorite"`
	Sessions   []SessionItem `json:"sessions"`
}

// MovieSchedule groups one cinema's sessions under a movie.
type MovieSchedule struct {
	MovieID   uint64        `json:"movie_id"`
	Title     string        `json:"title"`
	Rating    *float64      `json:"rating"`
	IsStarred bool          `json:"is_starred"`
	Sessions  []SessionItem `json:"sessions"`
}

// Item derives the child record of a session.
func (l Links) Item(s model.Session) SessionItem {
	return SessionItem{
		ID:        s.ID,
		TicketURL: l.TicketURL(s.YaID),
		Date:      Timestamp(s.Date),
		PriceMin:  s.PriceMin,
		PriceMax:  s.PriceMax,
		Hall:      s.Hall,
		Type:      model.SessionTypeLabel(s.Type),
	}
}

// ByCinema folds movie schedule rows into cinema groups.
func (l Links) ByCinema(rows []CinemaRow) []CinemaSchedule {
	groups := Fold(rows,
		func(r CinemaRow) uint64 { return r.Session.CinemaID },
		func(r CinemaRow) CinemaSchedule {
			return CinemaSchedule{CinemaID: r.Session.CinemaID, Name: r.CinemaName, Address: r.Address, IsFavorite: r.IsFavorite}
		},
		func(r CinemaRow) SessionItem { return l.Item(r.Session) },
	)
	out := make([]CinemaSchedule, len(groups))
	for i, g := range groups {
		out[i] = g.Header
		out[i].Sessions = g.Children
	}
	return out
}

// ByMovie folds cinema schedule rows into movie groups.
func (l Links) ByMovie(rows []MovieRow) []MovieSchedule {
	groups := Fold(rows,
		func(r MovieRow) uint64 { return r.Session.MovieID },
		func(r MovieRow) MovieSchedule {
			return MovieSchedule{MovieID: r.Session.MovieID, Title: r.Title, Rating: r.Rating, IsStarred: r.IsStarred}
		},
		func(r MovieRow) SessionItem { return l.Item(r.Session) },
	)
	out := make([]MovieSchedule, len(groups))
	for i, g := range groups {
		out[i] = g.Header
		out[i].Sessions = g.Children
	}
	return out
}
