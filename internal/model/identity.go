package model

import "strconv"

// Identity is the caller of a request: either an authenticated user or
// anonymous.  Queries use it to choose between the personalized and the
// plain SQL path.  The zero value is Anonymous.
type Identity struct {
	userID uint64
	known  bool
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity { return Identity{} }

// Identified returns the identity of the given user.
func Identified(userID uint64) Identity { return Identity{userID: userID, known: true} }

// UserID reports the user id and whether the caller is identified.
func (i Identity) UserID() (uint64, bool) { return i.userID, i.known }

// IsAnonymous reports whether no user is attached.
func (i Identity) IsAnonymous() bool { return !i.known }

func (i Identity) String() string {
	if !i.known {
		return "anon"
	}
	return strconv.FormatUint(i.userID, 10)
}
