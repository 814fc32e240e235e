package models

import "time"

// Session is the authenticated user snapshot an agent persists locally so
// a restart does not force a fresh login. The stored copy is a cache: it is
// validated against the persisted tombstone list at restore time and
// cleared when the account turns out to have been deleted elsewhere.
type Session struct {
	// User is the authenticated account as of the last login or refresh.
	User User `json:"user"`

	// Token is the bearer token issued at login.
	Token string `json:"token"`

	// SavedAt records when the session was persisted.
	SavedAt time.Time `json:"saved_at"`
}
