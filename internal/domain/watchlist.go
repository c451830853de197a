package domain

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistStatus tracks how far a user has gotten with a saved item.
type WatchlistStatus string

const (
	StatusWantToWatch WatchlistStatus = "want_to_watch"
	StatusWatching    WatchlistStatus = "watching"
	StatusWatched     WatchlistStatus = "watched"
)

// Valid reports whether the status is one of the known values.
func (s WatchlistStatus) Valid() bool {
	switch s {
	case StatusWantToWatch, StatusWatching, StatusWatched:
		return true
	}
	return false
}

// WatchlistEntry is a user's saved intent for an item, unique per (user, item).
type WatchlistEntry struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	ItemID  uuid.UUID
	Status  WatchlistStatus
	AddedAt time.Time
}
