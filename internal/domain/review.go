package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform account that writes reviews and keeps a watchlist.
type User struct {
	ID          uuid.UUID
	Username    string
	IsModerator bool
	CreatedAt   time.Time
}

// Review is one user's rating plus optional text for one item. At most one
// active review exists per (user, item) pair.
type Review struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ItemID       uuid.UUID
	Rating       int
	Description  *string
	IsSpoiler    bool
	HelpfulCount int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
