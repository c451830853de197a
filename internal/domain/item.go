package domain

import (
	"time"

	"github.com/google/uuid"
)

// Genre is a catalog classification such as Action or Drama.
type Genre struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
}

// Platform is a streaming platform hosting catalog items.
type Platform struct {
	ID      uuid.UUID
	Name    string
	About   string
	Website string
}

// Item represents a catalog entry (movie/show) that can be rated.
//
// RatingSum and RatingCount are the stored aggregate state; AverageRating is
// derived from them at read time and is never stored, so repeated updates
// cannot accumulate floating-point error.
type Item struct {
	ID            uuid.UUID
	Title         string
	Storyline     string
	PlatformID    uuid.UUID
	Active        bool
	RatingSum     int64
	RatingCount   int
	AverageRating float64
	ReleaseYear   *int
	DurationMins  *int
	PosterURL     *string
	TrailerURL    *string
	GenreIDs      []uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
