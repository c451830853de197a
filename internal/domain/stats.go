package domain

import "github.com/google/uuid"

// TopReviewer names a user and how many active reviews they have written.
type TopReviewer struct {
	Username    string
	ReviewCount int
}

// MostReviewedItem identifies the item with the highest rating count.
type MostReviewedItem struct {
	ID          uuid.UUID
	Title       string
	ReviewCount int
}

// PlatformStats is the platform-wide roll-up report.
type PlatformStats struct {
	TotalItems       int
	TotalReviews     int
	TotalUsers       int
	TotalPlatforms   int
	AverageRating    float64
	TopReviewers     []TopReviewer
	MostReviewedItem *MostReviewedItem
}

// GenreCount pairs a genre name with a review count.
type GenreCount struct {
	Name  string
	Count int
}

// WatchlistBreakdown counts a user's watchlist entries by status.
type WatchlistBreakdown struct {
	Total       int
	WantToWatch int
	Watching    int
	Watched     int
}

// UserStats is the per-user roll-up report.
type UserStats struct {
	TotalReviews   int
	AverageRating  float64
	Watchlist      WatchlistBreakdown
	FavoriteGenres []GenreCount
}
