package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/watchmate/watchmate/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicateReview indicates the user already has an active review for the item.
var ErrDuplicateReview = errors.New("repository: duplicate review")

// ErrInvalidRating indicates a rating outside the allowed 1..5 range.
var ErrInvalidRating = errors.New("repository: invalid rating")

// ErrForbidden indicates the actor does not own the resource.
var ErrForbidden = errors.New("repository: forbidden")

// ErrWriteConflict indicates transient contention on an item's aggregate after
// retries were exhausted. The same operation is safe to retry.
var ErrWriteConflict = errors.New("repository: write conflict")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users     *UsersRepository
	Platforms *PlatformsRepository
	Genres    *GenresRepository
	Items     *ItemsRepository
	Reviews   *ReviewsRepository
	Rankings  *RankingsRepository
	Stats     *StatsRepository
	Watchlist *WatchlistRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store, logger zerolog.Logger) *Repository {
	return NewWithPool(st.Pool(), logger)
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool, logger zerolog.Logger) *Repository {
	logger = logger.With().Str("component", "repository").Logger()
	return &Repository{
		Users:     &UsersRepository{pool: pool},
		Platforms: &PlatformsRepository{pool: pool},
		Genres:    &GenresRepository{pool: pool},
		Items:     &ItemsRepository{pool: pool},
		Reviews:   &ReviewsRepository{pool: pool, logger: logger},
		Rankings:  &RankingsRepository{pool: pool},
		Stats:     &StatsRepository{pool: pool},
		Watchlist: &WatchlistRepository{pool: pool},
	}
}
