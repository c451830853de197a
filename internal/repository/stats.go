package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/watchmate/watchmate/internal/domain"
)

// StatsRepository computes the roll-up reports on demand from current state;
// nothing is maintained incrementally.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// Platform returns the platform-wide statistics report.
func (r *StatsRepository) Platform(ctx context.Context) (domain.PlatformStats, error) {
	const totalsQuery = `
        SELECT
            (SELECT COUNT(*) FROM items WHERE active),
            (SELECT COUNT(*) FROM reviews WHERE active),
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM platforms),
            (SELECT COALESCE(ROUND(AVG(rating_sum::numeric / rating_count), 2), 0)::float8
             FROM items WHERE rating_count > 0)
    `

	var stats domain.PlatformStats
	err := r.pool.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalItems,
		&stats.TotalReviews,
		&stats.TotalUsers,
		&stats.TotalPlatforms,
		&stats.AverageRating,
	)
	if err != nil {
		return domain.PlatformStats{}, fmt.Errorf("platform totals: %w", err)
	}

	const reviewersQuery = `
        SELECT u.username, COUNT(r.id)::int AS review_count
        FROM users u
        LEFT JOIN reviews r ON r.user_id = u.id AND r.active
        GROUP BY u.id, u.username
        ORDER BY review_count DESC, u.username ASC
        LIMIT 5
    `
	rows, err := r.pool.Query(ctx, reviewersQuery)
	if err != nil {
		return domain.PlatformStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var reviewer domain.TopReviewer
		if err := rows.Scan(&reviewer.Username, &reviewer.ReviewCount); err != nil {
			return domain.PlatformStats{}, err
		}
		stats.TopReviewers = append(stats.TopReviewers, reviewer)
	}
	if err := rows.Err(); err != nil {
		return domain.PlatformStats{}, err
	}

	const mostReviewedQuery = `
        SELECT id, title, rating_count
        FROM items
        ORDER BY rating_count DESC, id ASC
        LIMIT 1
    `
	var most domain.MostReviewedItem
	err = r.pool.QueryRow(ctx, mostReviewedQuery).Scan(&most.ID, &most.Title, &most.ReviewCount)
	switch {
	case err == nil:
		stats.MostReviewedItem = &most
	case errors.Is(err, pgx.ErrNoRows):
		// no items yet
	default:
		return domain.PlatformStats{}, err
	}

	return stats, nil
}

// User returns the requesting user's statistics report.
func (r *StatsRepository) User(ctx context.Context, userID uuid.UUID) (domain.UserStats, error) {
	const reviewsQuery = `
        SELECT COUNT(*)::int,
               COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8
        FROM reviews
        WHERE user_id = $1 AND active
    `
	var stats domain.UserStats
	err := r.pool.QueryRow(ctx, reviewsQuery, userID).Scan(&stats.TotalReviews, &stats.AverageRating)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("user review stats: %w", err)
	}

	const watchlistQuery = `
        SELECT COUNT(*)::int,
               COUNT(*) FILTER (WHERE status = 'want_to_watch')::int,
               COUNT(*) FILTER (WHERE status = 'watching')::int,
               COUNT(*) FILTER (WHERE status = 'watched')::int
        FROM watchlist_entries
        WHERE user_id = $1
    `
	err = r.pool.QueryRow(ctx, watchlistQuery, userID).Scan(
		&stats.Watchlist.Total,
		&stats.Watchlist.WantToWatch,
		&stats.Watchlist.Watching,
		&stats.Watchlist.Watched,
	)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("user watchlist stats: %w", err)
	}

	const genresQuery = `
        SELECT g.name, COUNT(r.id)::int AS review_count
        FROM genres g
        JOIN item_genres ig ON ig.genre_id = g.id
        JOIN reviews r ON r.item_id = ig.item_id AND r.active
        WHERE r.user_id = $1
        GROUP BY g.id, g.name
        ORDER BY review_count DESC, g.name ASC
        LIMIT 3
    `
	rows, err := r.pool.Query(ctx, genresQuery, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var genre domain.GenreCount
		if err := rows.Scan(&genre.Name, &genre.Count); err != nil {
			return domain.UserStats{}, err
		}
		stats.FavoriteGenres = append(stats.FavoriteGenres, genre)
	}
	if err := rows.Err(); err != nil {
		return domain.UserStats{}, err
	}

	return stats, nil
}
