package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/watchmate/watchmate/internal/domain"
)

// RankingsRepository serves the read-only ordered views over active items.
//
// Queries are snapshot reads: they run concurrently with ledger writes and
// never block them. Every ordering ends in id ASC so ties are deterministic.
type RankingsRepository struct {
	pool *pgxpool.Pool
}

const rankedItemColumns = `
    i.id,
    i.title,
    i.storyline,
    i.platform_id,
    i.active,
    i.rating_sum,
    i.rating_count,
    CASE WHEN i.rating_count = 0 THEN 0 ELSE i.rating_sum::float8 / i.rating_count END AS average_rating,
    i.release_year,
    i.duration_mins,
    i.poster_url,
    i.trailer_url,
    i.created_at,
    i.updated_at
`

// Trending returns the items with the most reviews created in the trailing
// seven days, busiest first, at most 10.
func (r *RankingsRepository) Trending(ctx context.Context) ([]domain.Item, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM items i
        JOIN (
            SELECT item_id, COUNT(*) AS recent_reviews
            FROM reviews
            WHERE active AND created_at >= now() - interval '7 days'
            GROUP BY item_id
        ) w ON w.item_id = i.id
        WHERE i.active
        ORDER BY w.recent_reviews DESC, i.id ASC
        LIMIT 10
    `, rankedItemColumns)
	return r.queryItems(ctx, query)
}

// Popular returns items with at least 5 ratings, best average first, at most 20.
func (r *RankingsRepository) Popular(ctx context.Context) ([]domain.Item, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM items i
        WHERE i.active AND i.rating_count >= 5
        ORDER BY i.rating_sum::float8 / i.rating_count DESC, i.rating_count DESC, i.id ASC
        LIMIT 20
    `, rankedItemColumns)
	return r.queryItems(ctx, query)
}

// Recent returns the newest active items, at most 20.
func (r *RankingsRepository) Recent(ctx context.Context) ([]domain.Item, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM items i
        WHERE i.active
        ORDER BY i.created_at DESC, i.id ASC
        LIMIT 20
    `, rankedItemColumns)
	return r.queryItems(ctx, query)
}

// TopRated returns items with at least 10 ratings, best average first, at most 50.
func (r *RankingsRepository) TopRated(ctx context.Context) ([]domain.Item, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM items i
        WHERE i.active AND i.rating_count >= 10
        ORDER BY i.rating_sum::float8 / i.rating_count DESC, i.id ASC
        LIMIT 50
    `, rankedItemColumns)
	return r.queryItems(ctx, query)
}

// Similar returns active items sharing at least one genre with the reference
// item, excluding the item itself, in id order, at most 10. Returns
// ErrNotFound for an unknown reference item.
func (r *RankingsRepository) Similar(ctx context.Context, itemID uuid.UUID) ([]domain.Item, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, itemID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	query := fmt.Sprintf(`
        SELECT DISTINCT %s
        FROM items i
        JOIN item_genres ig ON ig.item_id = i.id
        WHERE i.active
          AND i.id <> $1
          AND ig.genre_id IN (SELECT genre_id FROM item_genres WHERE item_id = $1)
        ORDER BY i.id ASC
        LIMIT 10
    `, rankedItemColumns)
	return r.queryItems(ctx, query, itemID)
}

func (r *RankingsRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]domain.Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
