package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/watchmate/watchmate/internal/domain"
)

// ItemsRepository provides persistence helpers for catalog items.
//
// It never writes rating_sum/rating_count: those belong to the review ledger's
// transactions.
type ItemsRepository struct {
	pool *pgxpool.Pool
}

const itemColumns = `
    id,
    title,
    storyline,
    platform_id,
    active,
    rating_sum,
    rating_count,
    CASE WHEN rating_count = 0 THEN 0 ELSE rating_sum::float8 / rating_count END AS average_rating,
    release_year,
    duration_mins,
    poster_url,
    trailer_url,
    created_at,
    updated_at
`

// ItemCreateParams bundles the fields required to create a catalog item.
type ItemCreateParams struct {
	Title        string
	Storyline    string
	PlatformID   uuid.UUID
	GenreIDs     []uuid.UUID
	ReleaseYear  *int
	DurationMins *int
}

// Create inserts a new item row with its genre links and returns the stored entity.
func (r *ItemsRepository) Create(ctx context.Context, params ItemCreateParams) (domain.Item, error) {
	var item domain.Item
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
            INSERT INTO items (id, title, storyline, platform_id, release_year, duration_mins)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING %s
        `, itemColumns)

		row := tx.QueryRow(ctx, query,
			uuid.New(), params.Title, params.Storyline, params.PlatformID, params.ReleaseYear, params.DurationMins)
		created, err := scanItem(row)
		if err != nil {
			return err
		}

		for _, genreID := range params.GenreIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO item_genres (item_id, genre_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
				created.ID, genreID); err != nil {
				return err
			}
		}
		created.GenreIDs = params.GenreIDs
		item = created
		return nil
	})
	if err != nil {
		return domain.Item{}, mapItemRefError(err)
	}
	return item, nil
}

// GetByID fetches an item by its identifier, including its genre associations.
func (r *ItemsRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id = $1`, itemColumns)
	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT genre_id FROM item_genres WHERE item_id = $1 ORDER BY genre_id`, id)
	if err != nil {
		return domain.Item{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var genreID uuid.UUID
		if err := rows.Scan(&genreID); err != nil {
			return domain.Item{}, err
		}
		item.GenreIDs = append(item.GenreIDs, genreID)
	}
	if err := rows.Err(); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// SetEnrichment stores poster/trailer metadata fetched from the upstream
// metadata service. Nil fields leave existing values in place.
func (r *ItemsRepository) SetEnrichment(ctx context.Context, id uuid.UUID, posterURL, trailerURL *string, releaseYear, durationMins *int) (domain.Item, error) {
	query := fmt.Sprintf(`
        UPDATE items
        SET poster_url = COALESCE($2, poster_url),
            trailer_url = COALESCE($3, trailer_url),
            release_year = COALESCE($4, release_year),
            duration_mins = COALESCE($5, duration_mins),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, itemColumns)

	item, err := scanItem(r.pool.QueryRow(ctx, query, id, posterURL, trailerURL, releaseYear, durationMins))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, err
	}
	return item, nil
}

// Deactivate removes an item from every ranking and blocks further reviews.
func (r *ItemsRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET active = FALSE, updated_at = now() WHERE id = $1 AND active`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Storyline,
		&item.PlatformID,
		&item.Active,
		&item.RatingSum,
		&item.RatingCount,
		&item.AverageRating,
		&item.ReleaseYear,
		&item.DurationMins,
		&item.PosterURL,
		&item.TrailerURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func mapItemRefError(err error) error {
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
