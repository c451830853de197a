package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/watchmate/watchmate/internal/domain"
)

// WatchlistRepository persists users' saved-item lists. Entries are owned
// exclusively by the user and need no cross-entity coordination.
type WatchlistRepository struct {
	pool *pgxpool.Pool
}

// Upsert saves or updates the status of a user's watchlist entry and indicates
// whether it was newly created.
func (r *WatchlistRepository) Upsert(ctx context.Context, userID, itemID uuid.UUID, status domain.WatchlistStatus) (domain.WatchlistEntry, bool, error) {
	if !status.Valid() {
		return domain.WatchlistEntry{}, false, fmt.Errorf("invalid watchlist status %q", status)
	}

	const query = `
        INSERT INTO watchlist_entries (id, user_id, item_id, status)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, item_id)
        DO UPDATE SET status = EXCLUDED.status
        RETURNING id, user_id, item_id, status, added_at, (xmax = 0) AS inserted
    `

	var entry domain.WatchlistEntry
	var inserted bool
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, itemID, status).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ItemID,
		&entry.Status,
		&entry.AddedAt,
		&inserted,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.WatchlistEntry{}, false, ErrNotFound
		}
		return domain.WatchlistEntry{}, false, err
	}
	return entry, inserted, nil
}

// Remove deletes a user's watchlist entry for an item.
func (r *WatchlistRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM watchlist_entries WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns the user's watchlist entries, newest first.
func (r *WatchlistRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.WatchlistEntry, error) {
	const query = `
        SELECT id, user_id, item_id, status, added_at
        FROM watchlist_entries
        WHERE user_id = $1
        ORDER BY added_at DESC, id ASC
    `
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.WatchlistEntry, 0)
	for rows.Next() {
		var entry domain.WatchlistEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.Status, &entry.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
