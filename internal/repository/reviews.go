package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/watchmate/watchmate/internal/domain"
)

// ReviewsRepository is the ledger of rating records. Every mutation that
// changes a rating value adjusts the owning item's rating_sum/rating_count in
// the same transaction, so a concurrent reader never observes the ledger and
// the aggregate disagreeing.
type ReviewsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

const reviewColumns = `
    id,
    user_id,
    item_id,
    rating,
    description,
    is_spoiler,
    helpful_count,
    active,
    created_at,
    updated_at
`

// SubmitParams bundles the fields required to record a new review.
type SubmitParams struct {
	UserID      uuid.UUID
	ItemID      uuid.UUID
	Rating      int
	Description *string
	IsSpoiler   bool
}

// UpdateParams carries a partial update to an existing review. Nil fields are
// left unchanged.
type UpdateParams struct {
	ReviewID    uuid.UUID
	ActorID     uuid.UUID
	Rating      *int
	Description *string
	IsSpoiler   *bool
}

const maxWriteAttempts = 3

// Submit records a new review and applies the insert delta
// (sum += rating, count += 1) to the item aggregate.
//
// Returns ErrInvalidRating before touching storage, ErrDuplicateReview when an
// active review already exists for the (user, item) pair, and ErrNotFound when
// the item is missing or inactive. A duplicate leaves the aggregate untouched:
// the insert and the aggregate bump share one aborted transaction, which also
// makes a blind retry of Submit safe.
func (r *ReviewsRepository) Submit(ctx context.Context, params SubmitParams) (domain.Review, error) {
	if err := validateRating(params.Rating); err != nil {
		return domain.Review{}, err
	}

	var review domain.Review
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
            INSERT INTO reviews (id, user_id, item_id, rating, description, is_spoiler)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING %s
        `, reviewColumns)

		row := tx.QueryRow(ctx, query,
			uuid.New(), params.UserID, params.ItemID, params.Rating, params.Description, params.IsSpoiler)
		created, err := scanReview(row)
		if err != nil {
			return err
		}

		if err := applyDelta(ctx, tx, params.ItemID, int64(params.Rating), +1); err != nil {
			return err
		}

		review = created
		return nil
	})
	if err != nil {
		return domain.Review{}, mapSubmitError(err)
	}
	return review, nil
}

// Update modifies the actor's own review. A rating change applies the adjust
// delta (sum += new - old, count unchanged) to the item aggregate in the same
// transaction that persists the new rating.
func (r *ReviewsRepository) Update(ctx context.Context, params UpdateParams) (domain.Review, error) {
	if params.Rating != nil {
		if err := validateRating(*params.Rating); err != nil {
			return domain.Review{}, err
		}
	}

	var review domain.Review
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		current, err := lockReview(ctx, tx, params.ReviewID)
		if err != nil {
			return err
		}
		if current.UserID != params.ActorID {
			return ErrForbidden
		}

		if params.Rating != nil && *params.Rating != current.Rating {
			delta := int64(*params.Rating - current.Rating)
			if err := adjustSum(ctx, tx, current.ItemID, delta); err != nil {
				return err
			}
		}

		query := fmt.Sprintf(`
            UPDATE reviews
            SET rating = COALESCE($2, rating),
                description = COALESCE($3, description),
                is_spoiler = COALESCE($4, is_spoiler),
                updated_at = now()
            WHERE id = $1
            RETURNING %s
        `, reviewColumns)

		row := tx.QueryRow(ctx, query, params.ReviewID, params.Rating, params.Description, params.IsSpoiler)
		updated, err := scanReview(row)
		if err != nil {
			return err
		}
		review = updated
		return nil
	})
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

// Remove soft-deletes a review and applies the remove delta
// (sum -= rating, count -= 1) to the item aggregate; when the count reaches
// zero the sum is reset to zero. The owner may remove their own review;
// moderators may remove any review.
func (r *ReviewsRepository) Remove(ctx context.Context, reviewID, actorID uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		current, err := lockReview(ctx, tx, reviewID)
		if err != nil {
			return err
		}
		if current.UserID != actorID {
			moderator, err := isModerator(ctx, tx, actorID)
			if err != nil {
				return err
			}
			if !moderator {
				return ErrForbidden
			}
		}

		if err := applyDelta(ctx, tx, current.ItemID, -int64(current.Rating), -1); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE reviews SET active = FALSE, updated_at = now() WHERE id = $1 AND active`, reviewID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MarkHelpful bumps the review's helpful counter and returns the new value.
//
// The increment is a single atomic statement, never read-then-write, so
// concurrent votes cannot lose updates. Votes are deliberately not deduplicated
// per user: anyone may vote any number of times.
func (r *ReviewsRepository) MarkHelpful(ctx context.Context, reviewID uuid.UUID) (int, error) {
	const query = `
        UPDATE reviews
        SET helpful_count = helpful_count + 1
        WHERE id = $1 AND active
        RETURNING helpful_count
    `
	var count int
	err := r.pool.QueryRow(ctx, query, reviewID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("mark helpful: %w", err)
	}
	return count, nil
}

// GetByID fetches an active review.
func (r *ReviewsRepository) GetByID(ctx context.Context, reviewID uuid.UUID) (domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1 AND active`, reviewColumns)
	review, err := scanReview(r.pool.QueryRow(ctx, query, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// ListForItem returns an item's active reviews, newest first.
func (r *ReviewsRepository) ListForItem(ctx context.Context, itemID uuid.UUID) ([]domain.Review, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM reviews
        WHERE item_id = $1 AND active
        ORDER BY created_at DESC, id ASC
    `, reviewColumns)

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// inTx runs fn in a transaction, retrying transient serialization/deadlock
// failures with backoff before surfacing ErrWriteConflict.
func (r *ReviewsRepository) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	backoff := 10 * time.Millisecond
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = pgx.BeginFunc(ctx, r.pool, fn)
		if err == nil || !isTransient(err) {
			return err
		}
		r.logger.Warn().Int("attempt", attempt).Err(err).Msg("transient aggregate conflict, retrying")
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %v", ErrWriteConflict, err)
}

// applyDelta applies an insert/remove delta to the item aggregate. The UPDATE
// takes the item's row lock, serializing concurrent writers on the same item
// only. A removal that drops the count to zero resets the sum to zero.
func applyDelta(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, sumDelta int64, countDelta int) error {
	const query = `
        UPDATE items
        SET rating_sum = CASE WHEN rating_count + $3 = 0 THEN 0 ELSE rating_sum + $2 END,
            rating_count = rating_count + $3,
            updated_at = now()
        WHERE id = $1 AND active
    `
	tag, err := tx.Exec(ctx, query, itemID, sumDelta, countDelta)
	if err != nil {
		return fmt.Errorf("apply aggregate delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// adjustSum applies an adjust delta (count unchanged).
func adjustSum(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, delta int64) error {
	const query = `
        UPDATE items
        SET rating_sum = rating_sum + $2,
            updated_at = now()
        WHERE id = $1 AND active
    `
	tag, err := tx.Exec(ctx, query, itemID, delta)
	if err != nil {
		return fmt.Errorf("adjust aggregate sum: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func lockReview(ctx context.Context, tx pgx.Tx, reviewID uuid.UUID) (domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1 AND active FOR UPDATE`, reviewColumns)
	review, err := scanReview(tx.QueryRow(ctx, query, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

func isModerator(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (bool, error) {
	var moderator bool
	err := tx.QueryRow(ctx, `SELECT is_moderator FROM users WHERE id = $1`, userID).Scan(&moderator)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return moderator, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ItemID,
		&review.Rating,
		&review.Description,
		&review.IsSpoiler,
		&review.HelpfulCount,
		&review.Active,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

func mapSubmitError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateReview
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
