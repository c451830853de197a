package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/watchmate/watchmate/internal/domain"
)

// UsersRepository persists platform accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a user.
func (r *UsersRepository) Create(ctx context.Context, username string, isModerator bool) (domain.User, error) {
	const query = `
        INSERT INTO users (id, username, is_moderator)
        VALUES ($1,$2,$3)
        RETURNING id, username, is_moderator, created_at
    `
	var user domain.User
	err := r.pool.QueryRow(ctx, query, uuid.New(), username, isModerator).Scan(
		&user.ID, &user.Username, &user.IsModerator, &user.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const query = `SELECT id, username, is_moderator, created_at FROM users WHERE id = $1`
	var user domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.IsModerator, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// PlatformsRepository persists streaming platforms.
type PlatformsRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a platform.
func (r *PlatformsRepository) Create(ctx context.Context, name, about, website string) (domain.Platform, error) {
	const query = `
        INSERT INTO platforms (id, name, about, website)
        VALUES ($1,$2,$3,$4)
        RETURNING id, name, about, website
    `
	var platform domain.Platform
	err := r.pool.QueryRow(ctx, query, uuid.New(), name, about, website).Scan(
		&platform.ID, &platform.Name, &platform.About, &platform.Website)
	if err != nil {
		return domain.Platform{}, err
	}
	return platform, nil
}

// GenresRepository persists catalog genres.
type GenresRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a genre.
func (r *GenresRepository) Create(ctx context.Context, name, slug, description string) (domain.Genre, error) {
	const query = `
        INSERT INTO genres (id, name, slug, description)
        VALUES ($1,$2,$3,$4)
        RETURNING id, name, slug, description
    `
	var genre domain.Genre
	err := r.pool.QueryRow(ctx, query, uuid.New(), name, slug, description).Scan(
		&genre.ID, &genre.Name, &genre.Slug, &genre.Description)
	if err != nil {
		return domain.Genre{}, err
	}
	return genre, nil
}
