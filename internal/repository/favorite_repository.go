package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

// FavoriteRepository defines persistence access for favorite birds.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *domain.FavoriteBird) error
	ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteBird, error)
	GetBySpeciesName(ctx context.Context, userID, speciesName string) (*domain.FavoriteBird, error)
	GetBySpeciesCode(ctx context.Context, userID, speciesCode string) (*domain.FavoriteBird, error)
	Delete(ctx context.Context, userID, id string) error
}

type favoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository returns a Postgres-backed implementation.
func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *domain.FavoriteBird) error {
	const query = `
        INSERT INTO user_favorite_birds (user_id, species_name, species_code, scientific_name, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, added_at`

	return r.pool.QueryRow(ctx, query,
		favorite.UserID,
		favorite.SpeciesName,
		favorite.SpeciesCode,
		favorite.ScientificName,
		favorite.Notes,
	).Scan(&favorite.ID, &favorite.AddedAt)
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteBird, error) {
	const query = `
        SELECT id, user_id, species_name, species_code, scientific_name, notes, added_at
        FROM user_favorite_birds WHERE user_id=$1
        ORDER BY added_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]*domain.FavoriteBird, 0)
	for rows.Next() {
		var f domain.FavoriteBird
		if err := rows.Scan(&f.ID, &f.UserID, &f.SpeciesName, &f.SpeciesCode, &f.ScientificName, &f.Notes, &f.AddedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, &f)
	}
	return favorites, rows.Err()
}

func (r *favoriteRepository) GetBySpeciesName(ctx context.Context, userID, speciesName string) (*domain.FavoriteBird, error) {
	const query = `
        SELECT id, user_id, species_name, species_code, scientific_name, notes, added_at
        FROM user_favorite_birds WHERE user_id=$1 AND species_name=$2`

	return r.scanOne(ctx, query, userID, speciesName)
}

func (r *favoriteRepository) GetBySpeciesCode(ctx context.Context, userID, speciesCode string) (*domain.FavoriteBird, error) {
	const query = `
        SELECT id, user_id, species_name, species_code, scientific_name, notes, added_at
        FROM user_favorite_birds WHERE user_id=$1 AND species_code=$2`

	return r.scanOne(ctx, query, userID, speciesCode)
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM user_favorite_birds WHERE id=$1 AND user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *favoriteRepository) scanOne(ctx context.Context, query string, args ...any) (*domain.FavoriteBird, error) {
	var f domain.FavoriteBird
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&f.ID,
		&f.UserID,
		&f.SpeciesName,
		&f.SpeciesCode,
		&f.ScientificName,
		&f.Notes,
		&f.AddedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
