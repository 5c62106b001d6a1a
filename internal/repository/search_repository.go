package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

// SearchRepository defines persistence access for search history.
type SearchRepository interface {
	Create(ctx context.Context, search *domain.Search) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Search, error)
}

type searchRepository struct {
	pool *pgxpool.Pool
}

// NewSearchRepository returns a Postgres-backed implementation.
func NewSearchRepository(pool *pgxpool.Pool) SearchRepository {
	return &searchRepository{pool: pool}
}

func (r *searchRepository) Create(ctx context.Context, search *domain.Search) error {
	const query = `
        INSERT INTO user_searches (user_id, lat, lng, radius_km, bird_count)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, searched_at`

	return r.pool.QueryRow(ctx, query,
		search.UserID,
		search.Lat,
		search.Lng,
		search.RadiusKm,
		search.BirdCount,
	).Scan(&search.ID, &search.SearchedAt)
}

func (r *searchRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Search, error) {
	const query = `
        SELECT id, user_id, lat, lng, radius_km, bird_count, searched_at
        FROM user_searches WHERE user_id=$1
        ORDER BY searched_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := make([]*domain.Search, 0)
	for rows.Next() {
		var s domain.Search
		if err := rows.Scan(&s.ID, &s.UserID, &s.Lat, &s.Lng, &s.RadiusKm, &s.BirdCount, &s.SearchedAt); err != nil {
			return nil, err
		}
		searches = append(searches, &s)
	}
	return searches, rows.Err()
}
