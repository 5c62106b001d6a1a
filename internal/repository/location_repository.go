package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

// LocationRepository defines persistence access for saved locations.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.SavedLocation) error
	Update(ctx context.Context, location *domain.SavedLocation) error
	GetByID(ctx context.Context, userID, id string) (*domain.SavedLocation, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.SavedLocation, error)
	ClearDefault(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
}

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository returns a Postgres-backed implementation.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) Create(ctx context.Context, location *domain.SavedLocation) error {
	const query = `
        INSERT INTO user_locations (user_id, name, location_type, location_value, lat, lng, is_default)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		location.UserID,
		location.Name,
		location.LocationType,
		location.LocationValue,
		location.Lat,
		location.Lng,
		location.IsDefault,
	).Scan(&location.ID, &location.CreatedAt)
}

func (r *locationRepository) Update(ctx context.Context, location *domain.SavedLocation) error {
	const query = `
        UPDATE user_locations SET name=$1, is_default=$2
        WHERE id=$3 AND user_id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		location.Name,
		location.IsDefault,
		location.ID,
		location.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, userID, id string) (*domain.SavedLocation, error) {
	const query = `
        SELECT id, user_id, name, location_type, location_value, lat, lng, is_default, created_at
        FROM user_locations WHERE id=$1 AND user_id=$2`

	var l domain.SavedLocation
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&l.ID,
		&l.UserID,
		&l.Name,
		&l.LocationType,
		&l.LocationValue,
		&l.Lat,
		&l.Lng,
		&l.IsDefault,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedLocation, error) {
	const query = `
        SELECT id, user_id, name, location_type, location_value, lat, lng, is_default, created_at
        FROM user_locations WHERE user_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]*domain.SavedLocation, 0)
	for rows.Next() {
		var l domain.SavedLocation
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.LocationType, &l.LocationValue, &l.Lat, &l.Lng, &l.IsDefault, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *locationRepository) ClearDefault(ctx context.Context, userID string) error {
	const query = `UPDATE user_locations SET is_default=FALSE WHERE user_id=$1 AND is_default=TRUE`

	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *locationRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM user_locations WHERE id=$1 AND user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
