package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/events"
	"github.com/birdwatch-labs/rare-bird-finder/internal/repository"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

// FavoriteService manages a user's bookmarked species.
type FavoriteService struct {
	favorites  repository.FavoriteRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewFavoriteService builds the service.
func NewFavoriteService(favorites repository.FavoriteRepository, dispatcher events.Dispatcher, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, dispatcher: dispatcher, logger: logger}
}

// FavoriteInput holds the data required to bookmark a species.
type FavoriteInput struct {
	SpeciesName    string
	SpeciesCode    string
	ScientificName *string
	Notes          *string
}

// AddFavorite bookmarks a species for the user. The same species name can
// only be favorited once per user.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID string, input FavoriteInput) (*domain.FavoriteBird, error) {
	if _, err := s.favorites.GetBySpeciesName(ctx, userID, input.SpeciesName); err == nil {
		return nil, apperrors.NewConflict("bird already in favorites", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	favorite := &domain.FavoriteBird{
		UserID:         userID,
		SpeciesName:    input.SpeciesName,
		SpeciesCode:    input.SpeciesCode,
		ScientificName: input.ScientificName,
		Notes:          input.Notes,
	}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventFavoriteAdded,
			UserID:     userID,
			Payload:    map[string]any{"species_code": favorite.SpeciesCode, "species_name": favorite.SpeciesName},
			OccurredAt: time.Now(),
		})
	}
	return favorite, nil
}

// ListFavorites returns the user's favorites, newest first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]*domain.FavoriteBird, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// CheckFavorite reports whether the species is favorited and, if so, the
// favorite's ID.
func (s *FavoriteService) CheckFavorite(ctx context.Context, userID, speciesCode string) (bool, *string, error) {
	favorite, err := s.favorites.GetBySpeciesCode(ctx, userID, speciesCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, &favorite.ID, nil
}

// RemoveFavorite deletes a favorite owned by the user.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, id string) error {
	if err := s.favorites.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("favorite", nil)
		}
		return err
	}
	return nil
}
