package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/config"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/events"
	"github.com/birdwatch-labs/rare-bird-finder/internal/repository"
)

const notableObservationsPath = "/data/obs/geo/recent/notable"

// BirdService fetches notable sightings from eBird and records searches.
type BirdService struct {
	ebird      *ebirdClient
	searches   repository.SearchRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewBirdService builds the service.
func NewBirdService(cfg config.EBirdConfig, searches repository.SearchRepository, dispatcher events.Dispatcher, logger *zap.Logger) *BirdService {
	return &BirdService{
		ebird:      newEBirdClient(cfg, logger),
		searches:   searches,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// FetchRareBirds returns notable sightings around the given point.
func (s *BirdService) FetchRareBirds(ctx context.Context, lat, lng float64, radiusKm int) ([]*domain.Observation, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("dist", strconv.Itoa(radiusKm))

	var raw []ebirdObservation
	if err := s.ebird.get(ctx, notableObservationsPath, query, &raw); err != nil {
		return nil, err
	}

	observations := make([]*domain.Observation, 0, len(raw))
	for _, item := range raw {
		observations = append(observations, item.toDomain())
	}
	return observations, nil
}

// SaveSearch records a search in the user's history and publishes the
// matching event.
func (s *BirdService) SaveSearch(ctx context.Context, user *domain.User, lat, lng float64, radiusKm, birdCount int) (*domain.Search, error) {
	search := &domain.Search{
		UserID:    user.ID,
		Lat:       lat,
		Lng:       lng,
		RadiusKm:  radiusKm,
		BirdCount: birdCount,
	}
	if err := s.searches.Create(ctx, search); err != nil {
		return nil, err
	}

	s.logger.Info("saved search",
		zap.String("user_email", user.Email),
		zap.Int("bird_count", birdCount))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventSearchSaved,
			UserID:     user.ID,
			Payload:    map[string]any{"bird_count": birdCount, "radius_km": radiusKm},
			OccurredAt: time.Now(),
		})
	}
	return search, nil
}

// SearchHistory lists the user's most recent searches.
func (s *BirdService) SearchHistory(ctx context.Context, userID string, limit int) ([]*domain.Search, error) {
	return s.searches.ListByUser(ctx, userID, limit)
}
