package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/repository"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

const (
	defaultZippopotamBaseURL = "https://api.zippopotam.us"
	defaultNominatimBaseURL  = "https://nominatim.openstreetmap.org"

	// Nominatim requires an identifying User-Agent.
	geocodeUserAgent = "rare-bird-finder/1.0"
)

// LocationService geocodes and manages a user's saved locations.
type LocationService struct {
	httpClient        *http.Client
	locations         repository.LocationRepository
	logger            *zap.Logger
	zippopotamBaseURL string
	nominatimBaseURL  string
}

// NewLocationService builds the service.
func NewLocationService(locations repository.LocationRepository, logger *zap.Logger) *LocationService {
	return &LocationService{
		httpClient:        &http.Client{Timeout: 10 * time.Second},
		locations:         locations,
		logger:            logger,
		zippopotamBaseURL: defaultZippopotamBaseURL,
		nominatimBaseURL:  defaultNominatimBaseURL,
	}
}

// GeocodeZip resolves a US ZIP code via the Zippopotam API.
func (s *LocationService) GeocodeZip(ctx context.Context, zipCode string) (float64, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/us/%s", s.zippopotamBaseURL, url.PathEscape(zipCode)), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("zip geocoding failed", zap.String("zip", zipCode), zap.Error(err))
		return 0, 0, apperrors.NewDomainError("UPSTREAM_UNAVAILABLE", "geocoding service temporarily unavailable", http.StatusServiceUnavailable, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, apperrors.NewValidationError(fmt.Sprintf("invalid ZIP code: %s", zipCode), nil)
	}

	var payload struct {
		Places []struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, err
	}
	if len(payload.Places) == 0 {
		return 0, 0, apperrors.NewValidationError(fmt.Sprintf("no location found for ZIP: %s", zipCode), nil)
	}

	lat, err := strconv.ParseFloat(payload.Places[0].Latitude, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(payload.Places[0].Longitude, 64)
	if err != nil {
		return 0, 0, err
	}

	s.logger.Info("geocoded zip", zap.String("zip", zipCode), zap.Float64("lat", lat), zap.Float64("lng", lng))
	return lat, lng, nil
}

// GeocodeCity resolves a US city (optionally with state) via Nominatim.
func (s *LocationService) GeocodeCity(ctx context.Context, city, state string) (float64, float64, error) {
	queryParts := []string{city}
	if state != "" {
		queryParts = append(queryParts, state)
	}
	queryParts = append(queryParts, "USA")

	query := url.Values{}
	query.Set("q", strings.Join(queryParts, ", "))
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("countrycodes", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.nominatimBaseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", geocodeUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("city geocoding failed", zap.String("city", city), zap.Error(err))
		return 0, 0, apperrors.NewDomainError("UPSTREAM_UNAVAILABLE", "geocoding service temporarily unavailable", http.StatusServiceUnavailable, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, apperrors.NewDomainError("UPSTREAM_ERROR", "geocoding service error", http.StatusServiceUnavailable, nil)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, apperrors.NewValidationError(fmt.Sprintf("location not found: %s", strings.Join(queryParts, ", ")), nil)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}

	s.logger.Info("geocoded city", zap.String("city", city), zap.Float64("lat", lat), zap.Float64("lng", lng))
	return lat, lng, nil
}

// Geocode resolves a location by type. City values accept "Denver, CO" form.
func (s *LocationService) Geocode(ctx context.Context, locationType domain.LocationType, value string) (float64, float64, error) {
	switch locationType {
	case domain.LocationTypeZip:
		return s.GeocodeZip(ctx, value)
	case domain.LocationTypeCity:
		parts := strings.SplitN(value, ",", 2)
		city := strings.TrimSpace(parts[0])
		state := ""
		if len(parts) > 1 {
			state = strings.TrimSpace(parts[1])
		}
		return s.GeocodeCity(ctx, city, state)
	}
	return 0, 0, apperrors.NewValidationError(fmt.Sprintf("invalid location type: %s", locationType), nil)
}

// CreateLocationInput holds the data required to save a location.
type CreateLocationInput struct {
	Name          string
	LocationType  domain.LocationType
	LocationValue string
	IsDefault     bool
}

// CreateLocation geocodes the input and persists it. Marking the new
// location default clears any previous default first.
func (s *LocationService) CreateLocation(ctx context.Context, userID string, input CreateLocationInput) (*domain.SavedLocation, error) {
	lat, lng, err := s.Geocode(ctx, input.LocationType, input.LocationValue)
	if err != nil {
		return nil, err
	}

	if input.IsDefault {
		if err := s.locations.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}

	location := &domain.SavedLocation{
		UserID:        userID,
		Name:          input.Name,
		LocationType:  input.LocationType,
		LocationValue: input.LocationValue,
		Lat:           lat,
		Lng:           lng,
		IsDefault:     input.IsDefault,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// ListLocations returns the user's saved locations.
func (s *LocationService) ListLocations(ctx context.Context, userID string) ([]*domain.SavedLocation, error) {
	return s.locations.ListByUser(ctx, userID)
}

// UpdateLocationInput carries optional location changes.
type UpdateLocationInput struct {
	Name      *string
	IsDefault *bool
}

// UpdateLocation renames a location or changes which one is the default.
func (s *LocationService) UpdateLocation(ctx context.Context, userID, id string, input UpdateLocationInput) (*domain.SavedLocation, error) {
	location, err := s.locations.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("location", nil)
		}
		return nil, err
	}

	if input.Name != nil {
		location.Name = *input.Name
	}
	if input.IsDefault != nil {
		if *input.IsDefault && !location.IsDefault {
			if err := s.locations.ClearDefault(ctx, userID); err != nil {
				return nil, err
			}
		}
		location.IsDefault = *input.IsDefault
	}

	if err := s.locations.Update(ctx, location); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("location", nil)
		}
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes a saved location owned by the user.
func (s *LocationService) DeleteLocation(ctx context.Context, userID, id string) error {
	if err := s.locations.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("location", nil)
		}
		return err
	}
	return nil
}
