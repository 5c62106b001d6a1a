package dto

import (
	"time"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

// LocationCreateRequest payload for saving a location.
type LocationCreateRequest struct {
	Name          string `json:"name"`
	LocationType  string `json:"location_type"`
	LocationValue string `json:"location_value"`
	IsDefault     bool   `json:"is_default"`
}

// LocationUpdateRequest carries optional location changes.
type LocationUpdateRequest struct {
	Name      *string `json:"name"`
	IsDefault *bool   `json:"is_default"`
}

// LocationResponse is one saved location.
type LocationResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	LocationType  string    `json:"location_type"`
	LocationValue string    `json:"location_value"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewLocationResponse maps a domain location.
func NewLocationResponse(l *domain.SavedLocation) LocationResponse {
	return LocationResponse{
		ID:            l.ID,
		UserID:        l.UserID,
		Name:          l.Name,
		LocationType:  string(l.LocationType),
		LocationValue: l.LocationValue,
		Lat:           l.Lat,
		Lng:           l.Lng,
		IsDefault:     l.IsDefault,
		CreatedAt:     l.CreatedAt,
	}
}

// NewLocationResponses maps a slice of locations.
func NewLocationResponses(locations []*domain.SavedLocation) []LocationResponse {
	out := make([]LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, NewLocationResponse(l))
	}
	return out
}
