package dto

import (
	"time"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

// ObservationResponse is one eBird sighting as returned to clients.
type ObservationResponse struct {
	Species         string  `json:"species"`
	SpeciesCode     string  `json:"species_code"`
	Loc             string  `json:"loc"`
	LocID           string  `json:"loc_id"`
	Date            string  `json:"date"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	HowMany         *int    `json:"how_many"`
	UserDisplayName *string `json:"user_display_name"`
}

// SearchResponse is one search-history entry.
type SearchResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Radius     int       `json:"radius"`
	BirdCount  int       `json:"bird_count"`
	SearchDate time.Time `json:"search_date"`
}

// NewObservationResponse maps a domain observation.
func NewObservationResponse(o *domain.Observation) ObservationResponse {
	return ObservationResponse{
		Species:         o.Species,
		SpeciesCode:     o.SpeciesCode,
		Loc:             o.Location,
		LocID:           o.LocationID,
		Date:            o.Date,
		Lat:             o.Lat,
		Lng:             o.Lng,
		HowMany:         o.HowMany,
		UserDisplayName: o.ObserverName,
	}
}

// NewObservationResponses maps a slice of observations.
func NewObservationResponses(observations []*domain.Observation) []ObservationResponse {
	out := make([]ObservationResponse, 0, len(observations))
	for _, o := range observations {
		out = append(out, NewObservationResponse(o))
	}
	return out
}

// NewSearchResponse maps a domain search.
func NewSearchResponse(s *domain.Search) SearchResponse {
	return SearchResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		Lat:        s.Lat,
		Lng:        s.Lng,
		Radius:     s.RadiusKm,
		BirdCount:  s.BirdCount,
		SearchDate: s.SearchedAt,
	}
}

// NewSearchResponses maps a slice of searches.
func NewSearchResponses(searches []*domain.Search) []SearchResponse {
	out := make([]SearchResponse, 0, len(searches))
	for _, s := range searches {
		out = append(out, NewSearchResponse(s))
	}
	return out
}
