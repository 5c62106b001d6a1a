package dto

import (
	"time"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
)

// FavoriteRequest payload for bookmarking a species.
type FavoriteRequest struct {
	SpeciesName    string  `json:"species_name"`
	SpeciesCode    string  `json:"species_code"`
	ScientificName *string `json:"scientific_name"`
	Notes          *string `json:"notes"`
}

// FavoriteResponse is one bookmarked species.
type FavoriteResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SpeciesName    string    `json:"species_name"`
	SpeciesCode    string    `json:"species_code"`
	ScientificName *string   `json:"scientific_name"`
	Notes          *string   `json:"notes"`
	AddedDate      time.Time `json:"added_date"`
}

// NewFavoriteResponse maps a domain favorite.
func NewFavoriteResponse(f *domain.FavoriteBird) FavoriteResponse {
	return FavoriteResponse{
		ID:             f.ID,
		UserID:         f.UserID,
		SpeciesName:    f.SpeciesName,
		SpeciesCode:    f.SpeciesCode,
		ScientificName: f.ScientificName,
		Notes:          f.Notes,
		AddedDate:      f.AddedAt,
	}
}

// NewFavoriteResponses maps a slice of favorites.
func NewFavoriteResponses(favorites []*domain.FavoriteBird) []FavoriteResponse {
	out := make([]FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, NewFavoriteResponse(f))
	}
	return out
}
