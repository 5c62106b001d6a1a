package dto

import "github.com/birdwatch-labs/rare-bird-finder/internal/domain"

// SpeciesSuggestionResponse is one autocomplete match.
type SpeciesSuggestionResponse struct {
	SpeciesName    string `json:"species_name"`
	SpeciesCode    string `json:"species_code"`
	ScientificName string `json:"scientific_name"`
}

// NewSpeciesSuggestionResponses maps a slice of suggestions.
func NewSpeciesSuggestionResponses(suggestions []*domain.SpeciesSuggestion) []SpeciesSuggestionResponse {
	out := make([]SpeciesSuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, SpeciesSuggestionResponse{
			SpeciesName:    s.SpeciesName,
			SpeciesCode:    s.SpeciesCode,
			ScientificName: s.ScientificName,
		})
	}
	return out
}
