package domain

import "time"

// FavoriteBird is a species a user has bookmarked. SpeciesName is unique per
// user; ScientificName and Notes are optional.
type FavoriteBird struct {
	ID             string
	UserID         string
	SpeciesName    string
	SpeciesCode    string
	ScientificName *string
	Notes          *string
	AddedAt        time.Time
}
