package domain

import "time"

// Search records one rare-bird lookup performed by an authenticated user.
type Search struct {
	ID         string
	UserID     string
	Lat        float64
	Lng        float64
	RadiusKm   int
	BirdCount  int
	SearchedAt time.Time
}
