package domain

import "time"

// LocationType distinguishes how a saved location was entered.
type LocationType string

const (
	LocationTypeZip  LocationType = "zip"
	LocationTypeCity LocationType = "city"
)

// SavedLocation is a user-named place ("Home", "Work") resolved to
// coordinates at creation time. At most one location per user is the default.
type SavedLocation struct {
	ID            string
	UserID        string
	Name          string
	LocationType  LocationType
	LocationValue string
	Lat           float64
	Lng           float64
	IsDefault     bool
	CreatedAt     time.Time
}
