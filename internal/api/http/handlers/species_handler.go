package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/birdwatch-labs/rare-bird-finder/internal/api/dto"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/service"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

// eBird caps the back parameter at 30 days on the endpoints we use.
const maxBackDays = 30

// SpeciesHandler exposes species autocomplete and observations endpoints.
type SpeciesHandler struct {
	species   *service.SpeciesService
	locations *service.LocationService
}

// NewSpeciesHandler constructs handler.
func NewSpeciesHandler(speciesService *service.SpeciesService, locationService *service.LocationService) *SpeciesHandler {
	return &SpeciesHandler{species: speciesService, locations: locationService}
}

// Suggest handles GET /species/suggest.
func (h *SpeciesHandler) Suggest(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return apperrors.NewValidationError("q required", nil)
	}
	limit := c.QueryInt("limit", 10)

	suggestions, err := h.species.Suggest(c.Context(), query, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSpeciesSuggestionResponses(suggestions))
}

// Observations handles GET /species/observations. Callers provide either
// lat/lng or a location to geocode.
func (h *SpeciesHandler) Observations(c *fiber.Ctx) error {
	speciesCode := c.Query("species_code")
	if len(speciesCode) < 2 {
		return apperrors.NewValidationError("species_code required", nil)
	}

	radius := c.QueryInt("radius_km", 25)
	if radius < 1 || radius > 100 {
		return apperrors.NewValidationError("radius_km must be between 1 and 100", nil)
	}

	lat, lng, err := h.resolveCoordinates(c)
	if err != nil {
		return err
	}

	backDays, err := parseCutoffToBackDays(c.Query("cutoff_date"))
	if err != nil {
		return err
	}

	observations, err := h.species.FetchSpeciesObservations(c.Context(), speciesCode, lat, lng, radius, backDays)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewObservationResponses(observations))
}

func (h *SpeciesHandler) resolveCoordinates(c *fiber.Ctx) (float64, float64, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return 0, 0, apperrors.NewValidationError("invalid lat", nil)
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return 0, 0, apperrors.NewValidationError("invalid lng", nil)
		}
		return lat, lng, nil
	}

	locationType := c.Query("location_type")
	locationValue := c.Query("location_value")
	if locationType != "" && locationValue != "" {
		return h.locations.Geocode(c.Context(), domain.LocationType(locationType), locationValue)
	}

	return 0, 0, apperrors.NewValidationError("provide lat/lng or location_type and location_value", nil)
}

// parseCutoffToBackDays converts an inclusive YYYY-MM-DD start date into the
// number of days back from now, clamped to eBird's supported range.
func parseCutoffToBackDays(cutoffDate string) (int, error) {
	if cutoffDate == "" {
		return 0, nil
	}
	cutoff, err := time.Parse("2006-01-02", cutoffDate)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid cutoff_date format, use YYYY-MM-DD", nil)
	}

	days := int(time.Since(cutoff.UTC()).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days > maxBackDays {
		days = maxBackDays
	}
	return days, nil
}
