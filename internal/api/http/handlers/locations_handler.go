package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/birdwatch-labs/rare-bird-finder/internal/api/dto"
	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/service"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

// LocationsHandler exposes saved-location endpoints.
type LocationsHandler struct {
	locations *service.LocationService
}

// NewLocationsHandler constructs handler.
func NewLocationsHandler(locationService *service.LocationService) *LocationsHandler {
	return &LocationsHandler{locations: locationService}
}

// Create handles POST /auth/locations.
func (h *LocationsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	var req dto.LocationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.LocationValue == "" {
		return apperrors.NewValidationError("name and location_value required", nil)
	}
	locationType := domain.LocationType(req.LocationType)
	if locationType != domain.LocationTypeZip && locationType != domain.LocationTypeCity {
		return apperrors.NewValidationError("location_type must be zip or city", nil)
	}

	location, err := h.locations.CreateLocation(c.Context(), user.ID, service.CreateLocationInput{
		Name:          req.Name,
		LocationType:  locationType,
		LocationValue: req.LocationValue,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewLocationResponse(location))
}

// List handles GET /auth/locations.
func (h *LocationsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	locations, err := h.locations.ListLocations(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLocationResponses(locations))
}

// Update handles PATCH /auth/locations/:location_id.
func (h *LocationsHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	var req dto.LocationUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == nil && req.IsDefault == nil {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	location, err := h.locations.UpdateLocation(c.Context(), user.ID, c.Params("location_id"), service.UpdateLocationInput{
		Name:      req.Name,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLocationResponse(location))
}

// Remove handles DELETE /auth/locations/:location_id.
func (h *LocationsHandler) Remove(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	if err := h.locations.DeleteLocation(c.Context(), user.ID, c.Params("location_id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
