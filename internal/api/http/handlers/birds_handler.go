package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/api/dto"
	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
	"github.com/birdwatch-labs/rare-bird-finder/internal/service"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

// BirdsHandler exposes the rare-bird search endpoint.
type BirdsHandler struct {
	birds  *service.BirdService
	logger *zap.Logger
}

// NewBirdsHandler constructs handler.
func NewBirdsHandler(birdService *service.BirdService, logger *zap.Logger) *BirdsHandler {
	return &BirdsHandler{birds: birdService, logger: logger}
}

// RareBirds handles GET /birds/rare. Authentication is optional; an
// authenticated search is also recorded in the user's history.
func (h *BirdsHandler) RareBirds(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return apperrors.NewValidationError("lat required", nil)
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return apperrors.NewValidationError("lng required", nil)
	}
	radius := c.QueryInt("radius", 25)
	if radius < 1 || radius > 100 {
		return apperrors.NewValidationError("radius must be between 1 and 100", nil)
	}

	observations, err := h.birds.FetchRareBirds(c.Context(), lat, lng, radius)
	if err != nil {
		return err
	}

	if user, ok := auth.CurrentUser(c); ok {
		if _, err := h.birds.SaveSearch(c.Context(), user, lat, lng, radius, len(observations)); err != nil {
			// the search result still goes out when history bookkeeping fails
			h.logger.Warn("failed to save search history", zap.Error(err))
		}
	}

	return c.JSON(dto.NewObservationResponses(observations))
}
