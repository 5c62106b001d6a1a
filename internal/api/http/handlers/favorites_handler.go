package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/birdwatch-labs/rare-bird-finder/internal/api/dto"
	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
	"github.com/birdwatch-labs/rare-bird-finder/internal/service"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

// FavoritesHandler exposes favorite-bird endpoints.
type FavoritesHandler struct {
	favorites *service.FavoriteService
}

// NewFavoritesHandler constructs handler.
func NewFavoritesHandler(favoriteService *service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favoriteService}
}

// Add handles POST /auth/favorites.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	var req dto.FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SpeciesName == "" || req.SpeciesCode == "" {
		return apperrors.NewValidationError("species_name and species_code required", nil)
	}

	favorite, err := h.favorites.AddFavorite(c.Context(), user.ID, service.FavoriteInput{
		SpeciesName:    req.SpeciesName,
		SpeciesCode:    req.SpeciesCode,
		ScientificName: req.ScientificName,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewFavoriteResponse(favorite))
}

// List handles GET /auth/favorites.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	favorites, err := h.favorites.ListFavorites(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFavoriteResponses(favorites))
}

// Check handles GET /auth/favorites/check/:species_code.
func (h *FavoritesHandler) Check(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	isFavorited, favoriteID, err := h.favorites.CheckFavorite(c.Context(), user.ID, c.Params("species_code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"is_favorited": isFavorited,
		"favorite_id":  favoriteID,
	})
}

// Remove handles DELETE /auth/favorites/:favorite_id.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	if err := h.favorites.RemoveFavorite(c.Context(), user.ID, c.Params("favorite_id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
