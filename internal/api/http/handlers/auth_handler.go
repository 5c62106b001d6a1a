package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/birdwatch-labs/rare-bird-finder/internal/api/dto"
	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
	"github.com/birdwatch-labs/rare-bird-finder/internal/service"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

const tokenTypeBearer = "bearer"

// AuthHandler exposes registration, login, refresh and profile endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	birds *service.BirdService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, birdService *service.BirdService) *AuthHandler {
	return &AuthHandler{auth: authService, birds: birdService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("email, username, password required", nil)
	}
	if !strings.Contains(req.Email, "@") {
		return apperrors.NewValidationError("invalid email address", nil)
	}
	if n := len(strings.TrimSpace(req.Username)); n < 3 || n > 50 {
		return apperrors.NewValidationError("username must be 3-50 characters", nil)
	}
	if len(req.Password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login handles POST /auth/login. Credentials arrive as OAuth2-style form
// fields or as JSON.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    tokenTypeBearer,
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil && c.Query("refresh_token") == "" {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		req.RefreshToken = c.Query("refresh_token")
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}

	pair, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    tokenTypeBearer,
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	profile, err := h.auth.Profile(c.Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileResponse{
		UserResponse:   dto.NewUserResponse(profile.User),
		RecentSearches: dto.NewSearchResponses(profile.RecentSearches),
		Favorites:      dto.NewFavoriteResponses(profile.Favorites),
	})
}

// Searches handles GET /auth/searches.
func (h *AuthHandler) Searches(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	searches, err := h.birds.SearchHistory(c.Context(), user.ID, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSearchResponses(searches))
}
