package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/birdwatch-labs/rare-bird-finder/internal/api/http/handlers"
	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Birds          *handlers.BirdsHandler
	Species        *handlers.SpeciesHandler
	Favorites      *handlers.FavoritesHandler
	Locations      *handlers.LocationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/birds/rare", cfg.AuthMiddleware.Optional, cfg.Birds.RareBirds)

	species := app.Group("/species")
	species.Get("/suggest", cfg.Species.Suggest)
	species.Get("/observations", cfg.Species.Observations)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	protected := authGroup.Group("", cfg.AuthMiddleware.Required)
	protected.Get("/me", cfg.Auth.Me)
	protected.Get("/searches", cfg.Auth.Searches)

	protected.Post("/favorites", cfg.Favorites.Add)
	protected.Get("/favorites", cfg.Favorites.List)
	protected.Get("/favorites/check/:species_code", cfg.Favorites.Check)
	protected.Delete("/favorites/:favorite_id", cfg.Favorites.Remove)

	protected.Post("/locations", cfg.Locations.Create)
	protected.Get("/locations", cfg.Locations.List)
	protected.Patch("/locations/:location_id", cfg.Locations.Update)
	protected.Delete("/locations/:location_id", cfg.Locations.Remove)
}
