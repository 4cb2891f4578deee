// Package server assembles the HTTP application from its dependencies.
package server

import (
	"time"

	"tunebox/internal/auth"
	"tunebox/internal/config"
	"tunebox/internal/handlers"
	"tunebox/internal/middleware"
	"tunebox/internal/notify"
	"tunebox/internal/repositories"
	"tunebox/internal/services"
	"tunebox/internal/storage"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Deps are the collaborators the application is built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Tokens   *auth.TokenService
	Issuer   storage.Issuer
	Notifier notify.Notifier
	Logger   *log.Logger
	// HashCost overrides the bcrypt cost when non-zero.
	HashCost int
}

// NewAuthService builds the auth service over the user table.
func NewAuthService(d Deps) *services.AuthService {
	svc := services.NewAuthService(repositories.NewGORMUserRepository(d.DB), d.Tokens, d.Notifier, d.Config.SiteURL, d.Logger)
	if d.HashCost != 0 {
		svc.WithHashCost(d.HashCost)
	}
	return svc
}

// New wires repositories, services and handlers into a Fiber app. Routes live under /api.
func New(d Deps) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(d.DB)
	trackRepo := repositories.NewGORMTrackRepository(d.DB)
	favoriteRepo := repositories.NewGORMFavoriteRepository(d.DB)
	historyRepo := repositories.NewGORMHistoryRepository(d.DB)
	playlistRepo := repositories.NewGORMPlaylistRepository(d.DB)

	authService := NewAuthService(d)
	profileService := services.NewProfileService(userRepo)
	trackService := services.NewTrackService(trackRepo, favoriteRepo, historyRepo, d.Issuer, d.Logger)
	favoriteService := services.NewFavoriteService(favoriteRepo, trackRepo)
	historyService := services.NewHistoryService(historyRepo)
	playlistService := services.NewPlaylistService(playlistRepo, trackRepo)

	pageSize := d.Config.PageSize

	app := fiber.New(fiber.Config{
		AppName:      "tunebox",
		ErrorHandler: handlers.ErrorHandler(d.Logger),
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: d.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}).Writer(),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	guards := handlers.Guards{
		Required: middleware.AuthRequired(authService),
		Optional: middleware.OptionalAuth(authService),
	}

	api := app.Group("/api")
	handlers.NewAuthHandler(authService).RegisterRoutes(api, guards)
	handlers.NewProfileHandler(profileService).RegisterRoutes(api, guards)
	handlers.NewTrackHandler(trackService, pageSize).RegisterRoutes(api, guards)
	handlers.NewLibraryHandler(favoriteService, historyService, pageSize).RegisterRoutes(api, guards)
	handlers.NewPlaylistHandler(playlistService, pageSize).RegisterRoutes(api, guards)

	return app
}
