package handlers

import (
	"tunebox/internal/middleware"
	"tunebox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LibraryHandler serves the current user's favorites and play history.
type LibraryHandler struct {
	favorites *services.FavoriteService
	history   *services.HistoryService
	pageSize  int
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(favorites *services.FavoriteService, history *services.HistoryService, pageSize int) *LibraryHandler {
	return &LibraryHandler{favorites: favorites, history: history, pageSize: pageSize}
}

// RegisterRoutes registers the favorite and history routes.
func (h *LibraryHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	favorites := router.Group("/favorites", guards.Required)
	favorites.Get("/", h.HandleListFavorites)
	favorites.Post("/", h.HandleCreateFavorite)
	favorites.Delete("/:id", h.HandleDeleteFavorite)

	router.Get("/history", guards.Required, h.HandleListHistory)
}

// HandleListFavorites lists the current user's favorites, newest first.
func (h *LibraryHandler) HandleListFavorites(c *fiber.Ctx) error {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		return err
	}
	favs, total, err := h.favorites.List(c.UserContext(), middleware.Actor(c), page)
	if err != nil {
		return err
	}
	return c.JSON(newPageResponse(favs, total, page))
}

// FavoriteRequest represents the request body for favoriting a track.
type FavoriteRequest struct {
	TrackID string `json:"track_id" validate:"required"`
}

// HandleCreateFavorite favorites a track. An existing favorite is returned with 200.
func (h *LibraryHandler) HandleCreateFavorite(c *fiber.Ctx) error {
	var req FavoriteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	fav, created, err := h.favorites.Create(c.UserContext(), middleware.Actor(c), req.TrackID)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fav)
}

// HandleDeleteFavorite deletes one of the current user's favorites.
func (h *LibraryHandler) HandleDeleteFavorite(c *fiber.Ctx) error {
	if err := h.favorites.Delete(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListHistory lists the current user's plays, most recent first.
func (h *LibraryHandler) HandleListHistory(c *fiber.Ctx) error {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		return err
	}
	entries, total, err := h.history.List(c.UserContext(), middleware.Actor(c), page)
	if err != nil {
		return err
	}
	return c.JSON(newPageResponse(entries, total, page))
}
