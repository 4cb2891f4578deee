package handlers

import (
	"tunebox/internal/middleware"
	"tunebox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PlaylistHandler handles HTTP requests for playlists.
type PlaylistHandler struct {
	service  *services.PlaylistService
	pageSize int
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(service *services.PlaylistService, pageSize int) *PlaylistHandler {
	return &PlaylistHandler{service: service, pageSize: pageSize}
}

// RegisterRoutes registers the playlist routes with the Fiber app.
func (h *PlaylistHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	playlists := router.Group("/playlists", guards.Required)
	playlists.Get("/", h.HandleListPlaylists)
	playlists.Post("/", h.HandleCreatePlaylist)
	playlists.Get("/:id", h.HandleGetPlaylist)
	playlists.Put("/:id", h.HandleUpdatePlaylist)
	playlists.Patch("/:id", h.HandleUpdatePlaylist)
	playlists.Delete("/:id", h.HandleDeletePlaylist)
	playlists.Post("/:id/add", h.HandleAddTrack)
	playlists.Post("/:id/remove", h.HandleRemoveTrack)
}

// PlaylistRequest represents the request body for creating or updating a playlist.
type PlaylistRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	IsPublic *bool   `json:"is_public"`
}

// HandleListPlaylists lists the current user's playlists.
func (h *PlaylistHandler) HandleListPlaylists(c *fiber.Ctx) error {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		return err
	}
	playlists, total, err := h.service.List(c.UserContext(), middleware.Actor(c), page)
	if err != nil {
		return err
	}
	return c.JSON(newPageResponse(playlists, total, page))
}

// HandleCreatePlaylist creates a playlist owned by the current user.
func (h *PlaylistHandler) HandleCreatePlaylist(c *fiber.Ctx) error {
	var req PlaylistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.Create(c.UserContext(), middleware.Actor(c), services.PlaylistInput{Name: req.Name, IsPublic: req.IsPublic})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandleGetPlaylist returns a playlist with its ordered tracks.
func (h *PlaylistHandler) HandleGetPlaylist(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// HandleUpdatePlaylist renames a playlist or changes its visibility.
func (h *PlaylistHandler) HandleUpdatePlaylist(c *fiber.Ctx) error {
	var req PlaylistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	detail, err := h.service.Update(c.UserContext(), middleware.Actor(c), c.Params("id"), services.PlaylistInput{Name: req.Name, IsPublic: req.IsPublic})
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// HandleDeletePlaylist deletes a playlist.
func (h *PlaylistHandler) HandleDeletePlaylist(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PlaylistTrackRequest represents the request body for adding or removing a track.
type PlaylistTrackRequest struct {
	TrackID string `json:"track_id" validate:"required"`
	Order   int    `json:"order" validate:"gte=0"`
}

// HandleAddTrack adds a track to the playlist or moves it to a new order.
func (h *PlaylistHandler) HandleAddTrack(c *fiber.Ctx) error {
	var req PlaylistTrackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.AddTrack(c.UserContext(), middleware.Actor(c), c.Params("id"), req.TrackID, req.Order)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

// HandleRemoveTrack removes a track from the playlist. Removing a non-member succeeds.
func (h *PlaylistHandler) HandleRemoveTrack(c *fiber.Ctx) error {
	var req PlaylistTrackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	removed, err := h.service.RemoveTrack(c.UserContext(), middleware.Actor(c), c.Params("id"), req.TrackID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"removed": removed})
}
