package handlers

import (
	"strconv"

	"tunebox/internal/apperr"
	"tunebox/internal/middleware"
	"tunebox/internal/repositories"
	"tunebox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TrackHandler handles HTTP requests for the track catalog.
type TrackHandler struct {
	service  *services.TrackService
	pageSize int
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(service *services.TrackService, pageSize int) *TrackHandler {
	return &TrackHandler{service: service, pageSize: pageSize}
}

// RegisterRoutes registers the track routes with the Fiber app.
func (h *TrackHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	tracks := router.Group("/tracks")
	tracks.Get("/", guards.Optional, h.HandleListTracks)
	tracks.Post("/", guards.Required, h.HandleCreateTrack)
	tracks.Get("/:id", guards.Optional, h.HandleGetTrack)
	tracks.Put("/:id", guards.Required, h.HandleUpdateTrack)
	tracks.Patch("/:id", guards.Required, h.HandleUpdateTrack)
	tracks.Delete("/:id", guards.Required, h.HandleDeleteTrack)
	tracks.Post("/:id/presigned_upload", guards.Required, h.HandlePresignedUpload)
	tracks.Post("/:id/stream", guards.Required, h.HandleStream)
	tracks.Post("/:id/toggle_favorite", guards.Required, h.HandleToggleFavorite)
}

// HandleListTracks lists tracks with filtering, search, ordering and pagination.
func (h *TrackHandler) HandleListTracks(c *fiber.Ctx) error {
	page, err := parsePage(c, h.pageSize)
	if err != nil {
		return err
	}

	filter := repositories.TrackFilter{
		Genre:    c.Query("genre"),
		Artist:   c.Query("artist"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	if raw := c.Query("is_published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return apperr.ValidationFields(map[string]string{"is_published": "must be true or false"})
		}
		filter.IsPublished = &published
	}

	tracks, total, err := h.service.List(c.UserContext(), middleware.Actor(c), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(newPageResponse(tracks, total, page))
}

// HandleGetTrack retrieves a single track by its ID.
func (h *TrackHandler) HandleGetTrack(c *fiber.Ctx) error {
	track, err := h.service.Get(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(track)
}

// TrackRequest represents the request body for creating or updating a track.
type TrackRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=200"`
	Artist       *string `json:"artist" validate:"omitempty,max=120"`
	Genre        *string `json:"genre" validate:"omitempty,max=80"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,url,max=500"`
	DurationSec  *int    `json:"duration_sec" validate:"omitempty,gte=0"`
	IsPublished  *bool   `json:"is_published"`
}

func (r TrackRequest) input() services.TrackInput {
	return services.TrackInput{
		Title:        r.Title,
		Artist:       r.Artist,
		Genre:        r.Genre,
		ThumbnailURL: r.ThumbnailURL,
		DurationSec:  r.DurationSec,
		IsPublished:  r.IsPublished,
	}
}

// requireFields reports the fields a full write must carry.
func (r TrackRequest) requireFields() error {
	fields := map[string]string{}
	if r.Title == nil {
		fields["title"] = "this field is required"
	}
	if r.Artist == nil {
		fields["artist"] = "this field is required"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

// HandleCreateTrack adds a track. Admin only.
func (h *TrackHandler) HandleCreateTrack(c *fiber.Ctx) error {
	var req TrackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := req.requireFields(); err != nil {
		return err
	}

	track, err := h.service.Create(c.UserContext(), middleware.Actor(c), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(track)
}

// HandleUpdateTrack updates a track. PUT requires title and artist; PATCH is partial.
func (h *TrackHandler) HandleUpdateTrack(c *fiber.Ctx) error {
	var req TrackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if c.Method() == fiber.MethodPut {
		if err := req.requireFields(); err != nil {
			return err
		}
	}

	track, err := h.service.Update(c.UserContext(), middleware.Actor(c), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(track)
}

// HandleDeleteTrack deletes a track. Admin only.
func (h *TrackHandler) HandleDeleteTrack(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PresignedUploadRequest represents the request body for an upload URL.
type PresignedUploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"max=100"`
}

// HandlePresignedUpload returns a signed PUT URL for the track's audio. Admin only.
func (h *TrackHandler) HandlePresignedUpload(c *fiber.Ctx) error {
	var req PresignedUploadRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	signed, err := h.service.PresignUpload(c.UserContext(), middleware.Actor(c), c.Params("id"), req.Filename, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"key":          signed.Key,
		"url":          signed.URL,
		"content_type": signed.ContentType,
	})
}

// HandleStream returns a signed GET URL for the track's audio and records the play.
func (h *TrackHandler) HandleStream(c *fiber.Ctx) error {
	signed, err := h.service.Stream(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"url":        signed.URL,
		"expires_in": int(signed.ExpiresIn.Seconds()),
	})
}

// HandleToggleFavorite flips the favorite state of the track for the current user.
func (h *TrackHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	favorited, err := h.service.ToggleFavorite(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"favorited": favorited})
}
