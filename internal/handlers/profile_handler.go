package handlers

import (
	"tunebox/internal/middleware"
	"tunebox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the current user's profile.
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterRoutes registers the profile routes.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Get("/me", guards.Required, h.HandleGetProfile)
	router.Put("/me", guards.Required, h.HandleUpdateProfile)
	router.Patch("/me", guards.Required, h.HandleUpdateProfile)
}

// HandleGetProfile returns the current user.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.profiles.Get(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// ProfileRequest represents the request body for a profile update.
type ProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=150"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Nickname *string `json:"nickname" validate:"omitempty,max=30"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=255"`
}

// HandleUpdateProfile updates the current user's profile fields.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.profiles.Update(c.UserContext(), middleware.CurrentUser(c), services.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(user)
}
