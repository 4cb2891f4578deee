package handlers

import (
	"tunebox/internal/middleware"
	"tunebox/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Guards are the authentication middlewares handlers attach to their routes.
type Guards struct {
	// Required rejects anonymous requests.
	Required fiber.Handler
	// Optional authenticates when a token is present.
	Optional fiber.Handler
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/token", h.HandleLogin)
	authRoutes.Post("/token/refresh", h.HandleRefresh)
	authRoutes.Get("/verify", h.HandleVerify)
	authRoutes.Post("/verify/send", guards.Optional, h.HandleSendVerification)
	authRoutes.Post("/password/change", guards.Required, h.HandleChangePassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	Nickname string `json:"nickname" validate:"max=30"`
}

// HandleRegister handles new user registration. The account stays inactive until the
// emailed verification link is followed.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	}, services.RegisterOptions{})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues an access and a refresh token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

// RefreshRequest represents the request body for token refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// HandleRefresh exchanges a refresh token for a new access token.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	access, err := h.authService.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"access": access})
}

// HandleVerify redeems an email verification token from the query string.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	req := struct {
		Token string `json:"token" validate:"required"`
	}{Token: c.Query("token")}
	if err := validateStruct(&req); err != nil {
		return err
	}

	already, err := h.authService.VerifyEmail(c.UserContext(), req.Token)
	if err != nil {
		return err
	}
	if already {
		return c.JSON(message{Detail: "already verified"})
	}
	return c.JSON(message{Detail: "verified"})
}

// HandleSendVerification mails a fresh verification link. A bearer token identifies the
// user when present; otherwise the body must carry the account's credentials, which is
// the only way in for an account that is not yet active.
func (h *AuthHandler) HandleSendVerification(c *fiber.Ctx) error {
	if user := middleware.CurrentUser(c); user != nil {
		if err := h.authService.SendVerification(c.UserContext(), user); err != nil {
			return err
		}
		return c.JSON(message{Detail: "verification email sent"})
	}

	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResendVerification(c.UserContext(), req.Username, req.Password); err != nil {
		return err
	}
	return c.JSON(message{Detail: "verification email sent"})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// HandleChangePassword replaces the current user's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := h.authService.ChangePassword(c.UserContext(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(message{Detail: "password changed"})
}
