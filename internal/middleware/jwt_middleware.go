package middleware

import (
	"context"
	"strings"

	"tunebox/internal/apperr"
	"tunebox/internal/models"
	"tunebox/internal/policy"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// TokenAuthenticator resolves the user behind an access token.
type TokenAuthenticator interface {
	UserFromAccessToken(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired is a Fiber middleware that rejects requests without a valid bearer token
// and stores the authenticated user in the context.
func AuthRequired(authn TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, authn)
		if err != nil {
			return err
		}
		if user == nil {
			return &apperr.Error{Code: apperr.CodeUnauthorized, Message: "Authorization header is required"}
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// OptionalAuth authenticates the request when a bearer token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func OptionalAuth(authn TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, authn)
		if err != nil {
			return err
		}
		if user != nil {
			c.Locals(userKey, user)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// Actor returns the policy actor of the request.
func Actor(c *fiber.Ctx) policy.Actor {
	return policy.ActorFor(CurrentUser(c))
}

func authenticate(c *fiber.Ctx, authn TokenAuthenticator) (*models.User, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, nil
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, &apperr.Error{Code: apperr.CodeUnauthorized, Message: "Authorization header format must be 'Bearer <token>'"}
	}

	return authn.UserFromAccessToken(c.UserContext(), strings.TrimSpace(parts[1]))
}
