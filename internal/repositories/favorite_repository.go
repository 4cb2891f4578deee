package repositories

import (
	"context"

	"tunebox/internal/models"
)

// FavoriteRepository defines the interface for favorite data access. Every query is
// scoped to one user.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID string, page Page) ([]models.Favorite, int64, error)
	GetOrCreate(ctx context.Context, userID, trackID string) (*models.Favorite, bool, error)
	Toggle(ctx context.Context, userID, trackID string) (bool, error)
	DeleteForUser(ctx context.Context, id, userID string) error
}
