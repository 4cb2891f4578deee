package repositories

import (
	"context"

	"tunebox/internal/models"
)

// HistoryRepository defines the interface for play history data access.
type HistoryRepository interface {
	Append(ctx context.Context, entry *models.PlayHistory) error
	ListByUser(ctx context.Context, userID string, page Page) ([]models.PlayHistory, int64, error)
}
