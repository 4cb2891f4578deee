package repositories

import (
	"context"

	"tunebox/internal/models"
)

// TrackFilter narrows a track listing. Empty fields do not filter.
type TrackFilter struct {
	Genre       string
	Artist      string
	IsPublished *bool
	// Search matches title, artist or genre as a case-insensitive substring.
	Search string
	// Ordering is one of created_at, -created_at, title, -title.
	Ordering string
}

// TrackRepository defines the interface for track data access.
type TrackRepository interface {
	List(ctx context.Context, filter TrackFilter, page Page) ([]models.Track, int64, error)
	GetByID(ctx context.Context, id string) (*models.Track, error)
	Create(ctx context.Context, track *models.Track) error
	Update(ctx context.Context, track *models.Track) error
	Delete(ctx context.Context, id string) error
}
