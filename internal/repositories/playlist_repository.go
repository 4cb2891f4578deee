package repositories

import (
	"context"

	"tunebox/internal/models"
)

// PlaylistRepository defines the interface for playlist and membership data access.
type PlaylistRepository interface {
	ListByOwner(ctx context.Context, userID string, page Page) ([]models.Playlist, int64, error)
	GetByID(ctx context.Context, id string) (*models.Playlist, error)
	Create(ctx context.Context, playlist *models.Playlist) error
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id string) error

	UpsertTrack(ctx context.Context, playlistID, trackID string, order int) (*models.PlaylistTrack, error)
	RemoveTrack(ctx context.Context, playlistID, trackID string) (bool, error)
	ListTracks(ctx context.Context, playlistID string) ([]models.PlaylistTrack, error)
}
