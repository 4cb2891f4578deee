package repositories

import (
	"context"
	"time"

	"tunebox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPlaylistRepository is a GORM implementation of PlaylistRepository.
type GORMPlaylistRepository struct {
	db *gorm.DB
}

// NewGORMPlaylistRepository creates a new instance of GORMPlaylistRepository.
func NewGORMPlaylistRepository(db *gorm.DB) *GORMPlaylistRepository {
	return &GORMPlaylistRepository{db: db}
}

// ListByOwner returns playlists owned by userID, most recently updated first.
func (r *GORMPlaylistRepository) ListByOwner(ctx context.Context, userID string, page Page) ([]models.Playlist, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Playlist{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "playlist", "count")
	}

	var playlists []models.Playlist
	if err := q.Order("updated_at DESC").Order("id ASC").Scopes(page.scope).Find(&playlists).Error; err != nil {
		return nil, 0, translate(err, "playlist", "list")
	}
	return playlists, total, nil
}

// GetByID retrieves a playlist regardless of owner. Visibility is decided by the caller.
func (r *GORMPlaylistRepository) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	var p models.Playlist
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "playlist", "get")
	}
	return &p, nil
}

// Create inserts a playlist. A duplicate name for the same owner is a conflict.
func (r *GORMPlaylistRepository) Create(ctx context.Context, p *models.Playlist) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit("User").Create(p).Error, "playlist", "create")
}

// Update writes the mutable playlist columns.
func (r *GORMPlaylistRepository) Update(ctx context.Context, p *models.Playlist) error {
	res := r.db.WithContext(ctx).Model(p).Select("name", "is_public", "updated_at").Updates(p)
	if res.Error != nil {
		return translate(res.Error, "playlist", "update")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "playlist", "update")
	}
	return nil
}

// Delete removes a playlist and, by cascade, its membership rows.
func (r *GORMPlaylistRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Playlist{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "playlist", "delete")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "playlist", "delete")
	}
	return nil
}

// UpsertTrack adds trackID to the playlist at order, or moves an existing member to
// order. It is a single statement, so concurrent adds of the same pair leave one row.
func (r *GORMPlaylistRepository) UpsertTrack(ctx context.Context, playlistID, trackID string, order int) (*models.PlaylistTrack, error) {
	db := r.db.WithContext(ctx)

	item := &models.PlaylistTrack{
		ID:         uuid.New().String(),
		PlaylistID: playlistID,
		TrackID:    trackID,
		Order:      order,
		AddedAt:    time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "track_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sort_order"}),
	}).Omit("Playlist", "Track").Create(item).Error
	if err != nil {
		return nil, translate(err, "playlist track", "add")
	}

	var stored models.PlaylistTrack
	err = db.Preload("Track").Where("playlist_id = ? AND track_id = ?", playlistID, trackID).First(&stored).Error
	if err != nil {
		return nil, translate(err, "playlist track", "get")
	}
	return &stored, nil
}

// RemoveTrack deletes the membership row if present and reports whether one existed.
func (r *GORMPlaylistRepository) RemoveTrack(ctx context.Context, playlistID, trackID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(&models.PlaylistTrack{})
	if res.Error != nil {
		return false, translate(res.Error, "playlist track", "remove")
	}
	return res.RowsAffected > 0, nil
}

// ListTracks returns membership rows ordered by order, then insertion time.
func (r *GORMPlaylistRepository) ListTracks(ctx context.Context, playlistID string) ([]models.PlaylistTrack, error) {
	var items []models.PlaylistTrack
	err := r.db.WithContext(ctx).
		Preload("Track").
		Where("playlist_id = ?", playlistID).
		Order("sort_order ASC").Order("added_at ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "playlist track", "list")
	}
	return items, nil
}
