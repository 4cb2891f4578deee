package repositories

import (
	"context"
	"strings"

	"tunebox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var trackOrderings = map[string]string{
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"title":       "title ASC",
	"-title":      "title DESC",
}

// DefaultTrackOrdering lists newest tracks first.
const DefaultTrackOrdering = "-created_at"

// ValidTrackOrdering reports whether o is an accepted ordering.
func ValidTrackOrdering(o string) bool {
	_, ok := trackOrderings[o]
	return ok
}

// GORMTrackRepository is a GORM implementation of TrackRepository.
type GORMTrackRepository struct {
	db *gorm.DB
}

// NewGORMTrackRepository creates a new instance of GORMTrackRepository.
func NewGORMTrackRepository(db *gorm.DB) *GORMTrackRepository {
	return &GORMTrackRepository{
		db: db,
	}
}

// List returns one page of tracks matching filter plus the total match count.
func (r *GORMTrackRepository) List(ctx context.Context, filter TrackFilter, page Page) ([]models.Track, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Track{})
	if filter.Genre != "" {
		q = q.Where("genre = ?", filter.Genre)
	}
	if filter.Artist != "" {
		q = q.Where("artist = ?", filter.Artist)
	}
	if filter.IsPublished != nil {
		q = q.Where("is_published = ?", *filter.IsPublished)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(artist) LIKE ? OR LOWER(genre) LIKE ?", pattern, pattern, pattern)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "track", "count")
	}

	order, ok := trackOrderings[filter.Ordering]
	if !ok {
		order = trackOrderings[DefaultTrackOrdering]
	}

	var tracks []models.Track
	if err := q.Order(order).Order("id ASC").Scopes(page.scope).Find(&tracks).Error; err != nil {
		return nil, 0, translate(err, "track", "list")
	}
	return tracks, total, nil
}

// GetByID retrieves a single track by its ID from the database.
func (r *GORMTrackRepository) GetByID(ctx context.Context, id string) (*models.Track, error) {
	var track models.Track
	if err := r.db.WithContext(ctx).First(&track, "id = ?", id).Error; err != nil {
		return nil, translate(err, "track", "get")
	}
	return &track, nil
}

// Create creates a new track in the database.
func (r *GORMTrackRepository) Create(ctx context.Context, track *models.Track) error {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(track).Error, "track", "create")
}

// Update updates an existing track in the database.
func (r *GORMTrackRepository) Update(ctx context.Context, track *models.Track) error {
	res := r.db.WithContext(ctx).Model(track).Select("*").Omit("id", "created_at").Updates(track)
	if res.Error != nil {
		return translate(res.Error, "track", "update")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "track", "update")
	}
	return nil
}

// Delete removes a track. Favorites, history and playlist memberships cascade.
func (r *GORMTrackRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Track{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "track", "delete")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "track", "delete")
	}
	return nil
}
