package repositories

import (
	"context"
	"time"

	"tunebox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMHistoryRepository is a GORM implementation of HistoryRepository.
type GORMHistoryRepository struct {
	db *gorm.DB
}

// NewGORMHistoryRepository creates a new instance of GORMHistoryRepository.
func NewGORMHistoryRepository(db *gorm.DB) *GORMHistoryRepository {
	return &GORMHistoryRepository{db: db}
}

// Append inserts a history row. Rows are never updated or deduplicated.
func (r *GORMHistoryRepository) Append(ctx context.Context, entry *models.PlayHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.PlayedAt.IsZero() {
		entry.PlayedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).Omit("User", "Track").Create(entry).Error, "play history", "append")
}

// ListByUser returns the user's plays, most recent first, with their tracks.
func (r *GORMHistoryRepository) ListByUser(ctx context.Context, userID string, page Page) ([]models.PlayHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.PlayHistory{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "play history", "count")
	}

	var entries []models.PlayHistory
	err := q.Preload("Track").Order("played_at DESC").Order("id ASC").Scopes(page.scope).Find(&entries).Error
	if err != nil {
		return nil, 0, translate(err, "play history", "list")
	}
	return entries, total, nil
}
