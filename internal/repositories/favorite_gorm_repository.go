package repositories

import (
	"context"
	"errors"
	"time"

	"tunebox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{db: db}
}

// ListByUser returns the user's favorites, newest first, with their tracks.
func (r *GORMFavoriteRepository) ListByUser(ctx context.Context, userID string, page Page) ([]models.Favorite, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "favorite", "count")
	}

	var favs []models.Favorite
	err := q.Preload("Track").Order("created_at DESC").Order("id ASC").Scopes(page.scope).Find(&favs).Error
	if err != nil {
		return nil, 0, translate(err, "favorite", "list")
	}
	return favs, total, nil
}

// GetOrCreate returns the (user, track) favorite, creating it when absent. The boolean
// reports whether a row was created. A concurrent insert of the same pair loses on the
// unique index and falls back to fetching the winner.
func (r *GORMFavoriteRepository) GetOrCreate(ctx context.Context, userID, trackID string) (*models.Favorite, bool, error) {
	db := r.db.WithContext(ctx)

	fav, err := findFavorite(db, userID, trackID)
	if err == nil {
		return fav, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, translate(err, "favorite", "get")
	}

	fav = newFavorite(userID, trackID)
	if err := db.Create(fav).Error; err != nil {
		if !isDuplicate(err) {
			return nil, false, translate(err, "favorite", "create")
		}
		existing, ferr := findFavorite(db, userID, trackID)
		if ferr != nil {
			return nil, false, translate(ferr, "favorite", "get")
		}
		return existing, false, nil
	}
	return fav, true, nil
}

// Toggle flips the presence of the (user, track) pair and returns the resulting state.
func (r *GORMFavoriteRepository) Toggle(ctx context.Context, userID, trackID string) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND track_id = ?", userID, trackID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = false
			return nil
		}
		favorited = true
		// Savepoint so a lost insert race does not abort the outer transaction.
		err := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(newFavorite(userID, trackID)).Error
		})
		if err != nil && !isDuplicate(err) {
			return err
		}
		return nil
	})
	if err != nil {
		return false, translate(err, "favorite", "toggle")
	}
	return favorited, nil
}

// DeleteForUser removes a favorite owned by userID. Rows of other users are not found.
func (r *GORMFavoriteRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Favorite{})
	if res.Error != nil {
		return translate(res.Error, "favorite", "delete")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "favorite", "delete")
	}
	return nil
}

func findFavorite(db *gorm.DB, userID, trackID string) (*models.Favorite, error) {
	var fav models.Favorite
	err := db.Preload("Track").Where("user_id = ? AND track_id = ?", userID, trackID).First(&fav).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func newFavorite(userID, trackID string) *models.Favorite {
	return &models.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		TrackID:   trackID,
		CreatedAt: time.Now(),
	}
}
