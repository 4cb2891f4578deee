package services

import (
	"context"

	"tunebox/internal/apperr"
	"tunebox/internal/models"
	"tunebox/internal/policy"
	"tunebox/internal/repositories"
)

// FavoriteService manages a user's favorite tracks.
type FavoriteService struct {
	repo   repositories.FavoriteRepository
	tracks repositories.TrackRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(repo repositories.FavoriteRepository, tracks repositories.TrackRepository) *FavoriteService {
	return &FavoriteService{repo: repo, tracks: tracks}
}

// List returns the actor's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, actor policy.Actor, page repositories.Page) ([]models.Favorite, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, apperr.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, actor.ID, page)
}

// Create favorites a track. An existing favorite is returned as is; created reports
// whether a new row was written.
func (s *FavoriteService) Create(ctx context.Context, actor policy.Actor, trackID string) (fav *models.Favorite, created bool, err error) {
	if !actor.Authenticated() {
		return nil, false, apperr.ErrUnauthorized
	}
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, false, err
	}
	if err := policy.Track(actor, track, policy.Favorite).Err("track"); err != nil {
		return nil, false, err
	}
	fav, created, err = s.repo.GetOrCreate(ctx, actor.ID, track.ID)
	if err != nil {
		return nil, false, err
	}
	if fav.Track == nil {
		fav.Track = track
	}
	return fav, created, nil
}

// Delete removes one of the actor's favorites. Favorites of other users are not found.
func (s *FavoriteService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthorized
	}
	return s.repo.DeleteForUser(ctx, id, actor.ID)
}
