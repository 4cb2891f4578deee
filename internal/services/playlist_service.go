package services

import (
	"context"
	"strings"

	"tunebox/internal/apperr"
	"tunebox/internal/models"
	"tunebox/internal/policy"
	"tunebox/internal/repositories"
)

// PlaylistInput holds playlist fields. Nil fields are left unchanged on update.
type PlaylistInput struct {
	Name     *string
	IsPublic *bool
}

// PlaylistService handles business logic related to playlists.
type PlaylistService struct {
	repo   repositories.PlaylistRepository
	tracks repositories.TrackRepository
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(repo repositories.PlaylistRepository, tracks repositories.TrackRepository) *PlaylistService {
	return &PlaylistService{repo: repo, tracks: tracks}
}

// List returns the actor's own playlists.
func (s *PlaylistService) List(ctx context.Context, actor policy.Actor, page repositories.Page) ([]models.Playlist, int64, error) {
	if err := policy.Playlist(actor, nil, policy.Read).Err("playlist"); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByOwner(ctx, actor.ID, page)
}

// Create adds a playlist owned by the actor. Names are unique per owner.
func (s *PlaylistService) Create(ctx context.Context, actor policy.Actor, in PlaylistInput) (*models.Playlist, error) {
	if err := policy.Playlist(actor, nil, policy.Create).Err("playlist"); err != nil {
		return nil, err
	}

	p := &models.Playlist{UserID: actor.ID}
	if err := applyPlaylistInput(p, in); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperr.ValidationFields(map[string]string{"name": "this field is required"})
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a visible playlist with its ordered tracks.
func (s *PlaylistService) Get(ctx context.Context, actor policy.Actor, id string) (*models.PlaylistDetail, error) {
	p, err := s.load(ctx, actor, id, policy.Read)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p)
}

// Update renames the playlist or changes its visibility. Only the owner may do so.
func (s *PlaylistService) Update(ctx context.Context, actor policy.Actor, id string, in PlaylistInput) (*models.PlaylistDetail, error) {
	p, err := s.load(ctx, actor, id, policy.Update)
	if err != nil {
		return nil, err
	}
	if err := applyPlaylistInput(p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.detail(ctx, p)
}

// Delete removes the playlist and its membership rows. Only the owner may do so.
func (s *PlaylistService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if _, err := s.load(ctx, actor, id, policy.Delete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddTrack puts trackID into the playlist at order. Adding a member again only moves it.
func (s *PlaylistService) AddTrack(ctx context.Context, actor policy.Actor, id, trackID string, order int) (*models.PlaylistTrack, error) {
	if order < 0 {
		return nil, apperr.ValidationFields(map[string]string{"order": "must be zero or greater"})
	}
	p, err := s.load(ctx, actor, id, policy.AddTrack)
	if err != nil {
		return nil, err
	}
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return s.repo.UpsertTrack(ctx, p.ID, track.ID, order)
}

// RemoveTrack drops trackID from the playlist. Removing a non-member is a no-op; the
// result reports whether a row was deleted.
func (s *PlaylistService) RemoveTrack(ctx context.Context, actor policy.Actor, id, trackID string) (bool, error) {
	p, err := s.load(ctx, actor, id, policy.Remove)
	if err != nil {
		return false, err
	}
	return s.repo.RemoveTrack(ctx, p.ID, trackID)
}

func (s *PlaylistService) load(ctx context.Context, actor policy.Actor, id string, action policy.Action) (*models.Playlist, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Playlist(actor, p, action).Err("playlist"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlaylistService) detail(ctx context.Context, p *models.Playlist) (*models.PlaylistDetail, error) {
	items, err := s.repo.ListTracks(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.PlaylistTrack{}
	}
	return &models.PlaylistDetail{Playlist: *p, Tracks: items}, nil
}

func applyPlaylistInput(p *models.Playlist, in PlaylistInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperr.ValidationFields(map[string]string{"name": "this field may not be blank"})
		}
		p.Name = name
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	return nil
}
