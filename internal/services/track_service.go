package services

import (
	"context"
	"strings"

	"tunebox/internal/apperr"
	"tunebox/internal/models"
	"tunebox/internal/policy"
	"tunebox/internal/repositories"
	"tunebox/internal/storage"

	"github.com/charmbracelet/log"
)

// TrackInput holds track fields. On create Title and Artist are required and a nil
// IsPublished means published; on update nil fields are left unchanged.
type TrackInput struct {
	Title        *string
	Artist       *string
	Genre        *string
	ThumbnailURL *string
	DurationSec  *int
	IsPublished  *bool
}

// TrackService handles business logic related to tracks.
type TrackService struct {
	repo      repositories.TrackRepository
	favorites repositories.FavoriteRepository
	history   repositories.HistoryRepository
	issuer    storage.Issuer
	logger    *log.Logger
}

// NewTrackService creates a new TrackService.
func NewTrackService(
	repo repositories.TrackRepository,
	favorites repositories.FavoriteRepository,
	history repositories.HistoryRepository,
	issuer storage.Issuer,
	logger *log.Logger,
) *TrackService {
	return &TrackService{
		repo:      repo,
		favorites: favorites,
		history:   history,
		issuer:    issuer,
		logger:    logger,
	}
}

// List returns one page of tracks. Non-staff actors only ever see published tracks.
func (s *TrackService) List(ctx context.Context, actor policy.Actor, filter repositories.TrackFilter, page repositories.Page) ([]models.Track, int64, error) {
	if filter.Ordering != "" && !repositories.ValidTrackOrdering(filter.Ordering) {
		return nil, 0, apperr.ValidationFields(map[string]string{
			"ordering": "must be one of created_at, -created_at, title, -title",
		})
	}
	if !actor.IsStaff {
		if filter.IsPublished != nil && !*filter.IsPublished {
			return []models.Track{}, 0, nil
		}
		published := true
		filter.IsPublished = &published
	}
	return s.repo.List(ctx, filter, page)
}

// Get returns a track visible to actor.
func (s *TrackService) Get(ctx context.Context, actor policy.Actor, id string) (*models.Track, error) {
	return s.load(ctx, actor, id, policy.Read)
}

// Create adds a track to the catalog.
func (s *TrackService) Create(ctx context.Context, actor policy.Actor, in TrackInput) (*models.Track, error) {
	if err := policy.Track(actor, nil, policy.Create).Err("track"); err != nil {
		return nil, err
	}

	track := &models.Track{IsPublished: true}
	applyTrackInput(track, in)
	if err := validateTrack(track); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// Update applies the non-nil fields of in to the track.
func (s *TrackService) Update(ctx context.Context, actor policy.Actor, id string, in TrackInput) (*models.Track, error) {
	track, err := s.load(ctx, actor, id, policy.Update)
	if err != nil {
		return nil, err
	}
	applyTrackInput(track, in)
	if err := validateTrack(track); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// Delete removes a track together with its favorites, history and playlist entries.
func (s *TrackService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if _, err := s.load(ctx, actor, id, policy.Delete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// PresignUpload mints a fresh object key for the track's audio, stores it on the track
// and returns a signed PUT URL for it.
func (s *TrackService) PresignUpload(ctx context.Context, actor policy.Actor, id, filename, contentType string) (*storage.SignedURL, error) {
	track, err := s.load(ctx, actor, id, policy.Upload)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(filename) == "" {
		return nil, apperr.ValidationFields(map[string]string{"filename": "this field is required"})
	}

	signed, err := s.issuer.IssueUploadURL(ctx, storage.NewObjectKey("", filename), contentType, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	track.AudioKey = signed.Key
	if err := s.repo.Update(ctx, track); err != nil {
		return nil, err
	}
	s.logger.Info("issued upload url", "track_id", track.ID, "key", signed.Key)
	return signed, nil
}

// Stream issues a signed download URL for the track's audio and records one play.
func (s *TrackService) Stream(ctx context.Context, actor policy.Actor, id string) (*storage.SignedURL, error) {
	track, err := s.load(ctx, actor, id, policy.Stream)
	if err != nil {
		return nil, err
	}
	if track.AudioKey == "" {
		return nil, apperr.Validation("track has no audio")
	}

	signed, err := s.issuer.IssueDownloadURL(ctx, track.AudioKey, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.history.Append(ctx, &models.PlayHistory{UserID: actor.ID, TrackID: track.ID}); err != nil {
		return nil, err
	}
	return signed, nil
}

// ToggleFavorite flips whether actor has favorited the track and returns the new state.
func (s *TrackService) ToggleFavorite(ctx context.Context, actor policy.Actor, id string) (bool, error) {
	track, err := s.load(ctx, actor, id, policy.Favorite)
	if err != nil {
		return false, err
	}
	return s.favorites.Toggle(ctx, actor.ID, track.ID)
}

// load fetches a track and applies the policy for action. Authentication is checked
// before the lookup so anonymous callers never learn whether an id exists.
func (s *TrackService) load(ctx context.Context, actor policy.Actor, id string, action policy.Action) (*models.Track, error) {
	if action != policy.Read && !actor.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	track, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Track(actor, track, action).Err("track"); err != nil {
		return nil, err
	}
	return track, nil
}

func applyTrackInput(t *models.Track, in TrackInput) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Artist != nil {
		t.Artist = strings.TrimSpace(*in.Artist)
	}
	if in.Genre != nil {
		t.Genre = strings.TrimSpace(*in.Genre)
	}
	if in.ThumbnailURL != nil {
		t.ThumbnailURL = *in.ThumbnailURL
	}
	if in.DurationSec != nil {
		t.DurationSec = *in.DurationSec
	}
	if in.IsPublished != nil {
		t.IsPublished = *in.IsPublished
	}
}

func validateTrack(t *models.Track) error {
	fields := map[string]string{}
	if t.Title == "" {
		fields["title"] = "this field may not be blank"
	}
	if t.Artist == "" {
		fields["artist"] = "this field may not be blank"
	}
	if t.DurationSec < 0 {
		fields["duration_sec"] = "must be zero or greater"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}
