package services_test

import (
	"context"
	"time"

	"tunebox/internal/models"
	"tunebox/internal/repositories"
	"tunebox/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockTrackRepository is a mock implementation of repositories.TrackRepository
type MockTrackRepository struct {
	mock.Mock
}

func (m *MockTrackRepository) List(ctx context.Context, filter repositories.TrackFilter, page repositories.Page) ([]models.Track, int64, error) {
	args := m.Called(ctx, filter, page)
	tracks, _ := args.Get(0).([]models.Track)
	return tracks, args.Get(1).(int64), args.Error(2)
}

func (m *MockTrackRepository) GetByID(ctx context.Context, id string) (*models.Track, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Track), args.Error(1)
}

func (m *MockTrackRepository) Create(ctx context.Context, track *models.Track) error {
	return m.Called(ctx, track).Error(0)
}

func (m *MockTrackRepository) Update(ctx context.Context, track *models.Track) error {
	return m.Called(ctx, track).Error(0)
}

func (m *MockTrackRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockFavoriteRepository is a mock implementation of repositories.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID string, page repositories.Page) ([]models.Favorite, int64, error) {
	args := m.Called(ctx, userID, page)
	favs, _ := args.Get(0).([]models.Favorite)
	return favs, args.Get(1).(int64), args.Error(2)
}

func (m *MockFavoriteRepository) GetOrCreate(ctx context.Context, userID, trackID string) (*models.Favorite, bool, error) {
	args := m.Called(ctx, userID, trackID)
	fav, _ := args.Get(0).(*models.Favorite)
	return fav, args.Bool(1), args.Error(2)
}

func (m *MockFavoriteRepository) Toggle(ctx context.Context, userID, trackID string) (bool, error) {
	args := m.Called(ctx, userID, trackID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

// MockHistoryRepository is a mock implementation of repositories.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry *models.PlayHistory) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockHistoryRepository) ListByUser(ctx context.Context, userID string, page repositories.Page) ([]models.PlayHistory, int64, error) {
	args := m.Called(ctx, userID, page)
	entries, _ := args.Get(0).([]models.PlayHistory)
	return entries, args.Get(1).(int64), args.Error(2)
}

// MockPlaylistRepository is a mock implementation of repositories.PlaylistRepository
type MockPlaylistRepository struct {
	mock.Mock
}

func (m *MockPlaylistRepository) ListByOwner(ctx context.Context, userID string, page repositories.Page) ([]models.Playlist, int64, error) {
	args := m.Called(ctx, userID, page)
	ps, _ := args.Get(0).([]models.Playlist)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *MockPlaylistRepository) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) Create(ctx context.Context, p *models.Playlist) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlaylistRepository) Update(ctx context.Context, p *models.Playlist) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlaylistRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPlaylistRepository) UpsertTrack(ctx context.Context, playlistID, trackID string, order int) (*models.PlaylistTrack, error) {
	args := m.Called(ctx, playlistID, trackID, order)
	item, _ := args.Get(0).(*models.PlaylistTrack)
	return item, args.Error(1)
}

func (m *MockPlaylistRepository) RemoveTrack(ctx context.Context, playlistID, trackID string) (bool, error) {
	args := m.Called(ctx, playlistID, trackID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaylistRepository) ListTracks(ctx context.Context, playlistID string) ([]models.PlaylistTrack, error) {
	args := m.Called(ctx, playlistID)
	items, _ := args.Get(0).([]models.PlaylistTrack)
	return items, args.Error(1)
}

// MockIssuer is a mock implementation of storage.Issuer
type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) IssueUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (*storage.SignedURL, error) {
	args := m.Called(ctx, key, contentType, ttl)
	u, _ := args.Get(0).(*storage.SignedURL)
	return u, args.Error(1)
}

func (m *MockIssuer) IssueDownloadURL(ctx context.Context, key string, ttl time.Duration) (*storage.SignedURL, error) {
	args := m.Called(ctx, key, ttl)
	u, _ := args.Get(0).(*storage.SignedURL)
	return u, args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerification(ctx context.Context, user *models.User, link string) error {
	return m.Called(ctx, user, link).Error(0)
}
