package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"tunebox/internal/auth"
	"tunebox/internal/config"
	"tunebox/internal/database"
	"tunebox/internal/logging"
	"tunebox/internal/models"
	"tunebox/internal/server"
	"tunebox/internal/services"
	"tunebox/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "Blue-Violet-42"

// fakeIssuer signs nothing; it returns deterministic URLs for the requested keys.
type fakeIssuer struct{}

func (fakeIssuer) IssueUploadURL(_ context.Context, key, contentType string, ttl time.Duration) (*storage.SignedURL, error) {
	full := storage.ObjectKey("audio", key)
	if contentType == "" {
		contentType = storage.ContentTypeFor(full)
	}
	return &storage.SignedURL{URL: "https://bucket.test/" + full + "?sig=put", Method: http.MethodPut, Key: full, ContentType: contentType, ExpiresIn: 10 * time.Minute}, nil
}

func (fakeIssuer) IssueDownloadURL(_ context.Context, key string, ttl time.Duration) (*storage.SignedURL, error) {
	full := storage.ObjectKey("audio", key)
	return &storage.SignedURL{URL: "https://bucket.test/" + full + "?sig=get", Method: http.MethodGet, Key: full, ExpiresIn: 10 * time.Minute}, nil
}

// mailbox records verification links by email address.
type mailbox struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *mailbox) SendVerification(_ context.Context, user *models.User, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[user.Email] = link
	return nil
}

func (m *mailbox) token(t *testing.T, email string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[email]
	require.True(t, ok, "no verification mail for %s", email)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/verify", u.Path)
	return u.Query().Get("token")
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *auth.TokenService
	mail   *mailbox
	deps   server.Deps
}

// setupApp builds the full application over a fresh in-memory SQLite database.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("test_jwt_secret_0123456789", auth.Lifetimes{
		Access:       time.Hour,
		Refresh:      14 * 24 * time.Hour,
		Verification: 24 * time.Hour,
	})
	require.NoError(t, err)

	mail := &mailbox{links: map[string]string{}}
	deps := server.Deps{
		Config:   &config.Config{PageSize: 20, SiteURL: "http://tunebox.test"},
		DB:       db,
		Tokens:   tokens,
		Issuer:   fakeIssuer{},
		Notifier: mail,
		Logger:   logging.Discard(),
		HashCost: bcrypt.MinCost,
	}
	return &testEnv{app: server.New(deps), db: db, tokens: tokens, mail: mail, deps: deps}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// signUp registers, verifies and logs in a listener, returning an access token.
func (e *testEnv) signUp(t *testing.T, username string) string {
	t.Helper()
	email := username + "@example.com"
	status, _ := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = e.do(t, http.MethodGet, "/api/auth/verify?token="+e.mail.token(t, email), "", nil)
	require.Equal(t, http.StatusOK, status)
	return e.login(t, username)
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/token", "", map[string]string{
		"username": username, "password": testPassword,
	})
	require.Equal(t, http.StatusOK, status, body)
	return body["access"].(string)
}

// admin creates an active staff account the way the admin command does.
func (e *testEnv) admin(t *testing.T) string {
	t.Helper()
	_, err := server.NewAuthService(e.deps).Register(context.Background(), services.RegisterInput{
		Username: "root", Email: "root@example.com", Password: testPassword,
	}, services.RegisterOptions{Activate: true, Staff: true})
	require.NoError(t, err)
	return e.login(t, "root")
}

func (e *testEnv) createTrack(t *testing.T, adminToken string, fields map[string]any) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/tracks", adminToken, fields)
	require.Equal(t, http.StatusCreated, status, body)
	return body["id"].(string)
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func TestHealth(t *testing.T) {
	env := setupApp(t)
	status, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthRegisterVerifyAndLogin(t *testing.T) {
	env := setupApp(t)
	register := map[string]string{"username": "ann", "email": "ann@example.com", "password": testPassword}

	status, body := env.do(t, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ann", body["username"])
	assert.Equal(t, false, body["is_active"])
	assert.NotContains(t, body, "password")

	// Test duplicate registration (username)
	status, body = env.do(t, http.MethodPost, "/api/auth/register", "", register)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", body["code"])

	// Inactive accounts cannot log in
	status, body = env.do(t, http.MethodPost, "/api/auth/token", "", map[string]string{"username": "ann", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", body["code"])

	token := env.mail.token(t, "ann@example.com")
	status, body = env.do(t, http.MethodGet, "/api/auth/verify?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "verified", body["detail"])

	status, body = env.do(t, http.MethodGet, "/api/auth/verify?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "already verified", body["detail"])

	status, body = env.do(t, http.MethodPost, "/api/auth/token", "", map[string]string{"username": "ann", "password": testPassword})
	require.Equal(t, http.StatusOK, status)
	access, refresh := body["access"].(string), body["refresh"].(string)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	status, body = env.do(t, http.MethodPost, "/api/auth/token/refresh", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access"])

	status, body = env.do(t, http.MethodPost, "/api/auth/token/refresh", "", map[string]string{"refresh": access})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_token", body["code"])

	status, body = env.do(t, http.MethodGet, "/api/me", access, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ann@example.com", body["email"])

	status, body = env.do(t, http.MethodPost, "/api/auth/verify/send", access, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])
}

func TestAuthResendVerificationForInactiveAccount(t *testing.T) {
	env := setupApp(t)
	status, _ := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ann", "email": "ann@example.com", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, status)
	env.mail.token(t, "ann@example.com")
	env.mail.mu.Lock()
	delete(env.mail.links, "ann@example.com")
	env.mail.mu.Unlock()

	// No token and no credentials
	status, body := env.do(t, http.MethodPost, "/api/auth/verify/send", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])

	status, body = env.do(t, http.MethodPost, "/api/auth/verify/send", "", map[string]string{
		"username": "ann", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", body["code"])

	status, body = env.do(t, http.MethodPost, "/api/auth/verify/send", "", map[string]string{
		"username": "ann", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "verification email sent", body["detail"])

	fresh := env.mail.token(t, "ann@example.com")
	assert.NotEmpty(t, fresh)

	status, body = env.do(t, http.MethodGet, "/api/auth/verify?token="+fresh, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "verified", body["detail"])

	// Active accounts are told there is nothing to verify
	status, body = env.do(t, http.MethodPost, "/api/auth/verify/send", "", map[string]string{
		"username": "ann", "password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])
}

func TestAuthRegisterValidation(t *testing.T) {
	env := setupApp(t)

	status, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ann", "email": "not-an-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")

	status, body = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ann", "email": "ann@example.com", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs = body["errors"].(map[string]any)
	assert.Contains(t, errs["password"], "too short")
	assert.Contains(t, errs["password"], "entirely numeric")
}

func TestAuthVerifyErrors(t *testing.T) {
	env := setupApp(t)
	status, _ := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ann", "email": "ann@example.com", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, status)
	var ann models.User
	require.NoError(t, env.db.First(&ann, "username = ?", "ann").Error)

	stale, _, err := env.tokens.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) }).Issue(auth.EmailVerification, ann.ID)
	require.NoError(t, err)
	status, body := env.do(t, http.MethodGet, "/api/auth/verify?token="+stale, "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "token_expired", body["code"])

	status, body = env.do(t, http.MethodGet, "/api/auth/verify?token=garbage", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_token", body["code"])

	orphan, _, err := env.tokens.Issue(auth.EmailVerification, "no-such-user")
	require.NoError(t, err)
	status, body = env.do(t, http.MethodGet, "/api/auth/verify?token="+orphan, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])

	status, _ = env.do(t, http.MethodGet, "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestChangePassword(t *testing.T) {
	env := setupApp(t)
	token := env.signUp(t, "ann")

	status, body := env.do(t, http.MethodPost, "/api/auth/password/change", token, map[string]string{
		"current_password": "wrong", "new_password": "Another-Tune-77",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", body["code"])

	status, _ = env.do(t, http.MethodPost, "/api/auth/password/change", token, map[string]string{
		"current_password": testPassword, "new_password": "password",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/password/change", token, map[string]string{
		"current_password": testPassword, "new_password": "Another-Tune-77",
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/token", "", map[string]string{"username": "ann", "password": "Another-Tune-77"})
	assert.Equal(t, http.StatusOK, status)
}

func TestProfileUpdate(t *testing.T) {
	env := setupApp(t)
	ann := env.signUp(t, "ann")
	env.signUp(t, "bob")

	status, body := env.do(t, http.MethodPatch, "/api/me", ann, map[string]string{"nickname": "Annie"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Annie", body["nickname"])

	status, _ = env.do(t, http.MethodPut, "/api/me", ann, map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusConflict, status)

	for _, blank := range []map[string]string{{"username": ""}, {"username": "   "}, {"email": ""}} {
		status, body = env.do(t, http.MethodPut, "/api/me", ann, blank)
		assert.Equal(t, http.StatusBadRequest, status, blank)
		assert.Equal(t, "validation_error", body["code"])
	}
	status, body = env.do(t, http.MethodGet, "/api/me", ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ann", body["username"])
	assert.Equal(t, "ann@example.com", body["email"])

	status, _ = env.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTrackCatalog(t *testing.T) {
	env := setupApp(t)
	root := env.admin(t)
	ann := env.signUp(t, "ann")

	status, _ := env.do(t, http.MethodPost, "/api/tracks", "", map[string]any{"title": "x", "artist": "y"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodPost, "/api/tracks", ann, map[string]any{"title": "x", "artist": "y"})
	assert.Equal(t, http.StatusForbidden, status)

	env.createTrack(t, root, map[string]any{"title": "Blue Monday", "artist": "New Order", "genre": "synth"})
	env.createTrack(t, root, map[string]any{"title": "Atmosphere", "artist": "Joy Division", "genre": "post-punk"})
	draft := env.createTrack(t, root, map[string]any{"title": "Demo", "artist": "New Order", "is_published": false})

	status, body := env.do(t, http.MethodGet, "/api/tracks?ordering=title", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(20), body["page_size"])
	results := body["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "Atmosphere", first["title"])
	assert.NotContains(t, first, "audio_s3_key")

	status, body = env.do(t, http.MethodGet, "/api/tracks?search=order", ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = env.do(t, http.MethodGet, "/api/tracks?artist=New%20Order", root, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	status, body = env.do(t, http.MethodGet, "/api/tracks?page=2&page_size=1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["results"].([]any), 1)

	status, _ = env.do(t, http.MethodGet, "/api/tracks?ordering=duration", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet, "/api/tracks/"+draft, ann, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.do(t, http.MethodGet, "/api/tracks/"+draft, root, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodPatch, "/api/tracks/"+draft, root, map[string]any{"is_published": true})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_published"])
	assert.Equal(t, "Demo", body["title"])

	status, _ = env.do(t, http.MethodPut, "/api/tracks/"+draft, root, map[string]any{"title": "Demo"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodDelete, "/api/tracks/"+draft, ann, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodDelete, "/api/tracks/"+draft, root, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(t, http.MethodGet, "/api/tracks/"+draft, root, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPresignedUploadAndStream(t *testing.T) {
	env := setupApp(t)
	root := env.admin(t)
	ann := env.signUp(t, "ann")
	track := env.createTrack(t, root, map[string]any{"title": "Song", "artist": "Band"})

	status, _ := env.do(t, http.MethodPost, "/api/tracks/"+track+"/presigned_upload", ann, map[string]string{"filename": "song.mp3"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodPost, "/api/tracks/"+track+"/presigned_upload", root, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := env.do(t, http.MethodPost, "/api/tracks/"+track+"/presigned_upload", root, map[string]string{"filename": "Song.MP3"})
	require.Equal(t, http.StatusOK, status)
	key := body["key"].(string)
	assert.True(t, strings.HasPrefix(key, "audio/"))
	assert.True(t, strings.HasSuffix(key, ".mp3"))
	assert.Equal(t, "audio/mpeg", body["content_type"])
	assert.Contains(t, body["url"], key)

	status, _ = env.do(t, http.MethodPost, "/api/tracks/"+track+"/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Zero(t, env.count(t, &models.PlayHistory{}))

	status, body = env.do(t, http.MethodPost, "/api/tracks/"+track+"/stream", ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["url"], key)
	assert.Equal(t, float64(600), body["expires_in"])
	assert.Equal(t, int64(1), env.count(t, &models.PlayHistory{}))

	status, body = env.do(t, http.MethodGet, "/api/history", ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
	entry := body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, track, entry["track"].(map[string]any)["id"])
}

func TestToggleFavorite(t *testing.T) {
	env := setupApp(t)
	root := env.admin(t)
	ann := env.signUp(t, "ann")
	track := env.createTrack(t, root, map[string]any{"title": "Song", "artist": "Band"})
	path := "/api/tracks/" + track + "/toggle_favorite"

	status, body := env.do(t, http.MethodPost, path, ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["favorited"])

	_, body = env.do(t, http.MethodPost, path, ann, nil)
	assert.Equal(t, false, body["favorited"])
	assert.Zero(t, env.count(t, &models.Favorite{}))

	_, body = env.do(t, http.MethodPost, path, ann, nil)
	assert.Equal(t, true, body["favorited"])
	assert.Equal(t, int64(1), env.count(t, &models.Favorite{}))

	status, body = env.do(t, http.MethodGet, "/api/favorites", ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
}

func TestFavoritesCreateAndDelete(t *testing.T) {
	env := setupApp(t)
	root := env.admin(t)
	ann := env.signUp(t, "ann")
	bob := env.signUp(t, "bob")
	track := env.createTrack(t, root, map[string]any{"title": "Song", "artist": "Band"})

	status, body := env.do(t, http.MethodPost, "/api/favorites", ann, map[string]string{"track_id": track})
	require.Equal(t, http.StatusCreated, status)
	favID := body["id"].(string)
	assert.Equal(t, track, body["track"].(map[string]any)["id"])

	status, body = env.do(t, http.MethodPost, "/api/favorites", ann, map[string]string{"track_id": track})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, favID, body["id"])

	status, _ = env.do(t, http.MethodPost, "/api/favorites", ann, map[string]string{"track_id": "missing"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodGet, "/api/favorites", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])
	assert.Empty(t, body["results"])

	status, _ = env.do(t, http.MethodDelete, "/api/favorites/"+favID, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.do(t, http.MethodDelete, "/api/favorites/"+favID, ann, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, env.count(t, &models.Favorite{}))
}

func TestPlaylists(t *testing.T) {
	env := setupApp(t)
	root := env.admin(t)
	ann := env.signUp(t, "ann")
	bob := env.signUp(t, "bob")
	t1 := env.createTrack(t, root, map[string]any{"title": "One", "artist": "Band"})
	t2 := env.createTrack(t, root, map[string]any{"title": "Two", "artist": "Band"})

	status, body := env.do(t, http.MethodPost, "/api/playlists", ann, map[string]any{"name": "Road trip"})
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)
	assert.Equal(t, false, body["is_public"])
	path := "/api/playlists/" + id

	status, _ = env.do(t, http.MethodPost, "/api/playlists", ann, map[string]any{"name": "Road trip"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.do(t, http.MethodPost, "/api/playlists", bob, map[string]any{"name": "Road trip"})
	assert.Equal(t, http.StatusCreated, status)

	// Private playlists are invisible to others, and others may not change them.
	status, _ = env.do(t, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, body = env.do(t, http.MethodPost, path+"/add", bob, map[string]any{"track_id": t1})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["code"])
	status, _ = env.do(t, http.MethodPost, path+"/remove", bob, map[string]any{"track_id": t1})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodPost, path+"/add", ann, map[string]any{"track_id": t1, "order": 5})
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodPost, path+"/add", ann, map[string]any{"track_id": t2, "order": 1})
	require.Equal(t, http.StatusOK, status)
	status, body = env.do(t, http.MethodPost, path+"/add", ann, map[string]any{"track_id": t1, "order": 0})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["order"])
	assert.Equal(t, int64(2), env.count(t, &models.PlaylistTrack{}))

	status, body = env.do(t, http.MethodGet, path, ann, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["tracks"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, t1, items[0].(map[string]any)["track"].(map[string]any)["id"])
	assert.Equal(t, t2, items[1].(map[string]any)["track"].(map[string]any)["id"])

	status, body = env.do(t, http.MethodPost, path+"/remove", ann, map[string]any{"track_id": "not-a-member"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["removed"])

	status, _ = env.do(t, http.MethodPost, path+"/add", root, map[string]any{"track_id": "missing"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodPatch, path, ann, map[string]any{"is_public": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_public"])

	status, body = env.do(t, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["tracks"].([]any), 2)

	status, _ = env.do(t, http.MethodPatch, path, bob, map[string]any{"name": "Mine"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.do(t, http.MethodGet, "/api/playlists", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, _ = env.do(t, http.MethodDelete, path, ann, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, env.count(t, &models.PlaylistTrack{}))
}
