package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud-video/internal/entity"
	"cloud-video/internal/guard"
	"cloud-video/internal/repo/persistent"
	"cloud-video/internal/usecase"
	"cloud-video/pkg/database"
	"cloud-video/pkg/jwt"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/password"
	"cloud-video/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *gin.Engine
	users     persistent.UserRepository
	uploadDir string
	tokens    *jwt.Service
}

func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	log := logger.NewWithWriter(io.Discard, false)
	db, err := database.Open(fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString()), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, persistent.AutoMigrate(db))

	uploadDir := t.TempDir()
	store, err := storage.NewLocalStorage(uploadDir, log)
	require.NoError(t, err)

	userRepo := persistent.NewUserRepository(db)
	videoRepo := persistent.NewVideoRepository(db)
	commentRepo := persistent.NewCommentRepository(db)
	ratingRepo := persistent.NewRatingRepository(db)
	tokens := jwt.NewService("test-secret", time.Hour)

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Auth:    NewAuthHandler(usecase.NewAuthUseCase(userRepo, tokens, log), log),
		User:    NewUserHandler(usecase.NewUserUseCase(userRepo, store, log), log),
		Video:   NewVideoHandler(usecase.NewVideoUseCase(videoRepo, store, log), log),
		Comment: NewCommentHandler(usecase.NewCommentUseCase(commentRepo, videoRepo, log), log),
		Rating:  NewRatingHandler(usecase.NewRatingUseCase(ratingRepo, videoRepo, log), log),
	}, RouterOptions{
		Guard:          guard.New(tokens, userRepo, log),
		Logger:         log,
		MaxUploadBytes: maxUpload,
	})

	return &testServer{router: r, users: userRepo, uploadDir: uploadDir, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, name string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    name + "@example.com",
		"username": name,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (s *testServer) login(t *testing.T, name string) string {
	t.Helper()
	form := url.Values{"username": {name + "@example.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func (s *testServer) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := password.Hash("password123")
	require.NoError(t, err)
	admin := &entity.User{Email: "root@example.com", Username: "root", PasswordHash: hash, Role: entity.RoleAdmin}
	require.NoError(t, s.users.Create(context.Background(), admin))
	return s.login(t, "root")
}

func (s *testServer) upload(t *testing.T, token, title, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("genre", "short"))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRoutes_HealthAndRoot(t *testing.T) {
	s := newTestServer(t, 1<<20)

	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_Registration(t *testing.T) {
	s := newTestServer(t, 1<<20)

	w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "eve@example.com",
		"username": "eve",
		"password": "password123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[map[string]any](t, w)
	assert.Equal(t, "consumer", user["role"])
	assert.NotContains(t, user, "password_hash")
	assert.NotZero(t, user["user_id"])

	w = s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "eve@example.com", "username": "eve2", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "eve2@example.com", "username": "eve", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	for name, body := range map[string]gin.H{
		"bad username": {"email": "x@example.com", "username": "no spaces!", "password": "password123"},
		"short pass":   {"email": "x@example.com", "username": "xavier", "password": "short"},
		"long pass":    {"email": "x@example.com", "username": "xavier", "password": strings.Repeat("p", 100)},
		"bad email":    {"email": "not-an-email", "username": "xavier", "password": "password123"},
	} {
		w = s.do(t, http.MethodPost, "/auth/register", "", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, name)
		assert.NotEmpty(t, decode[ErrorResponse](t, w).Detail, name)
	}
}

func TestRoutes_LoginAndMe(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.register(t, "alice")
	token := s.login(t, "alice")

	w := s.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[map[string]any](t, w)["username"])

	form := url.Values{"username": {"alice@example.com"}, "password": {"wrong-password"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	w = s.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = s.do(t, http.MethodGet, "/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := s.tokens.GenerateTokenWithTTL(1, -time.Minute)
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutes_SelfRoleChange(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.register(t, "carol")
	token := s.login(t, "carol")

	w := s.do(t, http.MethodPost, "/users/me/role", token, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/users/me/role", token, gin.H{"role": "overlord"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/users/me/role", token, gin.H{"role": "creator"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "creator", decode[map[string]any](t, w)["role"])

	adminToken := s.seedAdmin(t)
	w = s.do(t, http.MethodPost, "/users/me/role", adminToken, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoutes_AdminUserManagement(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.register(t, "dave")
	daveToken := s.login(t, "dave")
	adminToken := s.seedAdmin(t)

	w := s.do(t, http.MethodGet, "/users", daveToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/users/admin", daveToken, gin.H{
		"email": "x@example.com", "username": "xavier", "password": "password123", "role": "admin",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/users/admin", adminToken, gin.H{
		"email": "ed@example.com", "username": "ed", "password": "password123", "role": "creator",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ed := decode[map[string]any](t, w)
	assert.Equal(t, "creator", ed["role"])

	w = s.do(t, http.MethodGet, "/users?limit=10", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 3)

	w = s.do(t, http.MethodGet, "/users?skip=-1", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	edPath := fmt.Sprintf("/users/%.0f", ed["user_id"].(float64))

	w = s.do(t, http.MethodPut, edPath, daveToken, gin.H{"display_name": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, edPath, adminToken, gin.H{"email": "dave@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, edPath, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, edPath, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, edPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/users/abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRoutes_VideoLifecycle(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.register(t, "maker")
	s.register(t, "viewer")
	makerToken := s.login(t, "maker")
	viewerToken := s.login(t, "viewer")

	w := s.upload(t, viewerToken, "nope", "clip.mp4", "video/mp4", []byte("data"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/users/me/role", makerToken, gin.H{"role": "creator"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.upload(t, makerToken, "doc", "paper.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	w = s.upload(t, makerToken, "First cut", "../../clip.mp4", "video/mp4", []byte("movie-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	video := decode[map[string]any](t, w)
	assert.Equal(t, "First cut", video["title"])
	assert.Equal(t, "short", video["genre"])
	blobURI := video["blob_uri"].(string)
	require.True(t, strings.HasPrefix(blobURI, "/static/"))
	stored := filepath.Join(s.uploadDir, strings.TrimPrefix(blobURI, "/static/"))
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "movie-bytes", string(content))

	videoPath := fmt.Sprintf("/videos/%.0f", video["video_id"].(float64))

	w = s.do(t, http.MethodPut, videoPath, viewerToken, gin.H{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, videoPath, makerToken, gin.H{"title": "Final cut", "blob_uri": "/static/other"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Final cut", decode[map[string]any](t, w)["title"])
	assert.Equal(t, blobURI, decode[map[string]any](t, w)["blob_uri"])

	w = s.do(t, http.MethodPost, videoPath+"/comments", viewerToken, gin.H{"comment_text": "love it"})
	require.Equal(t, http.StatusCreated, w.Code)
	comment := decode[map[string]any](t, w)
	commentPath := fmt.Sprintf("%s/comments/%.0f", videoPath, comment["comment_id"].(float64))

	w = s.do(t, http.MethodPut, commentPath, makerToken, gin.H{"comment_text": "edited by owner of video"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, videoPath+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.do(t, http.MethodPut, videoPath+"/ratings", viewerToken, gin.H{"rating": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPut, videoPath+"/ratings", viewerToken, gin.H{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPut, videoPath+"/ratings", makerToken, gin.H{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, videoPath+"/ratings/summary", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[entity.RatingSummary](t, w)
	assert.Equal(t, int64(1), summary.Count)
	assert.InDelta(t, 5.0, summary.Average, 1e-9)

	w = s.do(t, http.MethodDelete, videoPath, viewerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, videoPath, makerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	w = s.do(t, http.MethodGet, videoPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, videoPath+"/comments", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, videoPath+"/ratings/summary", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_ListVideosNewestFirst(t *testing.T) {
	s := newTestServer(t, 1<<20)
	adminToken := s.seedAdmin(t)

	for _, title := range []string{"A", "B", "C"} {
		w := s.upload(t, adminToken, title, title+".mp4", "video/mp4", []byte(title))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/videos?skip=0&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	videos := decode[[]map[string]any](t, w)
	require.Len(t, videos, 2)
	assert.Equal(t, "C", videos[0]["title"])
	assert.Equal(t, "B", videos[1]["title"])
}

func TestRoutes_UploadTooLarge(t *testing.T) {
	s := newTestServer(t, 512)
	adminToken := s.seedAdmin(t)

	w := s.upload(t, adminToken, "big", "big.mp4", "video/mp4", bytes.Repeat([]byte("x"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
