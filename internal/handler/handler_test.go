package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vidtube/internal/config"
	"github.com/user/vidtube/internal/handler"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/router"
	"github.com/user/vidtube/internal/service/servicetest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	t      *testing.T
	cfg    *config.Config
	env    *servicetest.Env
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Upload.TempDir = t.TempDir()
	cfg.Media.LocalDir = t.TempDir()

	env := servicetest.NewEnv(0)
	h := handler.NewHandler(cfg, env.Services)
	return &testServer{t: t, cfg: cfg, env: env, engine: router.NewEngine(h, log.New(io.Discard))}
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func (s *testServer) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
		assert.Equal(s.t, rec.Code, env.StatusCode)
		assert.Equal(s.t, rec.Code < 400, env.Success)
	}
	return rec, env
}

func jsonRequest(method, path string, body any, token string) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

type filePart struct {
	field, name, contentType string
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, files []filePart, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		hdr.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	rec, env := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": username, "password": "secret1"}, ""))
	require.Equal(s.t, http.StatusOK, rec.Code, env.Message)
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)
	fields := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"fullName": "Alice",
		"password": "secret1",
	}

	rec, env := s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register", fields,
		[]filePart{{"avatar", "me.png", "image/png"}}, ""))
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice", user["username"])
	assert.NotEmpty(t, user["avatar"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "refreshToken")

	rec, _ = s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register", fields,
		[]filePart{{"avatar", "me.png", "image/png"}}, ""))
	assert.Equal(t, http.StatusConflict, rec.Code)

	fields["username"], fields["email"] = "bob", "bob@example.com"
	rec, env = s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register", fields,
		[]filePart{{"avatar", "me.txt", "text/plain"}}, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "avatar must be an image file", env.Message)

	rec, _ = s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register", fields, nil, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSetsCookies(t *testing.T) {
	s := newTestServer(t)
	s.env.DB.SeedUser(t, "alice", "secret1")

	rec, env := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "alice@example.com", "password": "secret1"}, ""))
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "accessToken")
	require.Contains(t, cookies, "refreshToken")
	assert.True(t, cookies["accessToken"].HttpOnly)
	assert.Positive(t, cookies["refreshToken"].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(cookies["accessToken"])
	rec, env = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"username":"alice"`)

	rec, env = s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": "alice", "password": "nope12"}, ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid user credentials", env.Message)

	rec, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": "ghost", "password": "secret1"}, ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	s := newTestServer(t)
	s.env.DB.SeedUser(t, "alice", "secret1")

	rec, env := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{"username": "alice", "password": "secret1"}, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))

	rec, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": tokens.RefreshToken}, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": tokens.RefreshToken}, ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Refresh token is expired or used", env.Message)

	rec, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/users/logout", nil, tokens.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(jsonRequest(http.MethodGet, "/api/v1/users/current-user", nil, tokens.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodPost, "/api/v1/likes/toggle/v/1"},
		{http.MethodGet, "/api/v1/dashboard/stats"},
		{http.MethodPost, "/api/v1/videos"},
	} {
		rec, env := s.do(jsonRequest(r.method, r.path, nil, "garbage"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.path)
		assert.False(t, env.Success)
	}
}

func TestToggleLikeStatusCodes(t *testing.T) {
	s := newTestServer(t)
	alice := s.env.DB.SeedUser(t, "alice", "secret1")
	s.env.DB.SeedUser(t, "bob", "secret1")
	v := s.env.DB.SeedVideo(t, alice.ID, "clip", true)
	token := s.login("bob")
	path := fmt.Sprintf("/api/v1/likes/toggle/v/%d", v.ID)

	rec, env := s.do(jsonRequest(http.MethodPost, path, nil, token))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"isLiked":true}`, string(env.Data))

	rec, env = s.do(jsonRequest(http.MethodGet, fmt.Sprintf("/api/v1/likes/status/v/%d", v.ID), nil, token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isLiked":true,"likeCount":1}`, string(env.Data))

	rec, env = s.do(jsonRequest(http.MethodPost, path, nil, token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isLiked":false}`, string(env.Data))

	rec, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/likes/toggle/v/abc", nil, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/likes/toggle/c/999", nil, token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = s.do(jsonRequest(http.MethodGet, "/api/v1/likes/status/x/1", nil, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscriptionToggle(t *testing.T) {
	s := newTestServer(t)
	alice := s.env.DB.SeedUser(t, "alice", "secret1")
	bob := s.env.DB.SeedUser(t, "bob", "secret1")
	token := s.login("bob")

	rec, _ := s.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", bob.ID), nil, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", alice.ID), nil, token))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(jsonRequest(http.MethodGet, "/api/v1/users/c/alice", nil, token))
	require.Equal(t, http.StatusOK, rec.Code)
	var info struct {
		SubscribersCount int64 `json:"subscribersCount"`
		IsSubscribed     bool  `json:"isSubscribed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, int64(1), info.SubscribersCount)
	assert.True(t, info.IsSubscribed)

	rec, _ = s.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", alice.ID), nil, token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListVideosEmptyIsArray(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(env.Data))

	rec, _ = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos?sortBy=secret", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishAndViewVideo(t *testing.T) {
	s := newTestServer(t)
	s.env.DB.SeedUser(t, "alice", "secret1")
	token := s.login("alice")

	rec, env := s.do(multipartRequest(t, http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "Intro", "description": "First upload"},
		[]filePart{{"videoFile", "clip.mp4", "video/mp4"}, {"thumbnail", "thumb.jpg", "image/jpeg"}}, token))
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	var video model.Video
	require.NoError(t, json.Unmarshal(env.Data, &video))
	assert.Equal(t, 42.5, video.Duration)
	assert.True(t, video.IsPublished)

	rec, env = s.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/videos/%d/view", video.ID), nil, token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"views":1}`, string(env.Data))

	rec, env = s.do(jsonRequest(http.MethodGet, "/api/v1/users/watch-history", nil, token))
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.HistoryItem
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, video.ID, history[0].Video.ID)

	rec, _ = s.do(multipartRequest(t, http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "No thumb", "description": "d"},
		[]filePart{{"videoFile", "clip.mp4", "video/mp4"}}, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(s.cfg.Upload.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlaylistRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	s.env.DB.SeedUser(t, "alice", "secret1")
	token := s.login("alice")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlist", strings.NewReader(`{"name": "mix"`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec, env := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid playlist details", env.Message)

	rec, env = s.do(jsonRequest(http.MethodPost, "/api/v1/playlist", map[string]string{"name": "mix"}, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name and description are required", env.Message)

	rec, _ = s.do(jsonRequest(http.MethodPost, "/api/v1/playlist", map[string]string{"name": "mix", "description": "d"}, token))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, s.env.DB.Playlists, 1)
}
