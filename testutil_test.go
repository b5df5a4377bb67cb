package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sosmed/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, tdb.AutoMigrate(&models.User{}, &models.Session{}, &models.Post{}, &models.Comment{}))
	return tdb
}

// setupTestApp wires the whole app against an in-memory database and returns
// the router. Tests share the package globals, so no t.Parallel here.
func setupTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db = openTestDB(t)
	cfg = Config{
		UploadBase:          t.TempDir(),
		AllowNewPublicUsers: true,
		Token:               testTokenConfig(),
	}
	require.NoError(t, initAuth())
	r := gin.New()
	setupRoutes(r)
	return r
}

// performRequest drives the router; headers beyond the bearer token (e.g.
// X-Refresh) go in extra.
func performRequest(r http.Handler, method, path string, body io.Reader, token string, extra map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func registerTestUser(t *testing.T, r http.Handler, username string) {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/users", jsonBody(t, map[string]string{
		"username":  username,
		"password":  "password123",
		"firstName": "Test",
		"lastName":  "User",
	}), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func loginTestUser(t *testing.T, r http.Handler, username string) TokenPair {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/sessions", jsonBody(t, map[string]string{
		"username": username,
		"password": "password123",
	}), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pair TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

// signTestToken mints a token directly so tests can control expiry.
func signTestToken(t *testing.T, tcfg TokenConfig, user *models.User, sessionID uint, class TokenClass, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := AuthClaims{
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		IsGuest:   user.IsGuest,
		SessionID: sessionID,
		Kind:      string(class),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	secret := tcfg.AccessSecret
	if class == TokenClassRefresh {
		secret = tcfg.RefreshSecret
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}
