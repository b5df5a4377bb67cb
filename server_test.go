package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Login returns a usable token pair for valid credentials.
func TestLoginReturnsTokenPair(t *testing.T) {
	r := setupTestApp(t)
	registerTestUser(t, r, "alice")

	pair := loginTestUser(t, r, "alice")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	rec := performRequest(r, http.MethodPost, "/sessions", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "wrong",
	}), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Session listing only ever shows valid sessions.
func TestSessionListingShowsOnlyValidSessions(t *testing.T) {
	r := setupTestApp(t)
	registerTestUser(t, r, "alice")

	pair1 := loginTestUser(t, r, "alice")
	pair2 := loginTestUser(t, r, "alice")

	rec := performRequest(r, http.MethodDelete, "/sessions", nil, pair2.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(r, http.MethodGet, "/sessions", nil, pair1.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	data, ok := out["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	session := data[0].(map[string]any)
	assert.Equal(t, true, session["valid"])
	assert.EqualValues(t, sessionIDOf(t, pair1), session["id"])
}

func TestSocialFlow(t *testing.T) {
	r := setupTestApp(t)
	registerTestUser(t, r, "alice")
	registerTestUser(t, r, "bob")
	alicePair := loginTestUser(t, r, "alice")
	bobPair := loginTestUser(t, r, "bob")
	alice := findUserByUsername(t, "alice")
	bob := findUserByUsername(t, "bob")

	// Alice posts.
	rec := performRequest(r, http.MethodPost, "/posts", jsonBody(t, map[string]string{
		"text": "hello world",
	}), alicePair.AccessToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decodeBody(t, rec)
	postID := int(post["id"].(float64))
	assert.Equal(t, true, post["isPublicPost"])

	// Bob follows Alice and sees her post in his feed.
	rec = performRequest(r, http.MethodPost, fmt.Sprintf("/users/%d/follow", alice.ID),
		jsonBody(t, map[string]bool{"follow": true}), bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = performRequest(r, http.MethodGet, "/feed", nil, bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decodeBody(t, rec)["data"].([]any)
	require.Len(t, feed, 1)

	// Alice shows as followed in Bob's view of her profile.
	rec = performRequest(r, http.MethodGet, fmt.Sprintf("/users/%d", alice.ID), nil, bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["followedByMe"])

	// Bob likes the post.
	rec = performRequest(r, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID),
		jsonBody(t, map[string]bool{"like": true}), bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decodeBody(t, rec)["numLikes"])

	// Liking twice stays one like; unliking clears it.
	rec = performRequest(r, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID),
		jsonBody(t, map[string]bool{"like": true}), bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["numLikes"])
	rec = performRequest(r, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID),
		jsonBody(t, map[string]bool{"like": false}), bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decodeBody(t, rec)["numLikes"])

	// Bob comments.
	rec = performRequest(r, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID),
		jsonBody(t, map[string]string{"text": "nice one"}), bobPair.AccessToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = performRequest(r, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), nil, alicePair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decodeBody(t, rec)["data"].([]any)
	require.Len(t, comments, 1)

	// Only the author may edit or delete.
	rec = performRequest(r, http.MethodPut, fmt.Sprintf("/posts/%d", postID),
		jsonBody(t, map[string]string{"text": "edited"}), bobPair.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = performRequest(r, http.MethodPut, fmt.Sprintf("/posts/%d", postID),
		jsonBody(t, map[string]string{"text": "edited"}), alicePair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decodeBody(t, rec)
	assert.Equal(t, "edited", edited["text"])
	assert.NotNil(t, edited["lastEditDate"])

	// User search finds Bob but not Alice herself.
	rec = performRequest(r, http.MethodGet, "/users?q=User", nil, alicePair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody(t, rec)["data"].([]any)
	require.Len(t, users, 1)
	assert.EqualValues(t, bob.ID, users[0].(map[string]any)["id"])

	// Deleting the post removes its comments too.
	rec = performRequest(r, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, alicePair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	assert.EqualValues(t, 1, out["posts_deleted"])
	assert.EqualValues(t, 1, out["comments_deleted"])
}

func TestGuestFlow(t *testing.T) {
	r := setupTestApp(t)

	rec := performRequest(r, http.MethodPost, "/guest", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	accessToken := out["accessToken"].(string)
	require.NotEmpty(t, accessToken)

	// Guests only produce private posts.
	rec = performRequest(r, http.MethodPost, "/posts", jsonBody(t, map[string]string{
		"text": "guest post",
	}), accessToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["isPublicPost"])

	// Guests never show up in the user directory.
	registerTestUser(t, r, "alice")
	alicePair := loginTestUser(t, r, "alice")
	rec = performRequest(r, http.MethodGet, "/users", nil, alicePair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["data"])
}

func TestPrivatePostsHiddenFromOthers(t *testing.T) {
	r := setupTestApp(t)
	registerTestUser(t, r, "alice")
	registerTestUser(t, r, "bob")
	alicePair := loginTestUser(t, r, "alice")
	bobPair := loginTestUser(t, r, "bob")
	alice := findUserByUsername(t, "alice")

	rec := performRequest(r, http.MethodPost, "/posts", jsonBody(t, map[string]string{
		"text": "public thought",
	}), alicePair.AccessToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	postsPath := fmt.Sprintf("/users/%d/posts", alice.ID)
	rec = performRequest(r, http.MethodGet, postsPath, nil, bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody(t, rec)["data"].([]any), 1)

	// Flip it private: Bob no longer sees it, Alice still does.
	require.NoError(t, db.Exec("UPDATE posts SET is_public_post = ? WHERE author_id = ?", false, alice.ID).Error)
	rec = performRequest(r, http.MethodGet, postsPath, nil, bobPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["data"])
	rec = performRequest(r, http.MethodGet, postsPath, nil, alicePair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody(t, rec)["data"].([]any), 1)
}

func TestDeleteAccountRevokesSessions(t *testing.T) {
	r := setupTestApp(t)
	registerTestUser(t, r, "alice")
	pair := loginTestUser(t, r, "alice")
	alice := findUserByUsername(t, "alice")

	rec := performRequest(r, http.MethodDelete, fmt.Sprintf("/users/%d", alice.ID), nil, pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decodeBody(t, rec)["deletedCount"])

	_, err := sessionSvc.RenewAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRenewalRefused)
}

func TestAvatarUpload(t *testing.T) {
	r := setupTestApp(t)
	registerTestUser(t, r, "alice")
	pair := loginTestUser(t, r, "alice")
	alice := findUserByUsername(t, "alice")

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, err := mw.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = w.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/avatar", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeBody(t, rec)
	imageURL := out["imageUrl"].(string)
	assert.Equal(t, fmt.Sprintf("public/avatars/user_%d.jpg", alice.ID), imageURL)

	saved := filepath.Join(cfg.UploadBase, "avatars", fmt.Sprintf("user_%d.jpg", alice.ID))
	_, err = os.Stat(saved)
	assert.NoError(t, err)

	updated, err := userStore.FindByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, imageURL, updated.ImageURL)
}
