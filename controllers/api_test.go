package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"testbook-api/config"
	"testbook-api/database"
	"testbook-api/models"
	"testbook-api/routes"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		JWTSecret:         "test-secret",
		Testing:           true,
		LoginRateLimit:    1000,
		RegisterRateLimit: 1000,
	}
}

func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Initialize(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	router := gin.New()
	routes.SetupRoutes(router, db, testConfig())
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerUser registers a user through the API and returns the token.
func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":        username + "@testbook.com",
		"username":     username,
		"display_name": "User " + username,
		"password":     "Password123!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createPostHTTP(t *testing.T, router *gin.Engine, token, content string) models.PostView {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/posts", token, gin.H{"content": content})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view models.PostView
	decode(t, w, &view)
	return view
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := setupServer(t)

	token := registerUser(t, router, "sarah")

	// Registration token works immediately.
	w := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Duplicate email is a conflict.
	w = doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":        "sarah@testbook.com",
		"username":     "sarah2",
		"display_name": "Sarah Again",
		"password":     "Password123!",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password is unauthorized.
	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sarah@testbook.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sarah@testbook.com",
		"password": "Password123!",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	router, _ := setupServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/feed/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/feed/all", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostCommentReactionLifecycle(t *testing.T) {
	router, _ := setupServer(t)
	author := registerUser(t, router, "author")
	viewer := registerUser(t, router, "viewer")

	post := createPostHTTP(t, router, author, "hello world")
	assert.Equal(t, int64(0), post.CommentsCount)
	assert.Equal(t, int64(0), post.ReactionsCount)

	w := doJSON(t, router, http.MethodPost, "/api/posts/"+post.ID+"/comments", viewer,
		gin.H{"content": "first!"})
	require.Equal(t, http.StatusCreated, w.Code)

	// React, then change the reaction type.
	w = doJSON(t, router, http.MethodPost, "/api/posts/"+post.ID+"/reactions", viewer,
		gin.H{"reaction_type": "love"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/posts/"+post.ID+"/reactions", viewer,
		gin.H{"reaction_type": "wow"})
	require.Equal(t, http.StatusCreated, w.Code)

	var view models.PostView
	decode(t, w, &view)
	assert.Equal(t, int64(1), view.ReactionsCount)
	require.NotNil(t, view.UserReaction)
	assert.Equal(t, "wow", *view.UserReaction)

	// Unsupported reaction type.
	w = doJSON(t, router, http.MethodPost, "/api/posts/"+post.ID+"/reactions", viewer,
		gin.H{"reaction_type": "applause"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Detail view carries the listings.
	w = doJSON(t, router, http.MethodGet, "/api/posts/"+post.ID, viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.PostDetail
	decode(t, w, &detail)
	assert.Len(t, detail.Comments, 1)
	assert.Len(t, detail.Reactions, 1)
	assert.Equal(t, int64(1), detail.CommentsCount)

	// Remove the reaction entirely.
	w = doJSON(t, router, http.MethodDelete, "/api/posts/"+post.ID+"/reactions", viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Nil(t, view.UserReaction)
	assert.Equal(t, int64(0), view.ReactionsCount)

	// Removing again is a 404.
	w = doJSON(t, router, http.MethodDelete, "/api/posts/"+post.ID+"/reactions", viewer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Only the author may update or delete.
	w = doJSON(t, router, http.MethodPut, "/api/posts/"+post.ID, viewer,
		gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/posts/"+post.ID, author, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/posts/"+post.ID, viewer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockingHidesPostsBothWays(t *testing.T) {
	router, _ := setupServer(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	bobPost := createPostHTTP(t, router, bob, "hello")
	alicePost := createPostHTTP(t, router, alice, "hi")

	w := doJSON(t, router, http.MethodPost, "/api/users/bob/block", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Alice initiated the block: Bob's post disappears from her feed.
	w = doJSON(t, router, http.MethodGet, "/api/feed/all", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []models.PostView
	decode(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, alicePost.ID, views[0].ID)

	// Bob is hidden from Alice's posts too, though he did nothing.
	w = doJSON(t, router, http.MethodGet, "/api/feed/all", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, bobPost.ID, views[0].ID)

	// Post detail is forbidden across the block.
	w = doJSON(t, router, http.MethodGet, "/api/posts/"+bobPost.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A blocked user's post listing is empty, not an error.
	w = doJSON(t, router, http.MethodGet, "/api/users/bob/posts", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	assert.Empty(t, views)

	// Unblocking restores visibility.
	w = doJSON(t, router, http.MethodDelete, "/api/users/bob/block", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/feed/all", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	assert.Len(t, views, 2)
}

func TestBlockingRemovesFollows(t *testing.T) {
	router, db := setupServer(t)
	alice := registerUser(t, router, "alice")
	_ = registerUser(t, router, "bob")

	w := doJSON(t, router, http.MethodPost, "/api/users/bob/follow", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/users/bob/block", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFollowingFeed(t *testing.T) {
	router, _ := setupServer(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")
	_ = registerUser(t, router, "carol")

	createPostHTTP(t, router, alice, "own post")
	bobPost := createPostHTTP(t, router, bob, "bob post")

	// Nobody followed yet: empty following feed.
	w := doJSON(t, router, http.MethodGet, "/api/feed/following", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []models.PostView
	decode(t, w, &views)
	assert.Empty(t, views)

	w = doJSON(t, router, http.MethodPost, "/api/users/bob/follow", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Only Bob's posts; Alice's own posts are not included.
	w = doJSON(t, router, http.MethodGet, "/api/feed/following", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, bobPost.ID, views[0].ID)
}

func TestFeedPagination(t *testing.T) {
	router, _ := setupServer(t)
	token := registerUser(t, router, "writer")

	for i := 0; i < 5; i++ {
		createPostHTTP(t, router, token, fmt.Sprintf("post %d", i))
	}

	w := doJSON(t, router, http.MethodGet, "/api/feed/all?skip=2&limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []models.PostView
	decode(t, w, &views)
	assert.Len(t, views, 2)

	w = doJSON(t, router, http.MethodGet, "/api/feed/all?skip=100", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	assert.Empty(t, views)

	w = doJSON(t, router, http.MethodGet, "/api/feed/all?skip=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/feed/all?limit=-5", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/feed/all?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRepostFlow(t *testing.T) {
	router, _ := setupServer(t)
	author := registerUser(t, router, "author")
	reposter := registerUser(t, router, "reposter")

	original := createPostHTTP(t, router, author, "original content")

	// Repost with empty content is valid.
	w := doJSON(t, router, http.MethodPost, "/api/posts/repost", reposter,
		gin.H{"original_post_id": original.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view models.PostView
	decode(t, w, &view)
	assert.True(t, view.IsRepost)
	require.NotNil(t, view.OriginalPost)
	assert.Equal(t, original.ID, view.OriginalPost.ID)
	assert.False(t, view.OriginalPost.IsRepost)
	assert.Nil(t, view.OriginalPost.OriginalPost)
	assert.True(t, view.OriginalPost.HasReposted)

	// Second repost of the same original is a conflict.
	w = doJSON(t, router, http.MethodPost, "/api/posts/repost", reposter,
		gin.H{"original_post_id": original.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Reposting a missing post is a 404.
	w = doJSON(t, router, http.MethodPost, "/api/posts/repost", reposter,
		gin.H{"original_post_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The original's view now reflects the repost.
	w = doJSON(t, router, http.MethodGet, "/api/posts/"+original.ID, reposter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.PostDetail
	decode(t, w, &detail)
	assert.Equal(t, int64(1), detail.RepostsCount)
	assert.True(t, detail.HasReposted)

	// Removing the repost frees the slot.
	w = doJSON(t, router, http.MethodDelete, "/api/posts/repost/"+original.ID, reposter, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/posts/repost/"+original.ID, reposter, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/posts/repost", reposter,
		gin.H{"original_post_id": original.ID, "content": "second take"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUserProfileAndFollowListings(t *testing.T) {
	router, _ := setupServer(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	createPostHTTP(t, router, bob, "bob post")

	w := doJSON(t, router, http.MethodPost, "/api/users/bob/follow", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Following yourself or following twice are rejected.
	w = doJSON(t, router, http.MethodPost, "/api/users/alice/follow", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/users/bob/follow", alice, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/users/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.UserProfile
	decode(t, w, &profile)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, int64(1), profile.FollowersCount)
	assert.Equal(t, int64(1), profile.PostsCount)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsBlocked)

	w = doJSON(t, router, http.MethodGet, "/api/users/bob/followers", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.UserListItem
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "alice", items[0].Username)

	w = doJSON(t, router, http.MethodGet, "/api/users/alice/following", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "bob", items[0].Username)
	assert.True(t, items[0].IsFollowing)
}

func TestUpdateAndDeleteAccount(t *testing.T) {
	router, _ := setupServer(t)
	token := registerUser(t, router, "mutable")

	w := doJSON(t, router, http.MethodPut, "/api/users/me", token, gin.H{
		"display_name": "Renamed",
		"bio":          "new bio",
		"theme":        "dark",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	decode(t, w, &user)
	assert.Equal(t, "Renamed", user.DisplayName)
	assert.Equal(t, "dark", user.Theme)

	createPostHTTP(t, router, token, "will be orphaned")

	w = doJSON(t, router, http.MethodDelete, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The token's subject is gone.
	w = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDevEndpointsRequireTestMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Initialize(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := testConfig()
	cfg.Testing = false
	router := gin.New()
	routes.SetupRoutes(router, db, cfg)

	w := doJSON(t, router, http.MethodPost, "/api/dev/reset", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDevResetSeedsStandardCast(t *testing.T) {
	router, db := setupServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/dev/reset", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(4), userCount)

	// Seeded users can log in with their documented passwords.
	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sarah.johnson@testbook.com",
		"password": "Sarah2024!",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
