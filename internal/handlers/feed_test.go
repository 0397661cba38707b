package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedResponse struct {
	Posts []struct {
		ID        uint   `json:"id"`
		Title     string `json:"title"`
		Content   string `json:"content"`
		CreatedAt string `json:"created_at"`
		Author    struct {
			Username     string `json:"username"`
			ProfileImage string `json:"profile_image"`
		} `json:"author"`
		LikeCount    int  `json:"like_count"`
		CommentCount int  `json:"comment_count"`
		Liked        bool `json:"liked"`
	} `json:"posts"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
}

// TestFeedScenario walks the whole loop: follow, post, read the feed,
// like, unlike, comment.
func TestFeedScenario(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	alice := signUpAndLogin(t, r, "alice", "alice@x.com", "pw1")
	bob := signUpAndLogin(t, r, "bob", "bob@x.com", "pw2")

	w := bob.get("/follow/alice")
	require.Equal(t, http.StatusFound, w.Code)

	w = alice.postForm("/post/new", url.Values{
		"title":   {"hello"},
		"content": {"world"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = bob.get("/api/feed")
	require.Equal(t, http.StatusOK, w.Code)
	var feed feedResponse
	decodeJSON(t, w, &feed)
	require.Len(t, feed.Posts, 1)
	post := feed.Posts[0]
	assert.Equal(t, "hello", post.Title)
	assert.Equal(t, "world", post.Content)
	assert.Equal(t, "alice", post.Author.Username)
	assert.Equal(t, 0, post.LikeCount)
	assert.False(t, post.Liked)
	assert.Equal(t, 1, feed.Page)
	assert.Equal(t, 1, feed.Pages)
	assert.False(t, feed.HasNext)
	assert.False(t, feed.HasPrev)

	likeURL := fmt.Sprintf("/api/post/%d/like", post.ID)
	w = bob.postJSON(likeURL, map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.get("/api/feed")
	decodeJSON(t, w, &feed)
	assert.Equal(t, 1, feed.Posts[0].LikeCount)
	assert.True(t, feed.Posts[0].Liked)

	w = bob.postJSON(likeURL, map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.get("/api/feed")
	decodeJSON(t, w, &feed)
	assert.Equal(t, 0, feed.Posts[0].LikeCount)
	assert.False(t, feed.Posts[0].Liked)

	w = bob.postJSON(fmt.Sprintf("/api/post/%d/comment", post.ID), map[string]string{"content": "nice"})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.get("/api/feed")
	decodeJSON(t, w, &feed)
	assert.Equal(t, 1, feed.Posts[0].CommentCount)
}

// The feed only shows posts from followed users and the reader themselves.
func TestFeedExcludesUnfollowed(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	alice := signUpAndLogin(t, r, "alice", "alice@x.com", "pw1")
	bob := signUpAndLogin(t, r, "bob", "bob@x.com", "pw2")

	alice.postForm("/post/new", url.Values{"content": {"alice only"}})
	bob.postForm("/post/new", url.Values{"content": {"bob post"}})

	w := bob.get("/api/feed")
	require.Equal(t, http.StatusOK, w.Code)
	var feed feedResponse
	decodeJSON(t, w, &feed)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "bob post", feed.Posts[0].Content)
}

func TestFeedPagination(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	alice := signUpAndLogin(t, r, "alice", "alice@x.com", "pw1")

	for i := 1; i <= 12; i++ {
		w := alice.postForm("/post/new", url.Values{
			"content": {fmt.Sprintf("post %d", i)},
		})
		require.Equal(t, http.StatusFound, w.Code)
	}

	w := alice.get("/api/feed")
	require.Equal(t, http.StatusOK, w.Code)
	var feed feedResponse
	decodeJSON(t, w, &feed)
	assert.Len(t, feed.Posts, 10)
	assert.Equal(t, 1, feed.Page)
	assert.Equal(t, 2, feed.Pages)
	assert.True(t, feed.HasNext)
	assert.False(t, feed.HasPrev)

	w = alice.get("/api/feed?page=2")
	decodeJSON(t, w, &feed)
	assert.Len(t, feed.Posts, 2)
	assert.Equal(t, 2, feed.Page)
	assert.False(t, feed.HasNext)
	assert.True(t, feed.HasPrev)

	// Past the last page there is nothing to serve.
	w = alice.get("/api/feed?page=3")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedEmptyForNewUser(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	alice := signUpAndLogin(t, r, "alice", "alice@x.com", "pw1")

	w := alice.get("/api/feed")
	require.Equal(t, http.StatusOK, w.Code)
	var feed feedResponse
	decodeJSON(t, w, &feed)
	assert.Empty(t, feed.Posts)
	assert.Equal(t, 1, feed.Pages)
	assert.False(t, feed.HasNext)
	assert.False(t, feed.HasPrev)

	w = alice.get("/api/feed?page=2")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
