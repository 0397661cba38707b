package handlers_test

import (
	"net/http"
	"testing"

	"bantu/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// countFollows asserts on the state of the follow graph directly.
func countFollows(t *testing.T, db *gorm.DB, followerID, followedID uint) int64 {
	t.Helper()
	var count int64
	db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count)
	return count
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	bob := signUpAndLogin(t, r, "bob", "b@x.com", "pw2")
	signUpAndLogin(t, r, "alice", "a@x.com", "pw1")

	w := bob.get("/follow/alice")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/alice", w.Header().Get("Location"))
	assert.EqualValues(t, 1, countFollows(t, database, 1, 2))

	w = bob.get("/unfollow/alice")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.EqualValues(t, 0, countFollows(t, database, 1, 2))

	// Unfollowing again is a silent no-op.
	w = bob.get("/unfollow/alice")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.EqualValues(t, 0, countFollows(t, database, 1, 2))
}

func TestFollowTwiceKeepsSingleEdge(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	bob := signUpAndLogin(t, r, "bob", "b@x.com", "pw2")
	signUpAndLogin(t, r, "alice", "a@x.com", "pw1")

	bob.get("/follow/alice")
	bob.get("/follow/alice")

	var count int64
	database.Model(&models.Follow{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSelfFollowRejected(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	bob := signUpAndLogin(t, r, "bob", "b@x.com", "pw2")

	w := bob.get("/follow/bob")
	assert.Equal(t, http.StatusFound, w.Code)

	var count int64
	database.Model(&models.Follow{}).Count(&count)
	assert.Zero(t, count, "follow graph must be unchanged")
}

func TestFollowUnknownUser(t *testing.T) {
	database := setupTestDB(t)
	r := newTestRouter(t, database)
	bob := signUpAndLogin(t, r, "bob", "b@x.com", "pw2")

	w := bob.get("/follow/nobody")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
