package handlers

import (
	"errors"
	"net/http"

	"bantu/internal/middleware"
	"bantu/internal/models"
	"bantu/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FollowHandler struct {
	db *gorm.DB
}

func NewFollowHandler(db *gorm.DB) *FollowHandler {
	return &FollowHandler{db: db}
}

// Follow creates a follow edge toward the named user. Self-follows are
// rejected; following someone twice is an informational no-op.
func (h *FollowHandler) Follow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("username")

	var target models.User
	if err := h.db.Where("username = ?", username).First(&target).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found.")
		return
	}

	if target.ID == user.ID {
		AddFlash(c, "danger", "You cannot follow yourself!")
		c.Redirect(http.StatusFound, "/profile/"+username)
		return
	}

	if isFollowing(h.db, user.ID, target.ID) {
		AddFlash(c, "info", "You are already following "+username+"!")
		c.Redirect(http.StatusFound, "/profile/"+username)
		return
	}

	follow := models.Follow{FollowerID: user.ID, FollowedID: target.ID}
	if err := h.db.Create(&follow).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.Sugar.Errorw("follow failed", "error", err, "target", target.ID)
		RenderError(c, http.StatusInternalServerError, "Could not follow the user.")
		return
	}

	utils.GetCache().Delete(suggestedCacheKey(user.ID))

	AddFlash(c, "success", "You are now following "+username+"!")
	c.Redirect(http.StatusFound, "/profile/"+username)
}

// Unfollow removes the edge if present; absent is a silent no-op.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("username")

	var target models.User
	if err := h.db.Where("username = ?", username).First(&target).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found.")
		return
	}

	var follow models.Follow
	err := h.db.Where("follower_id = ? AND followed_id = ?", user.ID, target.ID).First(&follow).Error
	if err == nil {
		h.db.Delete(&follow)
		utils.GetCache().Delete(suggestedCacheKey(user.ID))
		AddFlash(c, "success", "You have unfollowed "+username+"!")
	}

	c.Redirect(http.StatusFound, "/profile/"+username)
}

// isFollowing is the existence check for a follow edge.
func isFollowing(db *gorm.DB, followerID, followedID uint) bool {
	var follow models.Follow
	err := db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).First(&follow).Error
	return err == nil
}
