package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bantu/internal/middleware"
	"bantu/internal/models"
	"bantu/internal/services"
	"bantu/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	db        *gorm.DB
	uploadDir string
}

func NewUserHandler(db *gorm.DB, uploadDir string) *UserHandler {
	return &UserHandler{db: db, uploadDir: uploadDir}
}

// Profile shows the signed-in user's own page.
func (h *UserHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	h.renderProfile(c, user, *user)
}

// UserProfile shows someone else's page by username.
func (h *UserHandler) UserProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("username")

	var target models.User
	if err := h.db.Where("username = ?", username).First(&target).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found.")
		return
	}

	h.renderProfile(c, user, target)
}

func (h *UserHandler) renderProfile(c *gin.Context, viewer *models.User, profile models.User) {
	var posts []models.Post
	h.db.Preload("User").
		Where("user_id = ?", profile.ID).
		Order("created_at DESC").
		Find(&posts)
	fillInteractionCounts(h.db, posts)

	var followersCount, followingCount int64
	h.db.Model(&models.Follow{}).Where("followed_id = ?", profile.ID).Count(&followersCount)
	h.db.Model(&models.Follow{}).Where("follower_id = ?", profile.ID).Count(&followingCount)

	isSelf := viewer.ID == profile.ID

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":          profile.Username,
		"User":           profile,
		"Posts":          posts,
		"FollowersCount": followersCount,
		"FollowingCount": followingCount,
		"IsSelf":         isSelf,
		"IsFollowing":    !isSelf && isFollowing(h.db, viewer.ID, profile.ID),
	})
}

func (h *UserHandler) ShowUpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "user/update.html", gin.H{
		"Title": "Update Profile",
		"User":  user,
	})
}

// UpdateProfile changes username, bio, location and optionally the profile
// image. A username collision re-renders the form with an error.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	username := strings.TrimSpace(c.PostForm("username"))
	if username == "" {
		username = user.Username
	}

	updates := map[string]interface{}{
		"username": username,
		"bio":      utils.SanitizeText(c.PostForm("bio")),
		"location": utils.SanitizeText(c.PostForm("location")),
	}

	if header, err := c.FormFile("profile_image"); err == nil && services.AllowedImage(header.Filename) {
		filename, err := services.SavePicture(header, h.uploadDir)
		if err != nil {
			utils.Sugar.Warnw("profile image upload rejected", "error", err, "user", user.ID)
			Render(c, http.StatusBadRequest, "user/update.html", gin.H{
				"Error": "Could not save the image: " + err.Error(),
				"User":  user,
			})
			return
		}
		updates["profile_image"] = filename
	}

	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Render(c, http.StatusBadRequest, "user/update.html", gin.H{
				"Error": "Username already taken!",
				"User":  user,
			})
			return
		}
		utils.Sugar.Errorw("update profile failed", "error", err, "user", user.ID)
		RenderError(c, http.StatusInternalServerError, "Could not update the profile.")
		return
	}

	AddFlash(c, "success", "Profile updated successfully!")
	c.Redirect(http.StatusFound, "/profile")
}
