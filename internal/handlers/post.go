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

type PostHandler struct {
	db        *gorm.DB
	uploadDir string
}

func NewPostHandler(db *gorm.DB, uploadDir string) *PostHandler {
	return &PostHandler{db: db, uploadDir: uploadDir}
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "post/create.html", gin.H{"Title": "New Post"})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	title := c.PostForm("title")
	content := c.PostForm("content")

	if content == "" {
		AddFlash(c, "danger", "Post content cannot be empty!")
		c.Redirect(http.StatusFound, "/post/new")
		return
	}

	post := models.Post{
		Title:   title,
		Content: content,
		UserID:  user.ID,
	}

	if header, err := c.FormFile("image"); err == nil && services.AllowedImage(header.Filename) {
		filename, err := services.SavePicture(header, h.uploadDir)
		if err != nil {
			utils.Sugar.Warnw("post image upload rejected", "error", err, "user", user.ID)
			AddFlash(c, "danger", "Could not save the image: "+err.Error())
			c.Redirect(http.StatusFound, "/post/new")
			return
		}
		post.Image = filename
	}

	if err := h.db.Create(&post).Error; err != nil {
		utils.Sugar.Errorw("create post failed", "error", err, "user", user.ID)
		RenderError(c, http.StatusInternalServerError, "Could not create the post.")
		return
	}

	AddFlash(c, "success", "Your post has been created!")
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) Detail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToInt(c.Param("id"))

	var post models.Post
	if err := h.db.Preload("User").First(&post, postID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found.")
		return
	}

	posts := []models.Post{post}
	fillInteractionCounts(h.db, posts)
	post = posts[0]

	var comments []models.Comment
	h.db.Preload("User").
		Where("post_id = ?", post.ID).
		Order("created_at ASC").
		Find(&comments)

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Title":       post.Title,
		"Post":        post,
		"ContentHTML": utils.RenderMarkdown(post.Content),
		"Comments":    comments,
		"Liked":       likedPostIDs(h.db, user.ID, posts)[post.ID],
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToInt(c.Param("id"))

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found.")
		return
	}

	if post.UserID != user.ID {
		AddFlash(c, "danger", "You cannot delete this post!")
		c.Redirect(http.StatusFound, "/")
		return
	}

	// Likes and comments go with it via the schema's cascades.
	if err := h.db.Delete(&post).Error; err != nil {
		utils.Sugar.Errorw("delete post failed", "error", err, "post", post.ID)
		RenderError(c, http.StatusInternalServerError, "Could not delete the post.")
		return
	}

	AddFlash(c, "success", "Post deleted!")
	c.Redirect(http.StatusFound, "/")
}

// ToggleLike likes the post when no like exists and removes the like
// otherwise, returning the new state and count. A duplicate-key race on
// create means another request already liked it, which is the desired state.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToInt(c.Param("id"))

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	liked := false
	var existing models.Like
	err := h.db.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&existing).Error
	if err == nil {
		h.db.Delete(&existing)
	} else {
		like := models.Like{UserID: user.ID, PostID: post.ID}
		if err := h.db.Create(&like).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Sugar.Errorw("like failed", "error", err, "post", post.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not like the post"})
			return
		}
		liked = true
	}

	var count int64
	h.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)

	c.JSON(http.StatusOK, gin.H{"liked": liked, "like_count": count})
}

// AddComment creates a comment from a JSON body and returns the rendered
// comment plus the new count, for in-place insertion by the frontend.
func (h *PostHandler) AddComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID := utils.StringToInt(c.Param("id"))

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}

	comment := models.Comment{
		Content: strings.TrimSpace(body.Content),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		utils.Sugar.Errorw("create comment failed", "error", err, "post", post.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save the comment"})
		return
	}

	var count int64
	h.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"comment": gin.H{
			"content":      comment.Content,
			"author":       user.Username,
			"author_image": "/static/uploads/" + user.ProfileImage,
			"created_at":   comment.CreatedAt.Format(commentTimeLayout),
		},
		"comment_count": count,
	})
}
