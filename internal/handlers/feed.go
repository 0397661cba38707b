package handlers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"bantu/internal/middleware"
	"bantu/internal/models"
	"bantu/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	feedPerPage        = 10
	suggestedUserCount = 5
	suggestedCacheTTL  = time.Minute
)

type FeedHandler struct {
	db *gorm.DB
}

func NewFeedHandler(db *gorm.DB) *FeedHandler {
	return &FeedHandler{db: db}
}

// Home renders the landing page for visitors and the feed for signed-in
// users: posts from followed users plus their own, newest first, with a
// short list of suggested accounts to follow.
func (h *FeedHandler) Home(c *gin.Context) {
	userVal, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		Render(c, http.StatusOK, "home.html", nil)
		return
	}
	user := userVal.(*models.User)

	followingIDs := followedUserIDs(h.db, user.ID)
	ownerIDs := append(followingIDs, user.ID)

	var posts []models.Post
	h.db.Preload("User").
		Where("user_id IN ?", ownerIDs).
		Order("created_at DESC").
		Find(&posts)

	fillInteractionCounts(h.db, posts)
	liked := likedPostIDs(h.db, user.ID, posts)

	Render(c, http.StatusOK, "index.html", gin.H{
		"Title":          "Home",
		"Posts":          posts,
		"Liked":          liked,
		"SuggestedUsers": h.suggestedUsers(user.ID, followingIDs),
	})
}

// APIFeed is the paginated JSON variant of the feed.
func (h *FeedHandler) APIFeed(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}

	followingIDs := followedUserIDs(h.db, user.ID)
	ownerIDs := append(followingIDs, user.ID)

	var total int64
	h.db.Model(&models.Post{}).Where("user_id IN ?", ownerIDs).Count(&total)

	pages := int(math.Ceil(float64(total) / float64(feedPerPage)))
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}

	var posts []models.Post
	h.db.Preload("User").
		Where("user_id IN ?", ownerIDs).
		Order("created_at DESC").
		Limit(feedPerPage).
		Offset((page - 1) * feedPerPage).
		Find(&posts)

	fillInteractionCounts(h.db, posts)
	liked := likedPostIDs(h.db, user.ID, posts)

	postsData := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		postsData = append(postsData, gin.H{
			"id":         post.ID,
			"title":      post.Title,
			"content":    post.Content,
			"image":      post.Image,
			"created_at": post.CreatedAt.Format(feedTimeLayout),
			"author": gin.H{
				"username":      post.User.Username,
				"profile_image": post.User.ProfileImage,
			},
			"like_count":    post.LikeCount,
			"comment_count": post.CommentCount,
			"liked":         liked[post.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":    postsData,
		"has_next": page < pages,
		"has_prev": page > 1,
		"page":     page,
		"pages":    pages,
	})
}

// suggestedUsers returns up to suggestedUserCount accounts the user does not
// follow yet, excluding themselves. No ranking, first N encountered. Cached
// briefly; follow mutations invalidate.
func (h *FeedHandler) suggestedUsers(userID uint, followingIDs []uint) []models.User {
	cacheKey := suggestedCacheKey(userID)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if users, ok := cached.([]models.User); ok {
			return users
		}
	}

	var users []models.User
	q := h.db.Where("id <> ?", userID)
	if len(followingIDs) > 0 {
		q = q.Where("id NOT IN ?", followingIDs)
	}
	q.Limit(suggestedUserCount).Find(&users)

	utils.GetCache().Set(cacheKey, users, suggestedCacheTTL)
	return users
}

func suggestedCacheKey(userID uint) string {
	return fmt.Sprintf("suggested:%d", userID)
}

// followedUserIDs returns the IDs of everyone the user follows.
func followedUserIDs(db *gorm.DB, userID uint) []uint {
	var ids []uint
	db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids)
	return ids
}

// fillInteractionCounts batch-fills like and comment counts for a post list.
func fillInteractionCounts(db *gorm.DB, posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}

	var likeCounts []countResult
	db.Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeCounts)

	var commentCounts []countResult
	db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentCounts)

	likeMap := make(map[uint]int, len(likeCounts))
	for _, r := range likeCounts {
		likeMap[r.PostID] = r.Count
	}
	commentMap := make(map[uint]int, len(commentCounts))
	for _, r := range commentCounts {
		commentMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].LikeCount = likeMap[posts[i].ID]
		posts[i].CommentCount = commentMap[posts[i].ID]
	}
}

// likedPostIDs returns which of the given posts the user has liked.
func likedPostIDs(db *gorm.DB, userID uint, posts []models.Post) map[uint]bool {
	liked := make(map[uint]bool, len(posts))
	if len(posts) == 0 {
		return liked
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var ids []uint
	db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids)
	for _, id := range ids {
		liked[id] = true
	}
	return liked
}
