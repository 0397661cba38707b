package handlers

import (
	"net/http"

	"bantu/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SearchHandler struct {
	db *gorm.DB
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{db: db}
}

// Search matches the query substring against usernames and bios, and
// against post titles and content. An empty query yields empty results.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")

	var users []models.User
	var posts []models.Post

	if query != "" {
		pattern := "%" + query + "%"
		h.db.Where("username ILIKE ? OR bio ILIKE ?", pattern, pattern).Find(&users)
		h.db.Preload("User").
			Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
			Order("created_at DESC").
			Find(&posts)
		fillInteractionCounts(h.db, posts)
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Title": "Search",
		"Query": query,
		"Users": users,
		"Posts": posts,
	})
}
