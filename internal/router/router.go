package router

import (
	"fmt"
	"html/template"
	"path/filepath"

	"bantu/internal/config"
	"bantu/internal/handlers"
	"bantu/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires every route onto the engine. Paths mirror the
// original application exactly; frontends depend on them.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.Use(middleware.LoadUser(db))

	authHandler := handlers.NewAuthHandler(db)
	feedHandler := handlers.NewFeedHandler(db)
	postHandler := handlers.NewPostHandler(db, cfg.UploadDir)
	userHandler := handlers.NewUserHandler(db, cfg.UploadDir)
	followHandler := handlers.NewFollowHandler(db)
	searchHandler := handlers.NewSearchHandler(db)

	credentialLimit := middleware.RateLimit(cfg.RateLimitPerMinute)

	// Public routes
	r.GET("/", feedHandler.Home)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", credentialLimit, authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", credentialLimit, authHandler.Login)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/logout", authHandler.Logout)

		authorized.GET("/profile", userHandler.Profile)
		authorized.GET("/profile/update", userHandler.ShowUpdateProfile)
		authorized.POST("/profile/update", userHandler.UpdateProfile)
		authorized.GET("/profile/:username", userHandler.UserProfile)

		authorized.GET("/post/new", postHandler.ShowCreate)
		authorized.POST("/post/new", postHandler.Create)
		authorized.GET("/post/:id", postHandler.Detail)
		authorized.GET("/post/:id/delete", postHandler.Delete)

		authorized.GET("/follow/:username", followHandler.Follow)
		authorized.GET("/unfollow/:username", followHandler.Unfollow)

		authorized.GET("/search", searchHandler.Search)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(cors.Default())
	api.Use(middleware.AuthRequired())
	{
		api.POST("/post/:id/like", postHandler.ToggleLike)
		api.POST("/post/:id/comment", postHandler.AddComment)
		api.GET("/feed", feedHandler.APIFeed)
	}
}

// LoadTemplates assembles the base layout with each view, in the
// multitemplate style. Shared by main and the handler tests.
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, filepath.Join(templatesDir, "views", view))
		return files
	}

	funcMap := template.FuncMap{
		"formatDate": func(t interface{}) string {
			type formatter interface{ Format(string) string }
			if v, ok := t.(formatter); ok {
				return v.Format("Jan 02, 2006 03:04 PM")
			}
			return ""
		},
		"add": func(a, b int) int {
			return a + b
		},
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
	}

	views := []string{
		"home.html",
		"index.html",
		"auth/login.html",
		"auth/register.html",
		"user/profile.html",
		"user/update.html",
		"post/create.html",
		"post/detail.html",
		"search.html",
		"error.html",
	}
	for _, view := range views {
		r.AddFromFilesFuncs(view, funcMap, assemble(view)...)
	}

	return r
}
