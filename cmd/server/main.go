package main

import (
	"bantu/internal/config"
	"bantu/internal/db"
	"bantu/internal/router"
	"bantu/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, env vars may come from the system.
	_ = godotenv.Load()

	cfg := config.Load()

	if err := utils.InitLogger(utils.LogConfig{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	}); err != nil {
		panic(err)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		utils.Sugar.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		utils.Sugar.Fatalf("failed to migrate database: %v", err)
	}
	utils.Sugar.Info("database ready")

	r := gin.Default()

	// Sessions. The default cookie dies with the browser; a remembered
	// login extends its own session's MaxAge.
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 0, HttpOnly: true})
	r.Use(sessions.Sessions("bantu_session", store))

	// Templates and static assets (uploads are served from here too)
	r.HTMLRender = router.LoadTemplates(cfg.TemplateDir)
	r.Static("/static", cfg.StaticDir)
	r.MaxMultipartMemory = 16 << 20

	router.RegisterRoutes(r, database, cfg)

	utils.Sugar.Infof("bantu server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.Sugar.Fatalf("server stopped: %v", err)
	}
}
