package config

import (
	"os"
	"strconv"
)

// Config holds environment driven configuration values. Sensitive values
// (session secret, database credentials) must come from the environment or a
// .env file loaded before Load is called.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string

	TemplateDir string
	StaticDir   string
	UploadDir   string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	RateLimitPerMinute int
}

// Load reads configuration from environment variables, applying local-dev
// defaults for everything except the session secret.
func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=bantu port=5432 sslmode=disable"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-secret-key-change-in-production"),

		TemplateDir: getEnv("TEMPLATE_DIR", "./web/templates"),
		StaticDir:   getEnv("STATIC_DIR", "./static"),
		UploadDir:   getEnv("UPLOAD_DIR", "./static/uploads"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
