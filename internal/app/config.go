package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/smarttutor-backend/internal/platform/envutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env         string
	ServiceName string
	Version     string
	Addr        string

	DBDriver   string
	SQLitePath string

	JWTSecretKey    string
	SessionTTL      time.Duration
	OAuthSessionURL string
	CookieSecure    bool
	CookieDomain    string

	AllowedOrigins []string
	RequestTimeout time.Duration

	YouTubeAPIKey  string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiTimeout  time.Duration
	RequireVideos  bool
	SessionCleanup time.Duration
}

// LoadDotEnv reads .env files when present. Existing variables win.
func LoadDotEnv(log *logger.Logger, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Debug("No env file loaded", "file", f, "error", err)
		}
	}
}

func LoadConfig(log *logger.Logger) Config {
	youtubeKey := envutil.String("YOUTUBE_API_KEY", "", log)
	return Config{
		Env:         envutil.String("APP_ENV", "development", log),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "smarttutor-api", log),
		Version:     envutil.String("APP_VERSION", "dev", log),
		Addr:        ":" + envutil.String("PORT", "8080", log),

		DBDriver:   strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres, log)),
		SQLitePath: envutil.String("SQLITE_PATH", "smarttutor.db", log),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		SessionTTL:      envutil.Duration("SESSION_TTL", 7*24*time.Hour, log),
		OAuthSessionURL: envutil.String("OAUTH_SESSION_URL", "", log),
		CookieSecure:    envutil.Bool("COOKIE_SECURE", false, log),
		CookieDomain:    envutil.String("COOKIE_DOMAIN", "", log),

		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		RequestTimeout: envutil.Duration("REQUEST_TIMEOUT", 2*time.Minute, log),

		YouTubeAPIKey:  youtubeKey,
		GeminiAPIKey:   envutil.String("GEMINI_API_KEY", "", log),
		GeminiModel:    envutil.String("GEMINI_MODEL", "", log),
		GeminiTimeout:  envutil.Duration("GEMINI_TIMEOUT", 60*time.Second, log),
		RequireVideos:  envutil.Bool("REQUIRE_VIDEOS", youtubeKey != "", log),
		SessionCleanup: envutil.Duration("SESSION_CLEANUP_INTERVAL", time.Hour, log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
