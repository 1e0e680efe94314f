package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "YOUTUBE_API_KEY", "REQUIRE_VIDEOS", "SESSION_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())

	if cfg.Addr != ":8080" || cfg.DBDriver != DriverPostgres {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("session ttl=%s", cfg.SessionTTL)
	}
	if cfg.RequireVideos {
		t.Fatalf("videos required without a YouTube key")
	}
	if cfg.AllowedOrigins != nil {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("YOUTUBE_API_KEY", "yt")
	t.Setenv("SESSION_TTL", "3600")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg := LoadConfig(logger.Nop())
	if cfg.Addr != ":9000" || cfg.DBDriver != DriverSQLite || !cfg.RequireVideos {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("session ttl=%s", cfg.SessionTTL)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("origins=%v want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SMARTTUTOR_DOTENV_A=file\nSMARTTUTOR_DOTENV_B=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SMARTTUTOR_DOTENV_A", "env")
	t.Setenv("SMARTTUTOR_DOTENV_B", "")
	os.Unsetenv("SMARTTUTOR_DOTENV_B")

	LoadDotEnv(logger.Nop(), path)
	if got := os.Getenv("SMARTTUTOR_DOTENV_A"); got != "env" {
		t.Fatalf("A=%q want env", got)
	}
	if got := os.Getenv("SMARTTUTOR_DOTENV_B"); got != "file" {
		t.Fatalf("B=%q want file", got)
	}
}
