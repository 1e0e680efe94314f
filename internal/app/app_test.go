package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestNewWithSQLite(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("SESSION_CLEANUP_INTERVAL", "0")

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	if a.Clients.Videos != nil {
		t.Fatalf("video source wired without a key")
	}

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck status=%d", rec.Code)
	}

	a.Start()
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	if _, _, err := openDB(nil, Config{DBDriver: "mysql"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
