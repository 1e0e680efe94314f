package app

import (
	"context"
	"fmt"

	"github.com/yungbote/smarttutor-backend/internal/clients/redis"
	"github.com/yungbote/smarttutor-backend/internal/content"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type Clients struct {
	SessionCache redis.SessionCache
	Videos       content.VideoSource
	Generator    content.Generator
}

// wireClients falls back to offline stand-ins for every backend that has no
// credentials: no cache, no video search, templated lessons.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	cache, err := redis.NewSessionCache(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis session cache: %w", err)
	}

	var videos content.VideoSource
	if cfg.YouTubeAPIKey != "" {
		yt, err := content.NewYouTubeSource(ctx, log, cfg.YouTubeAPIKey)
		if err != nil {
			_ = cache.Close()
			return Clients{}, fmt.Errorf("init youtube: %w", err)
		}
		videos = yt
	} else {
		log.Warn("YOUTUBE_API_KEY not set; courses are created without videos")
	}

	var gen content.Generator = content.TemplateGenerator{}
	if cfg.GeminiAPIKey != "" {
		g, err := content.NewGeminiGenerator(content.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.GeminiTimeout,
		}, log)
		if err != nil {
			_ = cache.Close()
			return Clients{}, fmt.Errorf("init gemini: %w", err)
		}
		gen = g
	} else {
		log.Warn("GEMINI_API_KEY not set; using templated lessons and quizzes")
	}

	return Clients{SessionCache: cache, Videos: videos, Generator: gen}, nil
}
