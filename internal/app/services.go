package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/smarttutor-backend/internal/content"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
	"github.com/yungbote/smarttutor-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Course    services.CourseService
	Quiz      services.QuizService
	Progress  services.ProgressService
	Dashboard services.DashboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	pipeline := content.NewPipeline(log, clients.Videos, content.PlaceholderTranscripts{}, clients.Generator, cfg.RequireVideos)
	return Services{
		Auth: services.NewAuthService(db, log, reposet.User, reposet.UserSession, clients.SessionCache, services.AuthConfig{
			JWTSecret:       cfg.JWTSecretKey,
			SessionTTL:      cfg.SessionTTL,
			OAuthSessionURL: cfg.OAuthSessionURL,
		}),
		Course:    services.NewCourseService(db, log, reposet.Course, reposet.User, pipeline),
		Quiz:      services.NewQuizService(log, reposet.Lesson, reposet.Course, reposet.Quiz, pipeline),
		Progress:  services.NewProgressService(log, reposet.Course, reposet.Progress),
		Dashboard: services.NewDashboardService(log, reposet.User, reposet.Course, reposet.Progress),
	}
}
