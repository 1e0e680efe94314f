package app

import (
	httpH "github.com/yungbote/smarttutor-backend/internal/http/handlers"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type Handlers struct {
	Auth      *httpH.AuthHandler
	Course    *httpH.CourseHandler
	Quiz      *httpH.QuizHandler
	Progress  *httpH.ProgressHandler
	Dashboard *httpH.DashboardHandler
	Health    *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      httpH.NewAuthHandler(log, serviceset.Auth, httpH.CookieConfig{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain}),
		Course:    httpH.NewCourseHandler(log, serviceset.Course),
		Quiz:      httpH.NewQuizHandler(log, serviceset.Quiz),
		Progress:  httpH.NewProgressHandler(log, serviceset.Progress),
		Dashboard: httpH.NewDashboardHandler(serviceset.Dashboard),
		Health:    httpH.NewHealthHandler(),
	}
}
