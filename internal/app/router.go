package app

import (
	server "github.com/yungbote/smarttutor-backend/internal/http"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) server.RouterConfig {
	return server.RouterConfig{
		Log:              log,
		ServiceName:      cfg.ServiceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		RequestTimeout:   cfg.RequestTimeout,
		AuthMiddleware:   middleware.Auth,
		AuthHandler:      handlers.Auth,
		CourseHandler:    handlers.Course,
		QuizHandler:      handlers.Quiz,
		ProgressHandler:  handlers.Progress,
		DashboardHandler: handlers.Dashboard,
		HealthHandler:    handlers.Health,
	}
}
