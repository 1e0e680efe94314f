package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/smarttutor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/smarttutor-backend/internal/http/middleware"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	RequestTimeout time.Duration

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler      *httpH.AuthHandler
	CourseHandler    *httpH.CourseHandler
	QuizHandler      *httpH.QuizHandler
	ProgressHandler  *httpH.ProgressHandler
	DashboardHandler *httpH.DashboardHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/", cfg.HealthHandler.Root)
		}
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/signup", cfg.AuthHandler.Signup)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.GET("/auth/session-data", cfg.AuthHandler.SessionData)
		}
	}

	protected := api.Group("")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
			protected.GET("/auth/me", cfg.AuthHandler.Me)
		}

		// Courses
		if cfg.CourseHandler != nil {
			protected.POST("/create-course", cfg.CourseHandler.Create)
			protected.GET("/my-courses", cfg.CourseHandler.ListMine)
		}

		// Quiz
		if cfg.QuizHandler != nil {
			protected.GET("/quiz/:lesson_id", cfg.QuizHandler.ForLesson)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.POST("/progress", cfg.ProgressHandler.Save)
			protected.GET("/progress", cfg.ProgressHandler.List)
			protected.GET("/progress/:course_id", cfg.ProgressHandler.ForCourse)
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.Get)
		}
	}

	return r
}
