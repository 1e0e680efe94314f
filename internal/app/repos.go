package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/smarttutor-backend/internal/data/repos"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserSession repos.UserSessionRepo
	Course      repos.CourseRepo
	Lesson      repos.LessonRepo
	Quiz        repos.QuizRepo
	Progress    repos.UserProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserSession: repos.NewUserSessionRepo(db, log),
		Course:      repos.NewCourseRepo(db, log),
		Lesson:      repos.NewLessonRepo(db, log),
		Quiz:        repos.NewQuizRepo(db, log),
		Progress:    repos.NewUserProgressRepo(db, log),
	}
}
