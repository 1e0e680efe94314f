package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/smarttutor-backend/internal/data/repos/learning"
	"github.com/yungbote/smarttutor-backend/internal/data/repos/user"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserSessionRepo = user.UserSessionRepo

type CourseRepo = learning.CourseRepo
type LessonRepo = learning.LessonRepo
type QuizRepo = learning.QuizRepo
type UserProgressRepo = learning.UserProgressRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}
func NewUserSessionRepo(db *gorm.DB, baseLog *logger.Logger) UserSessionRepo {
	return user.NewUserSessionRepo(db, baseLog)
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return learning.NewQuizRepo(db, baseLog)
}
func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return learning.NewUserProgressRepo(db, baseLog)
}
