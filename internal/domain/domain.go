package domain

import (
	"github.com/yungbote/smarttutor-backend/internal/domain/learning"
	"github.com/yungbote/smarttutor-backend/internal/domain/user"
)

type User = user.User
type UserSession = user.UserSession

type Course = learning.Course
type Lesson = learning.Lesson
type Quiz = learning.Quiz
type UserProgress = learning.UserProgress

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&UserSession{},
		&Course{},
		&Lesson{},
		&Quiz{},
		&UserProgress{},
	}
}
