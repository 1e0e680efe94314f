package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/smarttutor-backend/internal/content"
	"github.com/yungbote/smarttutor-backend/internal/data/repos"
	"github.com/yungbote/smarttutor-backend/internal/data/repos/testutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
)

type testEnv struct {
	db        *gorm.DB
	users     repos.UserRepo
	sessions  repos.UserSessionRepo
	courses   repos.CourseRepo
	quizzes   repos.QuizRepo
	progress  repos.UserProgressRepo
	auth      AuthService
	course    CourseService
	quiz      QuizService
	progressS ProgressService
	dashboard DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	env := &testEnv{
		db:       db,
		users:    repos.NewUserRepo(db, log),
		sessions: repos.NewUserSessionRepo(db, log),
		courses:  repos.NewCourseRepo(db, log),
		quizzes:  repos.NewQuizRepo(db, log),
		progress: repos.NewUserProgressRepo(db, log),
	}
	pipeline := content.NewPipeline(log, nil, nil, content.TemplateGenerator{}, false)
	env.auth = NewAuthService(db, log, env.users, env.sessions, nil, AuthConfig{JWTSecret: "test-secret"})
	env.course = NewCourseService(db, log, env.courses, env.users, pipeline)
	env.quiz = NewQuizService(log, repos.NewLessonRepo(db, log), env.courses, env.quizzes, pipeline)
	env.progressS = NewProgressService(log, env.courses, env.progress)
	env.dashboard = NewDashboardService(log, env.users, env.courses, env.progress)
	return env
}

func asUser(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func wantAPIErr(t *testing.T, err error, status int, code string) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("err=%v want *apierr.Error", err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("api error status=%d code=%q want %d %q", ae.Status, ae.Code, status, code)
	}
}
