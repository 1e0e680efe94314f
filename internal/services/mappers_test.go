package services

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"

	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestCorruptColumnsKeepDefaultsAndWarn(t *testing.T) {
	courseID := uuid.New()
	cases := []struct {
		name    string
		user    types.User
		columns []string
	}{
		{
			name: "clean row",
			user: types.User{
				ID:              uuid.New(),
				CoursesEnrolled: datatypes.JSON(`["` + courseID.String() + `"]`),
				Badges:          datatypes.JSON(`["first"]`),
			},
		},
		{
			name: "corrupt badges",
			user: types.User{
				ID:              uuid.New(),
				CoursesEnrolled: datatypes.JSON(`["` + courseID.String() + `"]`),
				Badges:          datatypes.JSON(`{bad`),
			},
			columns: []string{"badges"},
		},
		{
			name: "both corrupt",
			user: types.User{
				ID:              uuid.New(),
				CoursesEnrolled: datatypes.JSON(`[1,`),
				Badges:          datatypes.JSON(`{bad`),
			},
			columns: []string{"courses_enrolled", "badges"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, logs := observedLogger()
			out := toAPIUser(log, &tc.user)
			if out.ID != tc.user.ID {
				t.Fatalf("id = %s, want %s", out.ID, tc.user.ID)
			}
			if out.Badges == nil || out.CoursesEnrolled == nil {
				t.Fatalf("defaults lost: %+v", out)
			}
			entries := logs.FilterMessage("Stored JSON column did not decode").All()
			if len(entries) != len(tc.columns) {
				t.Fatalf("warnings = %d, want %d", len(entries), len(tc.columns))
			}
			for i, e := range entries {
				fields := e.ContextMap()
				if fields["column"] != tc.columns[i] {
					t.Fatalf("warning %d column = %v, want %s", i, fields["column"], tc.columns[i])
				}
				if fields["error"] == nil {
					t.Fatalf("warning %d carries no error", i)
				}
			}
			if len(tc.columns) == 0 && (len(out.CoursesEnrolled) != 1 || len(out.Badges) != 1) {
				t.Fatalf("clean row decoded to %+v", out)
			}
		})
	}
}

func TestCorruptProgressColumnStillMaps(t *testing.T) {
	log, logs := observedLogger()
	lesson := uuid.New()
	p := &types.UserProgress{
		ID:               uuid.New(),
		CourseID:         uuid.New(),
		LessonsCompleted: datatypes.JSON(`["` + lesson.String() + `"]`),
		Notes:            datatypes.JSON(`{bad`),
		QuizScores:       datatypes.JSON(`{"` + lesson.String() + `":50}`),
	}
	out := toAPIProgress(log, p)
	if len(out.LessonsCompleted) != 1 || out.QuizScores[lesson] != 50 {
		t.Fatalf("valid columns lost: %+v", out)
	}
	if out.Notes == nil || len(out.Notes) != 0 {
		t.Fatalf("notes = %v, want empty map", out.Notes)
	}
	if n := logs.FilterField(zap.String("column", "notes")).Len(); n != 1 {
		t.Fatalf("notes warnings = %d, want 1", n)
	}
}
