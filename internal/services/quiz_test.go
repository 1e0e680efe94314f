package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
)

func TestQuizForLessonIsGeneratedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := signup(t, env, "quiz@example.com")

	course, err := env.course.Create(ctx, api.CreateCourseRequest{Topic: "Go", Language: "English", Mode: api.ModeQuick})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	lessonID := course.Lessons[0].ID

	first, err := env.quiz.ForLesson(ctx, lessonID)
	if err != nil {
		t.Fatalf("ForLesson: %v", err)
	}
	if first.LessonID != lessonID || len(first.Questions) == 0 {
		t.Fatalf("quiz=%+v", first)
	}

	second, err := env.quiz.ForLesson(ctx, lessonID)
	if err != nil {
		t.Fatalf("ForLesson(again): %v", err)
	}
	if second.ID != first.ID || len(second.Questions) != len(first.Questions) {
		t.Fatalf("second fetch returned a different quiz")
	}
	for i := range first.Questions {
		if first.Questions[i].Prompt != second.Questions[i].Prompt {
			t.Fatalf("question %d changed between fetches", i)
		}
	}
}

func TestQuizForLessonOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := signup(t, env, "owner@example.com")
	stranger := signup(t, env, "stranger@example.com")

	course, err := env.course.Create(owner, api.CreateCourseRequest{Topic: "Go", Language: "English", Mode: api.ModeQuick})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = env.quiz.ForLesson(stranger, course.Lessons[0].ID)
	wantAPIErr(t, err, http.StatusNotFound, "lesson_not_found")

	_, err = env.quiz.ForLesson(owner, uuid.New())
	wantAPIErr(t, err, http.StatusNotFound, "lesson_not_found")
}
