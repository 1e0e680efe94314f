package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/data/repos"
	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

var ErrLessonNotFound = errors.New("lesson not found")

type QuizService interface {
	// ForLesson returns the quiz of a lesson owned by the current user,
	// generating and storing it on first request.
	ForLesson(ctx context.Context, lessonID uuid.UUID) (*api.Quiz, error)
}

type quizService struct {
	log        *logger.Logger
	lessonRepo repos.LessonRepo
	courseRepo repos.CourseRepo
	quizRepo   repos.QuizRepo
	content    ContentBuilder
}

func NewQuizService(
	log *logger.Logger,
	lessonRepo repos.LessonRepo,
	courseRepo repos.CourseRepo,
	quizRepo repos.QuizRepo,
	builder ContentBuilder,
) QuizService {
	return &quizService{
		log:        log.With("service", "QuizService"),
		lessonRepo: lessonRepo,
		courseRepo: courseRepo,
		quizRepo:   quizRepo,
		content:    builder,
	}
}

func (qs *quizService) ForLesson(ctx context.Context, lessonID uuid.UUID) (*api.Quiz, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}

	lessons, err := qs.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound("lesson_not_found", ErrLessonNotFound)
	}
	lesson := lessons[0]
	// Soft-deleted or foreign courses hide their lessons.
	courses, err := qs.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{lesson.CourseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 || courses[0].UserID != userID {
		return nil, apierr.NotFound("lesson_not_found", ErrLessonNotFound)
	}

	stored, err := qs.quizRepo.GetByLessonID(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if stored == nil {
		questions := qs.content.Quiz(ctx, toAPILesson(lesson))
		col, err := jsonColumn(questions)
		if err != nil {
			return nil, fmt.Errorf("encode quiz: %w", err)
		}
		stored, err = qs.quizRepo.CreateOrGet(ctx, nil, &types.Quiz{
			ID:        uuid.New(),
			LessonID:  lessonID,
			Questions: col,
		})
		if err != nil {
			return nil, fmt.Errorf("store quiz: %w", err)
		}
		qs.log.Info("Quiz generated", "lesson_id", lessonID, "questions", len(questions))
	}

	var questions []quiz.Question
	if err := json.Unmarshal(stored.Questions, &questions); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}
	return &api.Quiz{ID: stored.ID, LessonID: stored.LessonID, Questions: questions}, nil
}
