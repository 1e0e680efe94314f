package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/smarttutor-backend/internal/content"
	"github.com/yungbote/smarttutor-backend/internal/data/repos"
	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

var ErrEmptyTopic = errors.New("topic is required")

// ContentBuilder is the part of content.Pipeline the services use.
type ContentBuilder interface {
	Build(ctx context.Context, topic, language, mode string) (*content.Material, error)
	Quiz(ctx context.Context, lesson api.Lesson) []quiz.Question
}

type CourseService interface {
	Create(ctx context.Context, req api.CreateCourseRequest) (*api.Course, error)
	ListMine(ctx context.Context) ([]api.Course, error)
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	userRepo   repos.UserRepo
	content    ContentBuilder
}

func NewCourseService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	userRepo repos.UserRepo,
	builder ContentBuilder,
) CourseService {
	return &courseService{
		db:         db,
		log:        log.With("service", "CourseService"),
		courseRepo: courseRepo,
		userRepo:   userRepo,
		content:    builder,
	}
}

func (cs *courseService) Create(ctx context.Context, req api.CreateCourseRequest) (*api.Course, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, apierr.BadRequest("validation_error", ErrEmptyTopic)
	}
	mode := req.Mode
	if mode == "" {
		mode = api.ModeMixed
	}

	material, err := cs.content.Build(ctx, topic, req.Language, mode)
	if errors.Is(err, content.ErrNoVideos) {
		return nil, apierr.NotFound("no_videos", err)
	}
	if err != nil {
		cs.log.Error("Course content build failed", "topic", topic, "error", err)
		return nil, apierr.New(http.StatusBadGateway, "content_unavailable", err)
	}

	videos, err := jsonColumn(material.Videos)
	if err != nil {
		return nil, fmt.Errorf("encode videos: %w", err)
	}
	course := &types.Course{
		ID:       uuid.New(),
		UserID:   userID,
		Topic:    topic,
		Language: req.Language,
		Mode:     mode,
		Videos:   videos,
	}
	for _, l := range material.Lessons {
		course.Lessons = append(course.Lessons, &types.Lesson{
			ID:       uuid.New(),
			CourseID: course.ID,
			Order:    l.Order,
			Title:    l.Title,
			Content:  l.Content,
			VideoID:  l.VideoID,
		})
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.courseRepo.Create(ctx, tx, []*types.Course{course}); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		return cs.enroll(ctx, tx, userID, course.ID)
	})
	if err != nil {
		return nil, err
	}

	cs.log.Info("Course created", "course_id", course.ID, "user_id", userID, "lessons", len(course.Lessons))
	out := toAPICourse(cs.log, course)
	return &out, nil
}

func (cs *courseService) enroll(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) error {
	users, err := cs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	var enrolled []uuid.UUID
	if err := decodeColumn(users[0].CoursesEnrolled, &enrolled); err != nil {
		return fmt.Errorf("decode enrolled courses: %w", err)
	}
	for _, id := range enrolled {
		if id == courseID {
			return nil
		}
	}
	col, err := jsonColumn(append(enrolled, courseID))
	if err != nil {
		return err
	}
	return cs.userRepo.UpdateCoursesEnrolled(ctx, tx, userID, col)
}

func (cs *courseService) ListMine(ctx context.Context) ([]api.Course, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	rows, err := cs.courseRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return toAPICourses(cs.log, rows), nil
}
