package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/data/repos"
	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrInvalidScore     = errors.New("quiz score must be between 0 and 100")
	ErrProgressNotFound = errors.New("no progress stored for course")
)

type ProgressService interface {
	// Save upserts the caller's record for payload.CourseID. applied is false
	// when the stored record came from the same client with a newer revision.
	Save(ctx context.Context, payload api.ProgressPayload) (applied bool, err error)
	List(ctx context.Context) ([]api.Progress, error)
	ForCourse(ctx context.Context, courseID uuid.UUID) (*api.Progress, error)
}

type progressService struct {
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	progressRepo repos.UserProgressRepo
}

func NewProgressService(log *logger.Logger, courseRepo repos.CourseRepo, progressRepo repos.UserProgressRepo) ProgressService {
	return &progressService{
		log:          log.With("service", "ProgressService"),
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
	}
}

func (ps *progressService) Save(ctx context.Context, payload api.ProgressPayload) (bool, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return false, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	if payload.CourseID == uuid.Nil {
		return false, apierr.BadRequest("validation_error", fmt.Errorf("course_id is required"))
	}
	for lessonID, score := range payload.QuizScores {
		if score < 0 || score > 100 {
			return false, apierr.BadRequest("invalid_score", fmt.Errorf("%w: lesson %s has %d", ErrInvalidScore, lessonID, score))
		}
	}

	courses, err := ps.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{payload.CourseID})
	if err != nil {
		return false, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 || courses[0].UserID != userID {
		return false, apierr.NotFound("course_not_found", ErrCourseNotFound)
	}

	completed := dedupeIDs(payload.LessonsCompleted)
	notes := payload.Notes
	if notes == nil {
		notes = map[uuid.UUID]string{}
	}
	scores := payload.QuizScores
	if scores == nil {
		scores = map[uuid.UUID]int{}
	}

	// Without a writer identity a revision cannot be ordered against anything.
	revision := payload.Revision
	if payload.ClientID == uuid.Nil {
		revision = 0
	}
	row := &types.UserProgress{
		UserID:   userID,
		CourseID: payload.CourseID,
		Topic:    payload.Topic,
		Language: payload.Language,
		Mode:     payload.Mode,
		ClientID: payload.ClientID,
		Revision: revision,
	}
	if row.LessonsCompleted, err = jsonColumn(completed); err != nil {
		return false, err
	}
	if row.Notes, err = jsonColumn(notes); err != nil {
		return false, err
	}
	if row.QuizScores, err = jsonColumn(scores); err != nil {
		return false, err
	}

	applied, err := ps.progressRepo.Upsert(ctx, nil, row)
	if err != nil {
		return false, fmt.Errorf("save progress: %w", err)
	}
	if !applied {
		ps.log.Info("Ignored out-of-order progress push",
			"user_id", userID,
			"course_id", payload.CourseID,
			"client_id", payload.ClientID,
			"revision", payload.Revision,
		)
	}
	return applied, nil
}

func (ps *progressService) List(ctx context.Context) ([]api.Progress, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	rows, err := ps.progressRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return toAPIProgressList(ps.log, rows), nil
}

func (ps *progressService) ForCourse(ctx context.Context, courseID uuid.UUID) (*api.Progress, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	row, err := ps.progressRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("progress_not_found", ErrProgressNotFound)
	}
	out := toAPIProgress(ps.log, row)
	return &out, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
