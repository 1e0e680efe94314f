package learning

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type QuizRepo interface {
	// CreateOrGet stores q unless a quiz already exists for its lesson, and
	// returns whichever row is stored.
	CreateOrGet(ctx context.Context, tx *gorm.DB, q *types.Quiz) (*types.Quiz, error)
	GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Quiz, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	repoLog := baseLog.With("repo", "QuizRepo")
	return &quizRepo{db: db, log: repoLog}
}

func (r *quizRepo) CreateOrGet(ctx context.Context, tx *gorm.DB, q *types.Quiz) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if q == nil {
		return nil, errors.New("quiz is nil")
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(q)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return q, nil
	}

	r.log.Debug("Quiz already stored for lesson", "lesson_id", q.LessonID)
	return r.GetByLessonID(ctx, transaction, q.LessonID)
}

func (r *quizRepo) GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var q types.Quiz
	err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}
