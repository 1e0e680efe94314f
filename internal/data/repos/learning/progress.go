package learning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type UserProgressRepo interface {
	// Upsert replaces the (user, course) row with p. A push from the same
	// client as the stored row whose non-zero revision is older than the
	// stored one is skipped and applied is false. Other clients always win.
	Upsert(ctx context.Context, tx *gorm.DB, p *types.UserProgress) (applied bool, err error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.UserProgress, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (r *userProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, p *types.UserProgress) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if p == nil {
		return false, errors.New("progress is nil")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"topic",
				"language",
				"mode",
				"lessons_completed",
				"notes",
				"quiz_scores",
				"client_id",
				"revision",
				"updated_at",
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "excluded.revision = 0 OR user_progress.client_id IS NULL OR " +
					"user_progress.client_id <> excluded.client_id OR user_progress.revision <= excluded.revision"},
			}},
		}).
		Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Debug("Skipped stale progress push",
			"user_id", p.UserID,
			"course_id", p.CourseID,
			"client_id", p.ClientID,
			"revision", p.Revision,
		)
		return false, nil
	}
	return true, nil
}

func (r *userProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserProgress
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var p types.UserProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
