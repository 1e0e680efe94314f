package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type UserSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.UserSession) ([]*types.UserSession, error)
	// GetActiveByToken returns nil, nil when the token is unknown or expired at now.
	GetActiveByToken(ctx context.Context, tx *gorm.DB, token string, now time.Time) (*types.UserSession, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserSession, error)
	DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error)
}

type userSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSessionRepo(db *gorm.DB, baseLog *logger.Logger) UserSessionRepo {
	repoLog := baseLog.With("repo", "UserSessionRepo")
	return &userSessionRepo{db: db, log: repoLog}
}

func (r *userSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.UserSession) ([]*types.UserSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessions) == 0 {
		return []*types.UserSession{}, nil
	}
	for _, s := range sessions {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *userSessionRepo) GetActiveByToken(ctx context.Context, tx *gorm.DB, token string, now time.Time) (*types.UserSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if token == "" {
		return nil, nil
	}

	var s types.UserSession
	err := transaction.WithContext(ctx).
		Where("session_token = ? AND expires_at > ?", token, now).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *userSessionRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserSession
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userSessionRepo) DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(userIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.UserSession{}).Error
}

func (r *userSessionRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("expires_at <= ?", before).
		Delete(&types.UserSession{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.log.Debug("Deleted expired sessions", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
