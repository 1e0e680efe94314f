package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProgress is the per-learner, per-course progress record. Every push
// replaces the whole row.
type UserProgress struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"course_id"`
	Topic    string    `gorm:"column:topic" json:"topic"`
	Language string    `gorm:"column:language" json:"language"`
	Mode     string    `gorm:"column:mode" json:"mode"`

	LessonsCompleted datatypes.JSON `gorm:"column:lessons_completed" json:"lessons_completed"`
	Notes            datatypes.JSON `gorm:"column:notes" json:"notes"`
	QuizScores       datatypes.JSON `gorm:"column:quiz_scores" json:"quiz_scores"`
	// Writer and revision of the last applied push. Revision is 0 when the
	// writer sent none.
	ClientID uuid.UUID `gorm:"type:uuid;column:client_id" json:"client_id"`
	Revision int64     `gorm:"column:revision;not null;default:0" json:"revision"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }
