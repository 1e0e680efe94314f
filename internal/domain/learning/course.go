package learning

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/smarttutor-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is a generated bundle of lessons and reference videos for a topic.
type Course struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User     *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Topic    string     `gorm:"column:topic;not null" json:"topic"`
	Language string     `gorm:"column:language;not null" json:"language"`
	Mode     string     `gorm:"column:mode;not null" json:"mode"`

	// Videos is the ranked []api.Video list; index 0 is the recommended one.
	Videos  datatypes.JSON `gorm:"column:videos" json:"videos"`
	Lessons []*Lesson      `gorm:"foreignKey:CourseID;references:ID" json:"lessons,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_lesson_course_order" json:"course_id"`
	Order    int       `gorm:"column:lesson_order;not null;uniqueIndex:idx_lesson_course_order" json:"order"`
	Title    string    `gorm:"column:title;not null" json:"title"`
	Content  string    `gorm:"column:content;type:text" json:"content"`
	VideoID  string    `gorm:"column:video_id" json:"video_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
