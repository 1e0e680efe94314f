package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Quiz stores the generated question list for a lesson so repeated fetches
// see the same answer key.
type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"lesson_id"`
	Lesson    *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Questions datatypes.JSON `gorm:"column:questions" json:"questions"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (Quiz) TableName() string { return "quiz" }
