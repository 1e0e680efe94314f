package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email   string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name    string    `gorm:"not null;column:name" json:"name"`
	Picture string    `gorm:"column:picture" json:"picture"`

	// Empty for accounts created through the OAuth session exchange.
	PasswordHash string `gorm:"column:password_hash" json:"-"`

	CoursesEnrolled datatypes.JSON `gorm:"column:courses_enrolled" json:"courses_enrolled"`
	Badges          datatypes.JSON `gorm:"column:badges" json:"badges"`
	StreakCount     int            `gorm:"column:streak_count;not null;default:0" json:"streak_count"`
	LastLogin       *time.Time     `gorm:"column:last_login" json:"last_login,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
