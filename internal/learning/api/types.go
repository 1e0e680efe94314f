// Package api holds the JSON contract shared by the backend handlers and the
// learner client.
package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
)

// Course modes; they decide how many lessons are generated.
const (
	ModeQuick    = "Quick"
	ModeDetailed = "Detailed"
	ModeMixed    = "Mixed"
)

type Lesson struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	VideoID string    `json:"video_id,omitempty"`
	Order   int       `json:"order"`
}

type Video struct {
	VideoID         string  `json:"video_id"`
	Title           string  `json:"title"`
	Duration        string  `json:"duration"`
	ViewCount       int64   `json:"view_count"`
	ChannelName     string  `json:"channel_name"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	EngagementScore float64 `json:"engagement_score"`
}

type Course struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	Language  string    `json:"language"`
	Mode      string    `json:"mode"`
	Lessons   []Lesson  `json:"lessons"`
	Videos    []Video   `json:"videos"`
	CreatedAt time.Time `json:"created_at"`
}

type Quiz struct {
	ID        uuid.UUID       `json:"id"`
	LessonID  uuid.UUID       `json:"lesson_id"`
	Questions []quiz.Question `json:"questions"`
}

// ProgressPayload is the full-state upsert pushed after every mutation.
// Revision orders pushes from one ClientID only; pushes from different
// clients are last write wins.
type ProgressPayload struct {
	CourseID         uuid.UUID            `json:"course_id" binding:"required"`
	Topic            string               `json:"topic"`
	Language         string               `json:"language"`
	Mode             string               `json:"mode"`
	LessonsCompleted []uuid.UUID          `json:"lessons_completed"`
	Notes            map[uuid.UUID]string `json:"notes"`
	QuizScores       map[uuid.UUID]int    `json:"quiz_scores"`
	Revision         int64                `json:"revision,omitempty"`
	ClientID         uuid.UUID            `json:"client_id"`
}

type Progress struct {
	ProgressPayload
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCourseRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Language string `json:"language" binding:"required"`
	Mode     string `json:"mode" binding:"required,oneof=Quick Detailed Mixed"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password"`
	Picture  string `json:"picture,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type User struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	Name            string      `json:"name"`
	Picture         string      `json:"picture,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	CoursesEnrolled []uuid.UUID `json:"courses_enrolled"`
	Badges          []string    `json:"badges"`
	StreakCount     int         `json:"streak_count"`
	LastLogin       *time.Time  `json:"last_login,omitempty"`
}

// Session is returned by every login flow; the same token is also set as the
// session cookie.
type Session struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture,omitempty"`
	SessionToken string    `json:"session_token"`
}

type Stats struct {
	TotalCourses     int     `json:"total_courses"`
	LessonsCompleted int     `json:"lessons_completed"`
	AverageQuizScore float64 `json:"average_quiz_score"`
	StreakCount      int     `json:"streak_count"`
}

type Dashboard struct {
	User          User       `json:"user"`
	Stats         Stats      `json:"stats"`
	RecentCourses []Course   `json:"recent_courses"`
	Progress      []Progress `json:"progress"`
}

type Message struct {
	Message string `json:"message"`
}
