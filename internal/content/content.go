// Package content builds course material: video search, lesson generation
// and quiz generation. Every source sits behind a small interface so the
// backend can run fully offline.
package content

import (
	"context"
	"errors"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
)

var (
	ErrNoVideos        = errors.New("no suitable videos found")
	ErrNotConfigured   = errors.New("content source not configured")
	ErrMalformedOutput = errors.New("generator returned malformed output")
)

// VideoSource finds reference videos for a topic, best first.
type VideoSource interface {
	Search(ctx context.Context, topic, language string) ([]api.Video, error)
}

// TranscriptSource returns the spoken text of a video.
type TranscriptSource interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// LessonRequest is the input for one lesson generation run.
type LessonRequest struct {
	Topic      string
	Language   string
	Mode       string
	Transcript string
}

// Generator writes lessons and quizzes. Returned lessons carry Title,
// Content and Order; ids are assigned on storage.
type Generator interface {
	Lessons(ctx context.Context, req LessonRequest) ([]api.Lesson, error)
	Quiz(ctx context.Context, lesson api.Lesson) ([]quiz.Question, error)
}

// LessonCount is the number of lessons generated for a course mode.
func LessonCount(mode string) int {
	switch mode {
	case api.ModeQuick:
		return 3
	case api.ModeDetailed:
		return 6
	case api.ModeMixed:
		return 4
	default:
		return 4
	}
}
