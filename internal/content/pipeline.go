package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

const transcriptVideos = 2

// Material is the generated body of a new course.
type Material struct {
	Videos  []api.Video
	Lessons []api.Lesson
}

type Pipeline struct {
	log         *logger.Logger
	videos      VideoSource
	transcripts TranscriptSource
	gen         Generator

	// requireVideos turns an empty search into ErrNoVideos.
	requireVideos bool
}

func NewPipeline(log *logger.Logger, videos VideoSource, transcripts TranscriptSource, gen Generator, requireVideos bool) *Pipeline {
	if transcripts == nil {
		transcripts = PlaceholderTranscripts{}
	}
	if gen == nil {
		gen = TemplateGenerator{}
	}
	return &Pipeline{
		log:           log.With("service", "ContentPipeline"),
		videos:        videos,
		transcripts:   transcripts,
		gen:           gen,
		requireVideos: requireVideos,
	}
}

// Build searches videos, reads transcripts of the best ones in parallel and
// generates the lessons.
func (p *Pipeline) Build(ctx context.Context, topic, language, mode string) (*Material, error) {
	var videos []api.Video
	if p.videos != nil {
		v, err := p.videos.Search(ctx, topic, language)
		if err != nil {
			return nil, fmt.Errorf("search videos: %w", err)
		}
		videos = v
	}
	if len(videos) == 0 && p.requireVideos {
		return nil, ErrNoVideos
	}
	if videos == nil {
		videos = []api.Video{}
	}

	n := transcriptVideos
	if len(videos) < n {
		n = len(videos)
	}
	texts := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			t, err := p.transcripts.Transcript(gctx, videos[i].VideoID)
			if err != nil {
				p.log.Warn("Transcript unavailable", "video_id", videos[i].VideoID, "error", err)
				return nil
			}
			texts[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	transcript := joinNonEmpty(texts)
	if transcript == "" {
		transcript = fmt.Sprintf("Default content for %s", topic)
	}

	lessons, err := p.gen.Lessons(ctx, LessonRequest{
		Topic:      topic,
		Language:   language,
		Mode:       mode,
		Transcript: transcript,
	})
	if err != nil {
		return nil, fmt.Errorf("generate lessons: %w", err)
	}
	if len(lessons) == 0 {
		return nil, fmt.Errorf("generate lessons: %w", ErrMalformedOutput)
	}
	for i := range lessons {
		if lessons[i].Order == 0 {
			lessons[i].Order = i + 1
		}
	}
	return &Material{Videos: videos, Lessons: lessons}, nil
}

// Quiz generates questions for lesson and falls back to DefaultQuiz on any
// generator failure, so callers always get at least one question.
func (p *Pipeline) Quiz(ctx context.Context, lesson api.Lesson) []quiz.Question {
	qs, err := p.gen.Quiz(ctx, lesson)
	if err == nil {
		qs = ValidQuestions(qs)
		if len(qs) > 0 {
			return qs
		}
		err = ErrMalformedOutput
	}
	if errors.Is(err, context.Canceled) {
		p.log.Debug("Quiz generation canceled", "lesson_id", lesson.ID)
	} else {
		p.log.Warn("Quiz generation failed; serving default quiz", "lesson_id", lesson.ID, "error", err)
	}
	return DefaultQuiz(lesson.Title)
}

func joinNonEmpty(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
