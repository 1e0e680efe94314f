package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/progress"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
)

// studyLoop drives one course until the learner quits or input ends.
type studyLoop struct {
	p       printer
	in      *bufio.Scanner
	tracker *progress.Tracker
	course  api.Course
}

const studyHelp = `commands:
  lessons              list lessons
  read N               show lesson N
  done N [notes...]    mark lesson N complete
  quiz N               take the quiz for lesson N
  progress             show completion
  quit`

func (s *studyLoop) run(ctx context.Context) error {
	s.p.heading("%s (%s, %s)", s.course.Topic, s.course.Language, s.course.Mode)
	s.printLessons()
	s.p.line("%s", studyHelp)
	for {
		s.p.prompt("> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "lessons", "ls":
			s.printLessons()
		case "read":
			if l, ok := s.lessonArg(args); ok {
				s.p.heading("%d. %s", l.Order, l.Title)
				s.p.line("%s", l.Content)
				if l.VideoID != "" {
					s.p.line("video: https://www.youtube.com/watch?v=%s", l.VideoID)
				}
			}
		case "done":
			if l, ok := s.lessonArg(args); ok {
				if err := s.tracker.CompleteLesson(l.ID, strings.Join(args[1:], " ")); err != nil {
					s.p.line("error: %v", err)
				}
			}
		case "quiz":
			if l, ok := s.lessonArg(args); ok {
				s.takeQuiz(ctx, l)
			}
		case "progress":
			s.p.line("%.0f%% complete", s.tracker.ProgressPercentage())
		case "quit", "exit", "q":
			return nil
		default:
			s.p.line("%s", studyHelp)
		}
	}
}

func (s *studyLoop) printLessons() {
	snap := s.tracker.Snapshot()
	for _, l := range s.tracker.Lessons() {
		mark := " "
		if s.tracker.IsCompleted(l.ID) {
			mark = "x"
		}
		extra := ""
		if score, ok := snap.Scores[l.ID]; ok {
			extra = fmt.Sprintf("  quiz %d%%", score)
		}
		s.p.line("[%s] %d. %s%s", mark, l.Order, l.Title, extra)
	}
}

func (s *studyLoop) lessonArg(args []string) (api.Lesson, bool) {
	lessons := s.tracker.Lessons()
	if len(args) == 0 {
		s.p.line("which lesson? (1-%d)", len(lessons))
		return api.Lesson{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(lessons) {
		s.p.line("no lesson %q", args[0])
		return api.Lesson{}, false
	}
	return lessons[n-1], true
}

func (s *studyLoop) takeQuiz(ctx context.Context, l api.Lesson) {
	engine, err := s.tracker.RequestQuiz(ctx, l.ID)
	if err != nil {
		s.p.line("could not load quiz: %v", err)
		return
	}
	score, err := answerQuiz(s.p, s.in, engine)
	if err != nil {
		s.p.line("quiz abandoned: %v", err)
		return
	}
	s.p.heading("Score: %d%%", score)
	if _, err := s.tracker.FinishQuiz(); err != nil {
		s.p.line("error: %v", err)
	}
}

var errInputClosed = errors.New("input closed")

// answerQuiz walks the engine until it is submitted. "<" goes back one
// question.
func answerQuiz(p printer, in *bufio.Scanner, e *quiz.Engine) (int, error) {
	for {
		i := e.Current()
		q, err := e.Question(i)
		if err != nil {
			return 0, err
		}
		p.heading("Question %d/%d: %s", i+1, e.Len(), q.Prompt)
		for j, opt := range q.Options {
			p.line("  %d) %s", j+1, opt)
		}
		if q.Type == quiz.TypeTrueFalse {
			p.line("  t/f")
		}
		if prev, ok := e.AnswerAt(i); ok {
			p.line("  current answer: %s", prev)
		}
		p.prompt("answer> ")
		if !in.Scan() {
			return 0, errInputClosed
		}
		line := strings.TrimSpace(in.Text())
		if line == "<" {
			if err := e.Previous(); err != nil {
				p.line("%v", err)
			}
			continue
		}
		// an empty line keeps the recorded answer
		if line != "" || !e.Answered(i) {
			ans, err := ParseAnswer(q, line)
			if err != nil {
				p.line("%v", err)
				continue
			}
			if err := e.Answer(i, ans); err != nil {
				p.line("%v", err)
				continue
			}
		}
		if !e.IsLast() {
			if err := e.Next(); err != nil {
				p.line("%v", err)
			}
			continue
		}
		score, err := e.Submit()
		if err != nil {
			p.line("%v", err)
			continue
		}
		return score, nil
	}
}

func restoredRecord(stored *api.Progress) []progress.Option {
	if stored == nil {
		return nil
	}
	return []progress.Option{progress.WithRecord(progress.RecordFromProgress(*stored))}
}

func findCourse(courses []api.Course, ref string) (api.Course, bool) {
	if id, err := uuid.Parse(ref); err == nil {
		for _, c := range courses {
			if c.ID == id {
				return c, true
			}
		}
		return api.Course{}, false
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > len(courses) {
		return api.Course{}, false
	}
	return courses[n-1], true
}
