package cli

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/progress"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/learning/session"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

func TestParseAnswer(t *testing.T) {
	mcq := quiz.Question{Type: quiz.TypeMultipleChoice, Options: []string{"a", "b", "c"}}
	tf := quiz.Question{Type: quiz.TypeTrueFalse}
	fill := quiz.Question{Type: quiz.TypeFillBlank}

	cases := []struct {
		name    string
		q       quiz.Question
		line    string
		want    quiz.Answer
		wantErr bool
	}{
		{name: "mcq", q: mcq, line: "2", want: quiz.Choice(1)},
		{name: "mcq out of range", q: mcq, line: "4", wantErr: true},
		{name: "mcq not a number", q: mcq, line: "b", wantErr: true},
		{name: "true", q: tf, line: "T", want: quiz.TrueFalse(true)},
		{name: "no", q: tf, line: "no", want: quiz.TrueFalse(false)},
		{name: "tf garbage", q: tf, line: "maybe", wantErr: true},
		{name: "fill", q: fill, line: "  Paris ", want: quiz.FillIn("Paris")},
		{name: "empty", q: fill, line: "   ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAnswer(tc.q, tc.line)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("ParseAnswer(%q)=%s,%v want %s", tc.line, got, err, tc.want)
			}
		})
	}
}

func scanner(lines ...string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestAnswerQuiz(t *testing.T) {
	qs := []quiz.Question{
		{Type: quiz.TypeMultipleChoice, Prompt: "pick b", Options: []string{"a", "b"}, Correct: quiz.Choice(1)},
		{Type: quiz.TypeTrueFalse, Prompt: "sky is blue", Correct: quiz.TrueFalse(true)},
	}
	e, err := quiz.NewEngine(qs)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	// fix the first answer after going back, then keep it with an empty line
	in := scanner("1", "x", "<", "2", "<", "", "f")
	score, err := answerQuiz(newPrinter(&out, session.ThemeLight), in, e)
	if err != nil {
		t.Fatalf("answerQuiz: %v", err)
	}
	if score != 50 {
		t.Fatalf("score=%d want 50 (output:\n%s)", score, out.String())
	}
	if !strings.Contains(out.String(), "enter t or f") {
		t.Fatalf("invalid input not reported:\n%s", out.String())
	}
}

func TestAnswerQuizInputClosed(t *testing.T) {
	e, _ := quiz.NewEngine([]quiz.Question{{Type: quiz.TypeFillBlank, Prompt: "?", Correct: quiz.FillIn("x")}})
	var out bytes.Buffer
	if _, err := answerQuiz(newPrinter(&out, session.ThemeDark), bufio.NewScanner(strings.NewReader("")), e); err != errInputClosed {
		t.Fatalf("err=%v want errInputClosed", err)
	}
}

func TestAnswerQuizReportsBackOnSubmittedQuiz(t *testing.T) {
	e, _ := quiz.NewEngine([]quiz.Question{{Type: quiz.TypeFillBlank, Prompt: "?", Correct: quiz.FillIn("x")}})
	if err := e.Answer(0, quiz.FillIn("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Submit(); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if _, err := answerQuiz(newPrinter(&out, session.ThemeLight), scanner("<"), e); err != errInputClosed {
		t.Fatalf("err=%v want errInputClosed", err)
	}
	if !strings.Contains(out.String(), quiz.ErrCompleted.Error()) {
		t.Fatalf("going back on a submitted quiz not reported:\n%s", out.String())
	}
}

type stubBackend struct {
	mu     sync.Mutex
	quiz   api.Quiz
	pushes []api.ProgressPayload
}

func (b *stubBackend) FetchQuiz(context.Context, uuid.UUID) (*api.Quiz, error) {
	q := b.quiz
	return &q, nil
}

func (b *stubBackend) PushProgress(_ context.Context, p api.ProgressPayload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushes = append(b.pushes, p)
	return nil
}

func TestStudyLoop(t *testing.T) {
	course := api.Course{ID: uuid.New(), Topic: "Go", Language: "English", Mode: api.ModeQuick, Lessons: []api.Lesson{
		{ID: uuid.New(), Order: 2, Title: "Channels", Content: "chan"},
		{ID: uuid.New(), Order: 1, Title: "Goroutines", Content: "go func"},
	}}
	b := &stubBackend{quiz: api.Quiz{Questions: []quiz.Question{
		{Type: quiz.TypeTrueFalse, Prompt: "go is fun", Correct: quiz.TrueFalse(true)},
		{Type: quiz.TypeFillBlank, Prompt: "keyword", Correct: quiz.FillIn("go")},
	}}}
	var out bytes.Buffer
	p := newPrinter(&out, session.ThemeLight)
	tracker := progress.NewTracker(logger.Nop(), course, b, progress.WithClearDelay(0), progress.WithNotifier(printNotifier{p: p}))

	loop := &studyLoop{
		p:       p,
		in:      scanner("read 1", "done 1 good stuff", "done 9", "quiz 1", "t", "stop", "progress", "quit"),
		tracker: tracker,
		course:  course,
	}
	if err := loop.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	tracker.Wait()

	goroutines := course.Lessons[1].ID
	snap := tracker.Snapshot()
	if len(snap.Completed) != 1 || snap.Completed[0] != goroutines {
		t.Fatalf("completed=%v", snap.Completed)
	}
	if snap.Notes[goroutines] != "good stuff" || snap.Scores[goroutines] != 50 {
		t.Fatalf("notes=%v scores=%v", snap.Notes, snap.Scores)
	}
	text := out.String()
	for _, want := range []string{"go func", `no lesson "9"`, "Score: 50%", "50% complete"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunThemeAndUsage(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "session.yaml")
	var out bytes.Buffer
	ctx := context.Background()

	if code := Run(ctx, []string{"-config", cfg, "theme", "dark"}, strings.NewReader(""), &out, logger.Nop()); code != 0 {
		t.Fatalf("theme exit=%d output=%s", code, out.String())
	}
	s, err := session.Open(cfg)
	if err != nil || s.Theme() != session.ThemeDark {
		t.Fatalf("theme=%q err=%v", s.Theme(), err)
	}

	out.Reset()
	if code := Run(ctx, []string{"-config", cfg, "create"}, strings.NewReader(""), &out, logger.Nop()); code != 1 {
		t.Fatalf("create without topic exit=%d", code)
	}
	if !strings.Contains(out.String(), "topic is required") {
		t.Fatalf("output=%s", out.String())
	}

	if code := Run(ctx, []string{"-config", cfg}, strings.NewReader(""), &out, logger.Nop()); code != 2 {
		t.Fatalf("no command exit=%d", code)
	}
	if code := Run(ctx, []string{"-config", cfg, "dance"}, strings.NewReader(""), &out, logger.Nop()); code != 1 {
		t.Fatalf("unknown command exit=%d", code)
	}
}
