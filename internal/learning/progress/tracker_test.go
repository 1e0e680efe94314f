package progress

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

type fakeBackend struct {
	mu      sync.Mutex
	quiz    *api.Quiz
	quizErr error
	pushErr error
	pushes  []api.ProgressPayload
}

func (b *fakeBackend) FetchQuiz(_ context.Context, lessonID uuid.UUID) (*api.Quiz, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.quizErr != nil {
		return nil, b.quizErr
	}
	q := *b.quiz
	q.LessonID = lessonID
	return &q, nil
}

func (b *fakeBackend) PushProgress(_ context.Context, p api.ProgressPayload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushes = append(b.pushes, p)
	return b.pushErr
}

// latest is the push with the highest revision, which the server keeps.
func (b *fakeBackend) latest(t *testing.T) api.ProgressPayload {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pushes) == 0 {
		t.Fatalf("no pushes")
	}
	ps := append([]api.ProgressPayload(nil), b.pushes...)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Revision < ps[j].Revision })
	return ps[len(ps)-1]
}

func (b *fakeBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pushes)
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
	scores   map[uuid.UUID]int
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, msg)
}

func (n *recordingNotifier) Error(msg string, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

func (n *recordingNotifier) Score(id uuid.UUID, score int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.scores == nil {
		n.scores = map[uuid.UUID]int{}
	}
	n.scores[id] = score
}

func testCourse(n int) api.Course {
	c := api.Course{ID: uuid.New(), Topic: "Go", Language: "English", Mode: api.ModeQuick}
	// reverse order so sorting is exercised
	for i := n; i >= 1; i-- {
		c.Lessons = append(c.Lessons, api.Lesson{ID: uuid.New(), Title: "Lesson", Order: i})
	}
	return c
}

func twoQuestionQuiz() *api.Quiz {
	return &api.Quiz{ID: uuid.New(), Questions: []quiz.Question{
		{Type: quiz.TypeTrueFalse, Prompt: "Go has goroutines", Correct: quiz.TrueFalse(true)},
		{Type: quiz.TypeMultipleChoice, Prompt: "Pick B", Options: []string{"A", "B"}, Correct: quiz.Choice(1)},
	}}
}

func newTracker(course api.Course, b Backend, opts ...Option) (*Tracker, *recordingNotifier) {
	n := &recordingNotifier{}
	opts = append([]Option{WithNotifier(n), WithClearDelay(time.Millisecond)}, opts...)
	return NewTracker(logger.Nop(), course, b, opts...), n
}

func TestLessonsSortedByOrder(t *testing.T) {
	tr, _ := newTracker(testCourse(4), &fakeBackend{})
	for i, l := range tr.Lessons() {
		if l.Order != i+1 {
			t.Fatalf("lesson %d has order %d", i, l.Order)
		}
	}
}

func TestCompleteLessonIdempotent(t *testing.T) {
	course := testCourse(3)
	b := &fakeBackend{}
	tr, n := newTracker(course, b)
	l1, l2 := tr.Lessons()[0].ID, tr.Lessons()[1].ID

	if err := tr.CompleteLesson(l1, "first"); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if err := tr.CompleteLesson(l1, ""); err != nil {
		t.Fatalf("CompleteLesson again: %v", err)
	}
	if err := tr.CompleteLesson(l2, "second"); err != nil {
		t.Fatalf("CompleteLesson l2: %v", err)
	}
	tr.Wait()

	snap := tr.Snapshot()
	if len(snap.Completed) != 2 || snap.Completed[0] != l1 || snap.Completed[1] != l2 {
		t.Fatalf("completed=%v", snap.Completed)
	}
	if snap.Notes[l1] != "first" {
		t.Fatalf("empty notes overwrote the stored note: %q", snap.Notes[l1])
	}
	if b.count() != 3 || len(n.success) != 3 {
		t.Fatalf("pushes=%d successes=%d want 3", b.count(), len(n.success))
	}
	if got := tr.ProgressPercentage(); got < 66.6 || got > 66.7 {
		t.Fatalf("percentage=%v", got)
	}
}

func TestCompleteLessonRejectsUnknownLesson(t *testing.T) {
	b := &fakeBackend{}
	tr, _ := newTracker(testCourse(2), b)

	if err := tr.CompleteLesson(uuid.New(), "x"); !errors.Is(err, ErrUnknownLesson) {
		t.Fatalf("err=%v want ErrUnknownLesson", err)
	}
	tr.Wait()
	if snap := tr.Snapshot(); len(snap.Completed) != 0 || len(snap.Notes) != 0 || b.count() != 0 {
		t.Fatalf("unknown lesson mutated state: %+v pushes=%d", snap, b.count())
	}
}

func TestCompletedSetIsMonotone(t *testing.T) {
	course := testCourse(5)
	tr, _ := newTracker(course, &fakeBackend{})
	rng := rand.New(rand.NewSource(7))

	prev := 0
	for i := 0; i < 50; i++ {
		id := course.Lessons[rng.Intn(len(course.Lessons))].ID
		if err := tr.CompleteLesson(id, ""); err != nil {
			t.Fatalf("CompleteLesson: %v", err)
		}
		size := len(tr.Snapshot().Completed)
		if size < prev || size > len(course.Lessons) {
			t.Fatalf("step %d: size %d (previous %d, lessons %d)", i, size, prev, len(course.Lessons))
		}
		prev = size
	}
	tr.Wait()
}

func TestProgressPercentage(t *testing.T) {
	empty, _ := newTracker(testCourse(0), &fakeBackend{})
	if got := empty.ProgressPercentage(); got != 0 {
		t.Fatalf("empty course percentage=%v", got)
	}

	tr, _ := newTracker(testCourse(4), &fakeBackend{})
	if err := tr.CompleteLesson(tr.Lessons()[2].ID, ""); err != nil {
		t.Fatal(err)
	}
	tr.Wait()
	if got := tr.ProgressPercentage(); got != 25 {
		t.Fatalf("percentage=%v want 25", got)
	}
}

func TestRequestQuizFailureLeavesStateUnchanged(t *testing.T) {
	cases := []struct {
		name    string
		backend *fakeBackend
	}{
		{"fetch error", &fakeBackend{quizErr: errors.New("503")}},
		{"empty quiz", &fakeBackend{quiz: &api.Quiz{ID: uuid.New()}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, n := newTracker(testCourse(2), tc.backend)
			if _, err := tr.RequestQuiz(context.Background(), tr.Lessons()[0].ID); err == nil {
				t.Fatalf("expected error")
			}
			if _, _, ok := tr.ActiveQuiz(); ok {
				t.Fatalf("quiz became active after a failed fetch")
			}
			if len(n.failures) != 1 {
				t.Fatalf("failure notifications=%d want 1", len(n.failures))
			}
		})
	}
}

func TestRecordQuizScore(t *testing.T) {
	b := &fakeBackend{quiz: twoQuestionQuiz()}
	tr, n := newTracker(testCourse(2), b, WithClearDelay(time.Hour))
	l1 := tr.Lessons()[0].ID

	if err := tr.RecordQuizScore(l1, 101); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("err=%v want ErrInvalidScore", err)
	}
	if err := tr.RecordQuizScore(uuid.New(), 50); !errors.Is(err, ErrUnknownLesson) {
		t.Fatalf("err=%v want ErrUnknownLesson", err)
	}

	if _, err := tr.RequestQuiz(context.Background(), l1); err != nil {
		t.Fatalf("RequestQuiz: %v", err)
	}
	if err := tr.RecordQuizScore(l1, 40); err != nil {
		t.Fatalf("RecordQuizScore: %v", err)
	}
	if err := tr.RecordQuizScore(l1, 80); err != nil {
		t.Fatalf("RecordQuizScore overwrite: %v", err)
	}
	if _, _, ok := tr.ActiveQuiz(); !ok {
		t.Fatalf("quiz cleared before the delay")
	}
	if got := tr.Snapshot().Scores[l1]; got != 80 {
		t.Fatalf("score=%d want 80", got)
	}
	if n.scores[l1] != 80 {
		t.Fatalf("score notification=%v", n.scores)
	}

	// A new quiz cancels the pending clear so Wait does not block on it.
	if _, err := tr.RequestQuiz(context.Background(), l1); err != nil {
		t.Fatalf("RequestQuiz: %v", err)
	}
	tr.Wait()
	if _, _, ok := tr.ActiveQuiz(); !ok {
		t.Fatalf("new quiz was cleared")
	}
}

func TestActiveQuizClearedAfterDelay(t *testing.T) {
	b := &fakeBackend{quiz: twoQuestionQuiz()}
	tr, _ := newTracker(testCourse(1), b, WithClearDelay(5*time.Millisecond))
	l1 := tr.Lessons()[0].ID

	if _, err := tr.RequestQuiz(context.Background(), l1); err != nil {
		t.Fatalf("RequestQuiz: %v", err)
	}
	if err := tr.RecordQuizScore(l1, 100); err != nil {
		t.Fatalf("RecordQuizScore: %v", err)
	}
	tr.Wait()
	if _, _, ok := tr.ActiveQuiz(); ok {
		t.Fatalf("active quiz not cleared")
	}
}

func TestPushFailureKeepsLocalState(t *testing.T) {
	b := &fakeBackend{pushErr: errors.New("connection refused")}
	tr, n := newTracker(testCourse(2), b)
	l1 := tr.Lessons()[0].ID

	if err := tr.CompleteLesson(l1, "kept"); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	tr.Wait()
	if !tr.IsCompleted(l1) || tr.Snapshot().Notes[l1] != "kept" {
		t.Fatalf("local state rolled back after push failure")
	}
	if len(n.success) != 0 {
		t.Fatalf("success notified for a failed push")
	}
}

func TestPushRevisionsIncrease(t *testing.T) {
	b := &fakeBackend{}
	tr, _ := newTracker(testCourse(3), b)
	for _, l := range tr.Lessons() {
		if err := tr.CompleteLesson(l.ID, ""); err != nil {
			t.Fatal(err)
		}
	}
	tr.Wait()

	last := b.latest(t)
	if len(last.LessonsCompleted) != 3 {
		t.Fatalf("highest revision carries %d lessons, want 3", len(last.LessonsCompleted))
	}
	seen := map[int64]bool{}
	for _, p := range b.pushes {
		if p.Revision == 0 || seen[p.Revision] {
			t.Fatalf("revision %d zero or repeated", p.Revision)
		}
		seen[p.Revision] = true
		if p.ClientID == uuid.Nil || p.ClientID != last.ClientID {
			t.Fatalf("push carries client %s, want one non-nil id %s per tracker", p.ClientID, last.ClientID)
		}
	}
}

func TestTrackersPushUnderDistinctClientIDs(t *testing.T) {
	course := testCourse(2)
	first, second := &fakeBackend{}, &fakeBackend{}
	a, _ := newTracker(course, first)
	b, _ := newTracker(course, second)
	if err := a.CompleteLesson(course.Lessons[0].ID, ""); err != nil {
		t.Fatal(err)
	}
	if err := b.CompleteLesson(course.Lessons[1].ID, ""); err != nil {
		t.Fatal(err)
	}
	a.Wait()
	b.Wait()

	if first.latest(t).ClientID == second.latest(t).ClientID {
		t.Fatalf("two trackers share client id %s", first.latest(t).ClientID)
	}
	if first.latest(t).Revision != 1 || second.latest(t).Revision != 1 {
		t.Fatalf("revisions=%d,%d want each tracker to start at 1", first.latest(t).Revision, second.latest(t).Revision)
	}
}

func TestRestoreMerges(t *testing.T) {
	course := testCourse(3)
	l1, l2 := course.Lessons[2].ID, course.Lessons[1].ID
	tr, _ := newTracker(course, &fakeBackend{}, WithRecord(Record{
		Completed: []uuid.UUID{l1},
		Notes:     map[uuid.UUID]string{l1: "remote"},
		Scores:    map[uuid.UUID]int{l1: 70},
	}))

	if err := tr.CompleteLesson(l2, "local"); err != nil {
		t.Fatal(err)
	}
	tr.Restore(Record{
		Completed: []uuid.UUID{},
		Notes:     map[uuid.UUID]string{l2: "stale"},
	})
	tr.Wait()

	snap := tr.Snapshot()
	if len(snap.Completed) != 2 {
		t.Fatalf("completed=%v", snap.Completed)
	}
	if snap.Notes[l1] != "remote" || snap.Notes[l2] != "local" || snap.Scores[l1] != 70 {
		t.Fatalf("notes=%v scores=%v", snap.Notes, snap.Scores)
	}
}

func TestLessonNotesAndQuizEndToEnd(t *testing.T) {
	b := &fakeBackend{quiz: twoQuestionQuiz()}
	tr, _ := newTracker(testCourse(3), b)
	l1 := tr.Lessons()[0].ID

	if err := tr.CompleteLesson(l1, "good stuff"); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	engine, err := tr.RequestQuiz(context.Background(), l1)
	if err != nil {
		t.Fatalf("RequestQuiz: %v", err)
	}
	if err := engine.Answer(0, quiz.TrueFalse(true)); err != nil {
		t.Fatal(err)
	}
	if err := engine.Next(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Answer(1, quiz.Choice(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.FinishQuiz(); !errors.Is(err, ErrQuizNotSubmitted) {
		t.Fatalf("FinishQuiz before submit err=%v", err)
	}
	if score, err := engine.Submit(); err != nil || score != 50 {
		t.Fatalf("Submit=%d,%v want 50", score, err)
	}
	score, err := tr.FinishQuiz()
	if err != nil || score != 50 {
		t.Fatalf("FinishQuiz=%d,%v", score, err)
	}
	tr.Wait()

	snap := tr.Snapshot()
	if len(snap.Completed) != 1 || snap.Completed[0] != l1 {
		t.Fatalf("completed=%v", snap.Completed)
	}
	if snap.Notes[l1] != "good stuff" || snap.Scores[l1] != 50 {
		t.Fatalf("notes=%v scores=%v", snap.Notes, snap.Scores)
	}

	last := b.latest(t)
	if len(last.LessonsCompleted) != 1 || last.Notes[l1] != "good stuff" || last.QuizScores[l1] != 50 {
		t.Fatalf("stored record=%+v", last)
	}
	if _, err := tr.FinishQuiz(); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("quiz still active after clear: %v", err)
	}
}
