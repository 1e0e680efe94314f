// Package progress tracks a learner's progress through one open course.
// Mutations apply locally first; every mutation pushes the full record to
// the backend in the background and push failures never roll local state
// back.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

const (
	DefaultClearDelay  = 3 * time.Second
	DefaultPushTimeout = 30 * time.Second
)

var (
	ErrUnknownLesson    = errors.New("lesson is not part of this course")
	ErrInvalidScore     = errors.New("score must be between 0 and 100")
	ErrNoActiveQuiz     = errors.New("no active quiz")
	ErrQuizNotSubmitted = errors.New("active quiz has not been submitted")
)

// Backend is the remote store the tracker replicates to.
type Backend interface {
	FetchQuiz(ctx context.Context, lessonID uuid.UUID) (*api.Quiz, error)
	PushProgress(ctx context.Context, payload api.ProgressPayload) error
}

type Option func(*Tracker)

// WithClearDelay sets how long a finished quiz stays active.
func WithClearDelay(d time.Duration) Option {
	return func(t *Tracker) { t.clearDelay = d }
}

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notify = n }
}

func WithPushTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.pushTimeout = d }
}

// WithRecord seeds the tracker from a previously stored record.
func WithRecord(rec Record) Option {
	return func(t *Tracker) { t.restore(rec) }
}

type activeQuiz struct {
	lessonID uuid.UUID
	quiz     api.Quiz
	engine   *quiz.Engine
}

type Tracker struct {
	log         *logger.Logger
	backend     Backend
	notify      Notifier
	clearDelay  time.Duration
	pushTimeout time.Duration

	lessons []api.Lesson
	known   map[uuid.UUID]struct{}

	mu         sync.Mutex
	record     Record
	done       map[uuid.UUID]struct{}
	active     *activeQuiz
	clearTimer *time.Timer
	// gen invalidates a clear that fires after a newer quiz became active.
	gen uint64
	// clientID tags every push so the backend orders them only against
	// earlier pushes of this tracker.
	clientID uuid.UUID
	seq      int64

	inflight sync.WaitGroup
}

func NewTracker(log *logger.Logger, course api.Course, backend Backend, opts ...Option) *Tracker {
	lessons := append([]api.Lesson(nil), course.Lessons...)
	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
	known := make(map[uuid.UUID]struct{}, len(lessons))
	for _, l := range lessons {
		known[l.ID] = struct{}{}
	}

	t := &Tracker{
		log:         log.With("component", "ProgressTracker", "course_id", course.ID),
		backend:     backend,
		clearDelay:  DefaultClearDelay,
		pushTimeout: DefaultPushTimeout,
		lessons:     lessons,
		known:       known,
		record: Record{
			CourseID: course.ID,
			Topic:    course.Topic,
			Language: course.Language,
			Mode:     course.Mode,
			Notes:    map[uuid.UUID]string{},
			Scores:   map[uuid.UUID]int{},
		},
		done:     map[uuid.UUID]struct{}{},
		clientID: uuid.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.notify == nil {
		t.notify = LogNotifier(log)
	}
	return t
}

// Restore merges a fetched remote record into local state. Completed lessons
// are unioned; local notes and scores win over remote ones.
func (t *Tracker) Restore(rec Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restore(rec)
}

func (t *Tracker) restore(rec Record) {
	for _, id := range rec.Completed {
		t.markDone(id)
	}
	for id, n := range rec.Notes {
		if _, ok := t.record.Notes[id]; !ok {
			t.record.Notes[id] = n
		}
	}
	for id, s := range rec.Scores {
		if _, ok := t.record.Scores[id]; !ok {
			t.record.Scores[id] = s
		}
	}
}

func (t *Tracker) markDone(id uuid.UUID) {
	if _, ok := t.done[id]; ok {
		return
	}
	t.done[id] = struct{}{}
	t.record.Completed = append(t.record.Completed, id)
}

func (t *Tracker) checkLesson(id uuid.UUID) error {
	if _, ok := t.known[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLesson, id)
	}
	return nil
}

// CompleteLesson marks lessonID complete. Completing twice is a no-op for the
// completed set; non-empty notes always overwrite the stored note.
func (t *Tracker) CompleteLesson(lessonID uuid.UUID, notes string) error {
	if err := t.checkLesson(lessonID); err != nil {
		return err
	}
	t.mu.Lock()
	t.markDone(lessonID)
	if notes != "" {
		t.record.Notes[lessonID] = notes
	}
	payload := t.nextPayload()
	t.mu.Unlock()

	t.push(payload, "Lesson marked as complete")
	return nil
}

// RequestQuiz fetches the quiz for lessonID and makes it the active quiz. On
// failure the learner is notified and nothing changes.
func (t *Tracker) RequestQuiz(ctx context.Context, lessonID uuid.UUID) (*quiz.Engine, error) {
	if err := t.checkLesson(lessonID); err != nil {
		return nil, err
	}
	q, err := t.backend.FetchQuiz(ctx, lessonID)
	if err != nil {
		t.notify.Error("Failed to load quiz", err)
		return nil, fmt.Errorf("fetch quiz: %w", err)
	}
	engine, err := quiz.NewEngine(q.Questions)
	if err != nil {
		t.notify.Error("Failed to load quiz", err)
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopClear()
	t.gen++
	t.active = &activeQuiz{lessonID: lessonID, quiz: *q, engine: engine}
	return engine, nil
}

// ActiveQuiz returns the quiz being taken, if any.
func (t *Tracker) ActiveQuiz() (uuid.UUID, *quiz.Engine, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return uuid.Nil, nil, false
	}
	return t.active.lessonID, t.active.engine, true
}

// RecordQuizScore stores score for lessonID, pushes the record and clears the
// active quiz after the configured delay.
func (t *Tracker) RecordQuizScore(lessonID uuid.UUID, score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidScore, score)
	}
	if err := t.checkLesson(lessonID); err != nil {
		return err
	}
	t.mu.Lock()
	t.record.Scores[lessonID] = score
	payload := t.nextPayload()
	t.scheduleClear()
	t.mu.Unlock()

	t.push(payload, "")
	t.notify.Score(lessonID, score)
	return nil
}

// FinishQuiz records the score of the submitted active quiz.
func (t *Tracker) FinishQuiz() (int, error) {
	t.mu.Lock()
	active := t.active
	t.mu.Unlock()
	if active == nil {
		return 0, ErrNoActiveQuiz
	}
	score, ok := active.engine.Score()
	if !ok {
		return 0, ErrQuizNotSubmitted
	}
	if err := t.RecordQuizScore(active.lessonID, score); err != nil {
		return 0, err
	}
	return score, nil
}

// ProgressPercentage is the share of course lessons completed, 0 for a course
// without lessons.
func (t *Tracker) ProgressPercentage() float64 {
	if len(t.lessons) == 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id := range t.done {
		if _, ok := t.known[id]; ok {
			n++
		}
	}
	return float64(n) / float64(len(t.lessons)) * 100
}

func (t *Tracker) IsCompleted(lessonID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.done[lessonID]
	return ok
}

func (t *Tracker) Snapshot() Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.clone()
}

// Lessons returns the course lessons sorted by order.
func (t *Tracker) Lessons() []api.Lesson {
	return append([]api.Lesson(nil), t.lessons...)
}

// Wait blocks until in-flight pushes and a pending quiz clear have finished.
func (t *Tracker) Wait() {
	t.inflight.Wait()
}

// nextPayload must be called with mu held.
func (t *Tracker) nextPayload() api.ProgressPayload {
	t.seq++
	return t.record.payload(t.clientID, t.seq)
}

func (t *Tracker) push(payload api.ProgressPayload, successMsg string) {
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.pushTimeout)
		defer cancel()
		if err := t.backend.PushProgress(ctx, payload); err != nil {
			t.log.Warn("Progress push failed", "error", err, "client_id", payload.ClientID, "revision", payload.Revision)
			return
		}
		if successMsg != "" {
			t.notify.Success(successMsg)
		}
	}()
}

// scheduleClear and stopClear must be called with mu held.
func (t *Tracker) scheduleClear() {
	t.stopClear()
	t.gen++
	gen := t.gen
	t.inflight.Add(1)
	t.clearTimer = time.AfterFunc(t.clearDelay, func() {
		defer t.inflight.Done()
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen != gen {
			return
		}
		t.active = nil
		t.clearTimer = nil
	})
}

func (t *Tracker) stopClear() {
	if t.clearTimer == nil {
		return
	}
	if t.clearTimer.Stop() {
		t.inflight.Done()
	}
	t.clearTimer = nil
}
