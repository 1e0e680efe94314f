package quiz

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyQuiz       = errors.New("quiz has no questions")
	ErrNoAnswer        = errors.New("current question has no answer")
	ErrNotLastQuestion = errors.New("submit is only allowed on the last question")
	ErrCompleted       = errors.New("quiz already submitted")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrAnswerKind      = errors.New("answer does not match question type")
)

// Engine walks a learner through a fixed, ordered list of questions and
// scores the attempt once. An Engine is single-use: after Submit it only
// reports its score.
type Engine struct {
	questions []Question
	answers   []Answer
	current   int
	completed bool
	score     int
}

// NewEngine starts an attempt at Answering(0). The question slice is copied.
func NewEngine(questions []Question) (*Engine, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Engine{
		questions: qs,
		answers:   make([]Answer, len(qs)),
	}, nil
}

func (e *Engine) Len() int { return len(e.questions) }

// Current is the index of the question being answered.
func (e *Engine) Current() int { return e.current }

func (e *Engine) Question(index int) (Question, error) {
	if index < 0 || index >= len(e.questions) {
		return Question{}, fmt.Errorf("%w: question %d of %d", ErrIndexOutOfRange, index, len(e.questions))
	}
	return e.questions[index], nil
}

// Answered reports whether question index holds an answer.
func (e *Engine) Answered(index int) bool {
	if index < 0 || index >= len(e.answers) {
		return false
	}
	return !e.answers[index].IsZero()
}

// AnswerAt returns the recorded answer for index, if any.
func (e *Engine) AnswerAt(index int) (Answer, bool) {
	if !e.Answered(index) {
		return Answer{}, false
	}
	return e.answers[index], true
}

func (e *Engine) IsLast() bool { return e.current == len(e.questions)-1 }

func (e *Engine) Completed() bool { return e.completed }

// Score is the final percentage; ok is false until Submit succeeded.
func (e *Engine) Score() (score int, ok bool) {
	return e.score, e.completed
}

// Answer records value for question index, replacing any earlier answer.
func (e *Engine) Answer(index int, value Answer) error {
	if e.completed {
		return ErrCompleted
	}
	q, err := e.Question(index)
	if err != nil {
		return err
	}
	if err := q.Accepts(value); err != nil {
		return err
	}
	e.answers[index] = value
	return nil
}

// Next advances one question. The current question must be answered; the
// position never moves past the last question.
func (e *Engine) Next() error {
	if e.completed {
		return ErrCompleted
	}
	if !e.Answered(e.current) {
		return ErrNoAnswer
	}
	if e.current < len(e.questions)-1 {
		e.current++
	}
	return nil
}

// Previous moves back one question, stopping at the first.
func (e *Engine) Previous() error {
	if e.completed {
		return ErrCompleted
	}
	if e.current > 0 {
		e.current--
	}
	return nil
}

// Submit scores the attempt and moves the engine to its terminal state.
func (e *Engine) Submit() (int, error) {
	if e.completed {
		return e.score, ErrCompleted
	}
	if !e.IsLast() {
		return 0, ErrNotLastQuestion
	}
	if !e.Answered(e.current) {
		return 0, ErrNoAnswer
	}
	correct := 0
	for i, q := range e.questions {
		if q.IsCorrect(e.answers[i]) {
			correct++
		}
	}
	e.score = Percentage(correct, len(e.questions))
	e.completed = true
	return e.score, nil
}

// Percentage rounds 100*correct/total half-up to an integer. A zero total
// yields 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(100*correct)/float64(total) + 0.5))
}
