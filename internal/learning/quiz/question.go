package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the question type tag used on the wire.
type Type string

const (
	TypeMultipleChoice Type = "mcq"
	TypeTrueFalse      Type = "true_false"
	TypeFillBlank      Type = "fill_blank"
)

// Match controls how fill-in-blank answers are compared with the key.
type Match string

const (
	MatchExact Match = "exact"
	// MatchFold trims surrounding whitespace and ignores case.
	MatchFold Match = "fold"
)

// Answer is a learner answer or an answer key value. Its kind follows the
// question type: a choice index, a boolean, or free text.
type Answer struct {
	kind  Type
	index int
	truth bool
	text  string
}

func Choice(index int) Answer   { return Answer{kind: TypeMultipleChoice, index: index} }
func TrueFalse(v bool) Answer   { return Answer{kind: TypeTrueFalse, truth: v} }
func FillIn(text string) Answer { return Answer{kind: TypeFillBlank, text: text} }

func (a Answer) Kind() Type   { return a.kind }
func (a Answer) Index() int   { return a.index }
func (a Answer) Bool() bool   { return a.truth }
func (a Answer) Text() string { return a.text }
func (a Answer) IsZero() bool { return a.kind == "" }

func (a Answer) String() string {
	switch a.kind {
	case TypeMultipleChoice:
		return fmt.Sprintf("option %d", a.index)
	case TypeTrueFalse:
		return fmt.Sprintf("%t", a.truth)
	case TypeFillBlank:
		return fmt.Sprintf("%q", a.text)
	default:
		return "<none>"
	}
}

func (a Answer) value() any {
	switch a.kind {
	case TypeMultipleChoice:
		return a.index
	case TypeTrueFalse:
		return a.truth
	case TypeFillBlank:
		return a.text
	default:
		return nil
	}
}

// Question is one quiz item together with its answer key.
type Question struct {
	Type        Type
	Prompt      string
	Options     []string
	Correct     Answer
	Explanation string
	Match       Match
}

// Accepts reports whether ans is a well-formed answer for q.
func (q Question) Accepts(ans Answer) error {
	if ans.kind != q.Type {
		return fmt.Errorf("%w: question is %s, answer is %s", ErrAnswerKind, q.Type, ans.kind)
	}
	if q.Type == TypeMultipleChoice && (ans.index < 0 || ans.index >= len(q.Options)) {
		return fmt.Errorf("%w: option %d of %d", ErrIndexOutOfRange, ans.index, len(q.Options))
	}
	return nil
}

// IsCorrect compares ans with the answer key.
func (q Question) IsCorrect(ans Answer) bool {
	if ans.kind != q.Type || q.Correct.kind != q.Type {
		return false
	}
	switch q.Type {
	case TypeMultipleChoice:
		return ans.index == q.Correct.index
	case TypeTrueFalse:
		return ans.truth == q.Correct.truth
	case TypeFillBlank:
		if q.Match == MatchFold {
			return strings.EqualFold(strings.TrimSpace(ans.text), strings.TrimSpace(q.Correct.text))
		}
		return ans.text == q.Correct.text
	default:
		return false
	}
}

type wireQuestion struct {
	Type          Type            `json:"type"`
	Question      string          `json:"question"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	Explanation   string          `json:"explanation"`
	Match         Match           `json:"match,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(q.Correct.value())
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireQuestion{
		Type:          q.Type,
		Question:      q.Prompt,
		Options:       q.Options,
		CorrectAnswer: raw,
		Explanation:   q.Explanation,
		Match:         q.Match,
	})
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	correct, err := decodeAnswer(w.Type, w.CorrectAnswer)
	if err != nil {
		return fmt.Errorf("question %q: %w", w.Question, err)
	}
	*q = Question{
		Type:        w.Type,
		Prompt:      w.Question,
		Options:     w.Options,
		Correct:     correct,
		Explanation: w.Explanation,
		Match:       w.Match,
	}
	return nil
}

func decodeAnswer(t Type, raw json.RawMessage) (Answer, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Answer{}, fmt.Errorf("missing correct_answer")
	}
	switch t {
	case TypeMultipleChoice:
		var i int
		if err := json.Unmarshal(raw, &i); err != nil {
			return Answer{}, fmt.Errorf("mcq correct_answer must be an index: %w", err)
		}
		return Choice(i), nil
	case TypeTrueFalse:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Answer{}, fmt.Errorf("true_false correct_answer must be a boolean: %w", err)
		}
		return TrueFalse(b), nil
	case TypeFillBlank:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Answer{}, fmt.Errorf("fill_blank correct_answer must be a string: %w", err)
		}
		return FillIn(s), nil
	default:
		return Answer{}, fmt.Errorf("unknown question type %q", t)
	}
}
