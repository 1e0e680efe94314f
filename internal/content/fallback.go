package content

import (
	"fmt"

	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
)

// DefaultQuiz is served when quiz generation fails.
func DefaultQuiz(lessonTitle string) []quiz.Question {
	return []quiz.Question{{
		Type:        quiz.TypeMultipleChoice,
		Prompt:      fmt.Sprintf("What is the main topic of the lesson '%s'?", lessonTitle),
		Options:     []string{"Option A", "Option B", "Option C", "Option D"},
		Correct:     quiz.Choice(0),
		Explanation: "This is a default question.",
	}}
}

// ValidQuestions drops questions whose answer key does not fit their type.
func ValidQuestions(qs []quiz.Question) []quiz.Question {
	out := make([]quiz.Question, 0, len(qs))
	for _, q := range qs {
		if q.Prompt == "" {
			continue
		}
		if err := q.Accepts(q.Correct); err != nil {
			continue
		}
		out = append(out, q)
	}
	return out
}
