package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
)

// ParseAnswer reads a typed answer for q: a 1-based option number for
// multiple choice, t/f (or true/false, yes/no) for true/false, and the raw
// text for fill-in-blank.
func ParseAnswer(q quiz.Question, line string) (quiz.Answer, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return quiz.Answer{}, fmt.Errorf("empty answer")
	}
	switch q.Type {
	case quiz.TypeMultipleChoice:
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(q.Options) {
			return quiz.Answer{}, fmt.Errorf("enter a number between 1 and %d", len(q.Options))
		}
		return quiz.Choice(n - 1), nil
	case quiz.TypeTrueFalse:
		switch strings.ToLower(line) {
		case "t", "true", "y", "yes":
			return quiz.TrueFalse(true), nil
		case "f", "false", "n", "no":
			return quiz.TrueFalse(false), nil
		}
		return quiz.Answer{}, fmt.Errorf("enter t or f")
	case quiz.TypeFillBlank:
		return quiz.FillIn(line), nil
	default:
		return quiz.Answer{}, fmt.Errorf("unsupported question type %q", q.Type)
	}
}
