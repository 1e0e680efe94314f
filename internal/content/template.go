package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
)

var templateSections = []string{
	"Introduction to %s",
	"Core concepts of %s",
	"Working through %s examples",
	"Common mistakes with %s",
	"Applying %s in practice",
	"Advanced %s",
	"Reviewing %s",
}

// TemplateGenerator writes deterministic outline lessons without any model.
// It backs local development and runs where no API key is configured.
type TemplateGenerator struct{}

func (TemplateGenerator) Lessons(_ context.Context, req LessonRequest) ([]api.Lesson, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("topic required")
	}
	n := LessonCount(req.Mode)
	paragraphs := paragraphsFor(req.Mode)

	lessons := make([]api.Lesson, 0, n)
	for i := 0; i < n; i++ {
		title := fmt.Sprintf(templateSections[i%len(templateSections)], topic)
		var b strings.Builder
		for p := 1; p <= paragraphs; p++ {
			if p > 1 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "%s, part %d. This section covers %s step by step in %s.", title, p, topic, languageOr(req.Language))
		}
		lessons = append(lessons, api.Lesson{
			Title:   title,
			Content: b.String(),
			Order:   i + 1,
		})
	}
	return lessons, nil
}

func (TemplateGenerator) Quiz(_ context.Context, lesson api.Lesson) ([]quiz.Question, error) {
	return []quiz.Question{
		{
			Type:        quiz.TypeMultipleChoice,
			Prompt:      fmt.Sprintf("Which lesson covers '%s'?", lesson.Title),
			Options:     []string{lesson.Title, "None of the lessons", "A later course", "An earlier course"},
			Correct:     quiz.Choice(0),
			Explanation: "The lesson title names its subject.",
		},
		{
			Type:        quiz.TypeTrueFalse,
			Prompt:      fmt.Sprintf("Lesson %d comes before lesson %d.", lesson.Order, lesson.Order+1),
			Correct:     quiz.TrueFalse(true),
			Explanation: "Lessons are read in ascending order.",
		},
		{
			Type:        quiz.TypeFillBlank,
			Prompt:      "Complete this: lessons are read in ascending _____.",
			Correct:     quiz.FillIn("order"),
			Explanation: "Each lesson has an order within its course.",
			Match:       quiz.MatchFold,
		},
	}, nil
}

func paragraphsFor(mode string) int {
	switch mode {
	case api.ModeQuick:
		return 2
	case api.ModeDetailed:
		return 4
	default:
		return 3
	}
}

func languageOr(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "English"
	}
	return lang
}
